package draw

import (
	"math/rand"
	"time"
)

// Source yields uniform values in [0, 1). It is injected into the sampler so
// settlement runs can be replayed with a fixed sequence in tests.
type Source interface {
	Float64() float64
}

type mathSource struct {
	r *rand.Rand
}

// NewSource returns a Source seeded from the current time.
func NewSource() Source {
	return &mathSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededSource returns a reproducible Source for a given seed.
func NewSeededSource(seed int64) Source {
	return &mathSource{r: rand.New(rand.NewSource(seed))}
}

func (s *mathSource) Float64() float64 { return s.r.Float64() }
