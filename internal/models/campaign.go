package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DistributionMode determines how a campaign's prize pool is split at settlement
type DistributionMode string

const (
	// DistributionEven splits the prize equally among all completers
	DistributionEven DistributionMode = "EVEN"
	// DistributionWeighted awards the prize to a limited number of winners
	// chosen by pity-weighted sampling without replacement
	DistributionWeighted DistributionMode = "WEIGHTED"
)

// Campaign represents a closed-ended reward-bearing questionnaire instance
type Campaign struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Prize     int64              `bson:"prize" json:"prize"`
	Mode      DistributionMode   `bson:"mode" json:"mode"`
	MaxWinner int                `bson:"maxWinner" json:"maxWinner"` // 0 = unused, settlement distributes nothing
	EndedAt   *time.Time         `bson:"endedAt,omitempty" json:"endedAt,omitempty"` // nil = still open
	TotalPity int64              `bson:"totalPity" json:"totalPity"`
	IsSettled bool               `bson:"isSettled" json:"isSettled"` // monotonic false -> true
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Ended reports whether the campaign has closed by time.
func (c *Campaign) Ended(now time.Time) bool {
	return c.EndedAt != nil && !c.EndedAt.After(now)
}
