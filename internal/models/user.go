package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a respondent account.
// Pity is the accumulating draw weight: +1 per completed participation,
// reset to 1 on winning a weighted draw, +2 for weighted-draw non-winners.
// It is mutated only by the pity ledger and the settlement pass.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Pity      int64              `bson:"pity" json:"pity"`
	Balance   int64              `bson:"balance" json:"balance"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
