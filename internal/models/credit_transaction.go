package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreditTransaction is an append-only ledger entry for prize credit granted
// to a respondent's balance.
type CreditTransaction struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	CampaignID primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	Amount     int64              `bson:"amount" json:"amount"`
	Source     string             `bson:"source" json:"source"` // e.g. SETTLEMENT
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
