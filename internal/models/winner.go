package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Winner is an append-only fact recording that a user won a campaign's draw.
// Created exactly once per winner per campaign during settlement, never updated.
type Winner struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	CampaignID  primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	PrizeAmount int64              `bson:"prizeAmount" json:"prizeAmount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
