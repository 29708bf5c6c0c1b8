package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation links a respondent to a campaign. FinalChance freezes the
// winning-chance estimate once the campaign settles and is immutable thereafter.
type Participation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	CampaignID  primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	IsCompleted bool               `bson:"isCompleted" json:"isCompleted"`
	FinalChance float64            `bson:"finalChance" json:"finalChance"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CompletedParticipant pairs a completer with the pity weight the draw uses.
type CompletedParticipant struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Pity   int64              `bson:"pity" json:"pity"`
}
