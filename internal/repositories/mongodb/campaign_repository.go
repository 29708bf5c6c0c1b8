package mongodb

import (
	"context"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/models"
	"github.com/Questify-PPL/backend-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CampaignRepository implements the repositories.CampaignRepository interface
type CampaignRepository struct {
	collection *mongo.Collection
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *mongo.Database) repositories.CampaignRepository {
	return &CampaignRepository{
		collection: db.Collection("campaigns"),
	}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, campaign)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		campaign.ID = id
	}
	return nil
}

// FindByID finds a campaign by ID
func (r *CampaignRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&campaign)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// IncrementTotalPity atomically adjusts a campaign's aggregate pity total
func (r *CampaignRepository) IncrementTotalPity(ctx context.Context, id primitive.ObjectID, delta int64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"totalPity": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	return err
}

// IncrementTotalPityMany adjusts the aggregate pity total of several campaigns at once
func (r *CampaignRepository) IncrementTotalPityMany(ctx context.Context, ids []primitive.ObjectID, delta int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{
		"$inc": bson.M{"totalPity": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	return err
}

// FindOpenUnsettledIDs narrows ids to campaigns that are unsettled and still open
func (r *CampaignRepository) FindOpenUnsettledIDs(ctx context.Context, ids []primitive.ObjectID, now time.Time) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"_id":       bson.M{"$in": ids},
		"isSettled": false,
		"$or": bson.A{
			bson.M{"endedAt": nil},
			bson.M{"endedAt": bson.M{"$gt": now}},
		},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var open []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		open = append(open, doc.ID)
	}
	return open, cursor.Err()
}

// MarkSettled flips the settled flag with a compare-and-swap on its previous
// value. The write is the authoritative guard against duplicate settlement.
func (r *CampaignRepository) MarkSettled(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isSettled": false},
		bson.M{"$set": bson.M{"isSettled": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}
