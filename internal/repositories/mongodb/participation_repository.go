package mongodb

import (
	"context"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/models"
	"github.com/Questify-PPL/backend-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ParticipationRepository implements the repositories.ParticipationRepository interface
type ParticipationRepository struct {
	collection *mongo.Collection
}

// NewParticipationRepository creates a new ParticipationRepository
func NewParticipationRepository(db *mongo.Database) repositories.ParticipationRepository {
	return &ParticipationRepository{
		collection: db.Collection("participations"),
	}
}

// Create creates a new participation record
func (r *ParticipationRepository) Create(ctx context.Context, participation *models.Participation) error {
	participation.CreatedAt = time.Now()
	participation.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, participation)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		participation.ID = id
	}
	return nil
}

// FindByUserAndCampaign finds a user's participation in a campaign
func (r *ParticipationRepository) FindByUserAndCampaign(ctx context.Context, userID, campaignID primitive.ObjectID) (*models.Participation, error) {
	var participation models.Participation
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "campaignId": campaignID}).Decode(&participation)
	if err != nil {
		return nil, err
	}
	return &participation, nil
}

// FindByUser finds all participations of a user, newest first
func (r *ParticipationRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Participation, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participations []*models.Participation
	if err := cursor.All(ctx, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

// FindCompletedParticipants returns each completer of the campaign joined with
// the pity weight on their user document.
func (r *ParticipationRepository) FindCompletedParticipants(ctx context.Context, campaignID primitive.ObjectID) ([]models.CompletedParticipant, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"campaignId": campaignID, "isCompleted": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.M{"userId": 1, "pity": "$user.pity"}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []models.CompletedParticipant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

// FindCompletedCampaignIDs lists campaign ids the user has completed, excluding one
func (r *ParticipationRepository) FindCompletedCampaignIDs(ctx context.Context, userID, exclude primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"userId":      userID,
		"isCompleted": true,
		"campaignId":  bson.M{"$ne": exclude},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			CampaignID primitive.ObjectID `bson:"campaignId"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.CampaignID)
	}
	return ids, cursor.Err()
}

// MarkCompleted flags a participation as completed exactly once. The settled
// completion flag guards the pity increment against double counting.
func (r *ParticipationRepository) MarkCompleted(ctx context.Context, userID, campaignID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"userId": userID, "campaignId": campaignID, "isCompleted": false},
		bson.M{"$set": bson.M{"isCompleted": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetFinalChance freezes the winning-chance estimate for a settled campaign
func (r *ParticipationRepository) SetFinalChance(ctx context.Context, userID, campaignID primitive.ObjectID, chance float64) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"userId": userID, "campaignId": campaignID},
		bson.M{"$set": bson.M{"finalChance": chance, "updatedAt": time.Now()}},
	)
	return err
}
