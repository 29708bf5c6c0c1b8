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

// CreditTransactionRepository implements the repositories.CreditTransactionRepository interface
type CreditTransactionRepository struct {
	collection *mongo.Collection
}

// NewCreditTransactionRepository creates a new CreditTransactionRepository
func NewCreditTransactionRepository(db *mongo.Database) repositories.CreditTransactionRepository {
	return &CreditTransactionRepository{
		collection: db.Collection("credit_transactions"),
	}
}

// Create appends a credit ledger entry
func (r *CreditTransactionRepository) Create(ctx context.Context, transaction *models.CreditTransaction) error {
	transaction.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, transaction)
	return err
}

// FindByUserID finds a user's credit history, newest first
func (r *CreditTransactionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.CreditTransaction, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transactions []*models.CreditTransaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}
