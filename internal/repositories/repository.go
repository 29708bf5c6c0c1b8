package repositories

import (
	"context"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transactor runs fn as one atomic unit: either every write issued through the
// callback's context is committed, or none are. The pity ledger's three-part
// update and the settlement distribution block both execute under it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for respondent data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	IncrementPity(ctx context.Context, id primitive.ObjectID, delta int64) error
	SetPity(ctx context.Context, id primitive.ObjectID, value int64) error
	IncrementBalance(ctx context.Context, id primitive.ObjectID, amount int64) error
}

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	IncrementTotalPity(ctx context.Context, id primitive.ObjectID, delta int64) error
	IncrementTotalPityMany(ctx context.Context, ids []primitive.ObjectID, delta int64) error
	// FindOpenUnsettledIDs narrows ids to campaigns that are unsettled and not
	// yet closed at the given instant.
	FindOpenUnsettledIDs(ctx context.Context, ids []primitive.ObjectID, now time.Time) ([]primitive.ObjectID, error)
	// MarkSettled flips the monotonic settled flag. It reports whether this
	// call performed the flip, so callers can detect a lost settlement race.
	MarkSettled(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// ParticipationRepository defines the interface for participation data operations
type ParticipationRepository interface {
	Create(ctx context.Context, participation *models.Participation) error
	FindByUserAndCampaign(ctx context.Context, userID, campaignID primitive.ObjectID) (*models.Participation, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Participation, error)
	// FindCompletedParticipants returns each completer of the campaign with the
	// pity weight the draw should use.
	FindCompletedParticipants(ctx context.Context, campaignID primitive.ObjectID) ([]models.CompletedParticipant, error)
	// FindCompletedCampaignIDs lists campaigns the user has completed,
	// excluding the given one.
	FindCompletedCampaignIDs(ctx context.Context, userID, exclude primitive.ObjectID) ([]primitive.ObjectID, error)
	MarkCompleted(ctx context.Context, userID, campaignID primitive.ObjectID) error
	SetFinalChance(ctx context.Context, userID, campaignID primitive.ObjectID, chance float64) error
}

// WinnerRepository defines the interface for winner record operations
type WinnerRepository interface {
	CreateMany(ctx context.Context, winners []*models.Winner) error
	FindByCampaignID(ctx context.Context, campaignID primitive.ObjectID) ([]*models.Winner, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error)
}

// CreditTransactionRepository defines the interface for credit ledger operations
type CreditTransactionRepository interface {
	Create(ctx context.Context, transaction *models.CreditTransaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.CreditTransaction, error)
}
