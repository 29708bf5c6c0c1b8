package services

import (
	"context"

	"github.com/Questify-PPL/backend-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PityLedger owns every mutation of participant pity weights and campaign
// aggregate pity totals. No other component may touch them.
type PityLedger interface {
	// OnParticipationCompleted applies the three-part pity update for one
	// completion transition as a single atomic unit.
	OnParticipationCompleted(ctx context.Context, campaignID, userID primitive.ObjectID) error

	// ResetWinnerWeight restarts the pity clock for a weighted-draw winner.
	ResetWinnerWeight(ctx context.Context, userID primitive.ObjectID) error

	// GrowNonWinnerWeight accrues extra pity for a weighted-draw loser.
	GrowNonWinnerWeight(ctx context.Context, userID primitive.ObjectID) error
}

// SettlementService drives the one-time settlement of closed campaigns and the
// read-only winning-chance estimate.
type SettlementService interface {
	// SettleIfDue settles the campaign if it has closed and is not yet
	// settled. Precondition misses and lock contention are silent no-ops.
	SettleIfDue(ctx context.Context, campaignID primitive.ObjectID) error

	// EstimateWinningChance returns the respondent-visible probability in
	// [0,100], frozen once the campaign has settled.
	EstimateWinningChance(ctx context.Context, userID, campaignID primitive.ObjectID) (float64, error)
}

// ParticipationSummary is one row of a respondent's participation listing.
type ParticipationSummary struct {
	Participation *models.Participation `json:"participation"`
	Campaign      *models.Campaign      `json:"campaign"`
	Chance        float64               `json:"chance"`
}

// ParticipationService handles the respondent participation flow.
type ParticipationService interface {
	Join(ctx context.Context, userID, campaignID primitive.ObjectID) (*models.Participation, error)
	Complete(ctx context.Context, userID, campaignID primitive.ObjectID) error
	// ListMine lists the user's participations, opportunistically settling any
	// campaign that has closed since the last read.
	ListMine(ctx context.Context, userID primitive.ObjectID) ([]*ParticipationSummary, error)
}

// CampaignService exposes the campaign read surface consumed by respondents.
type CampaignService interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	// Get reads a campaign, opportunistically settling it when it has closed.
	Get(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	GetWinners(ctx context.Context, campaignID primitive.ObjectID) ([]*models.Winner, error)
}

// RewardService exposes a respondent's reward history.
type RewardService interface {
	ListWins(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error)
	ListCredits(ctx context.Context, userID primitive.ObjectID) ([]*models.CreditTransaction, error)
}

// AuthService defines the interface for respondent authentication
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
}
