package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/draw"
	"github.com/Questify-PPL/backend-sub000/internal/models"
	"github.com/Questify-PPL/backend-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure ParticipationServiceImpl implements ParticipationService
var _ ParticipationService = (*ParticipationServiceImpl)(nil)

// ErrAlreadyJoined is returned when a user joins a campaign twice
var ErrAlreadyJoined = errors.New("user already joined this campaign")

// ErrNotJoined is returned when completing a participation that does not exist
// or was already completed
var ErrNotJoined = errors.New("no open participation for this campaign")

// ParticipationServiceImpl handles the respondent participation flow and is
// the lazy trigger for settlement: listing participations settles any campaign
// that has closed since the last read.
type ParticipationServiceImpl struct {
	participationRepo repositories.ParticipationRepository
	campaignRepo      repositories.CampaignRepository
	userRepo          repositories.UserRepository
	pityLedger        PityLedger
	settlement        SettlementService
}

// NewParticipationService creates a new ParticipationServiceImpl
func NewParticipationService(
	participationRepo repositories.ParticipationRepository,
	campaignRepo repositories.CampaignRepository,
	userRepo repositories.UserRepository,
	pityLedger PityLedger,
	settlement SettlementService,
) *ParticipationServiceImpl {
	return &ParticipationServiceImpl{
		participationRepo: participationRepo,
		campaignRepo:      campaignRepo,
		userRepo:          userRepo,
		pityLedger:        pityLedger,
		settlement:        settlement,
	}
}

// Join creates a participation record for an open campaign.
func (s *ParticipationServiceImpl) Join(ctx context.Context, userID, campaignID primitive.ObjectID) (*models.Participation, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign not found: %w", err)
	}
	if campaign.Ended(time.Now()) {
		return nil, errors.New("campaign has already ended")
	}

	existing, err := s.participationRepo.FindByUserAndCampaign(ctx, userID, campaignID)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to check participation: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyJoined
	}

	participation := &models.Participation{
		UserID:     userID,
		CampaignID: campaignID,
	}
	if err := s.participationRepo.Create(ctx, participation); err != nil {
		return nil, fmt.Errorf("failed to create participation: %w", err)
	}
	return participation, nil
}

// Complete marks the participation completed and feeds the completion into the
// pity ledger. The completion flip is a compare-and-swap, so the ledger sees
// each transition exactly once.
func (s *ParticipationServiceImpl) Complete(ctx context.Context, userID, campaignID primitive.ObjectID) error {
	err := s.participationRepo.MarkCompleted(ctx, userID, campaignID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotJoined
		}
		return fmt.Errorf("failed to mark participation completed: %w", err)
	}
	return s.pityLedger.OnParticipationCompleted(ctx, campaignID, userID)
}

// ListMine returns the user's participations with their current winning-chance
// estimates, settling ended campaigns along the way.
func (s *ParticipationServiceImpl) ListMine(ctx context.Context, userID primitive.ObjectID) ([]*ParticipationSummary, error) {
	participations, err := s.participationRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	now := time.Now()
	summaries := make([]*ParticipationSummary, 0, len(participations))
	for _, participation := range participations {
		campaign, err := s.campaignRepo.FindByID(ctx, participation.CampaignID)
		if err != nil {
			return nil, fmt.Errorf("failed to load campaign: %w", err)
		}

		if campaign.Ended(now) && !campaign.IsSettled {
			if err := s.settlement.SettleIfDue(ctx, campaign.ID); err != nil {
				// Opportunistic path: the campaign stays closed-but-unsettled
				// and will be retried on the next read.
				slog.Warn("Opportunistic settlement failed", "error", err, "campaignId", campaign.ID.Hex())
			} else {
				campaign, err = s.campaignRepo.FindByID(ctx, campaign.ID)
				if err != nil {
					return nil, fmt.Errorf("failed to reload campaign: %w", err)
				}
				participation, err = s.participationRepo.FindByUserAndCampaign(ctx, userID, campaign.ID)
				if err != nil {
					return nil, fmt.Errorf("failed to reload participation: %w", err)
				}
				user, err = s.userRepo.FindByID(ctx, userID)
				if err != nil {
					return nil, fmt.Errorf("failed to reload user: %w", err)
				}
			}
		}

		summaries = append(summaries, &ParticipationSummary{
			Participation: participation,
			Campaign:      campaign,
			Chance:        draw.EstimateChance(campaign, user.Pity, participation.IsCompleted, participation.FinalChance),
		})
	}
	return summaries, nil
}
