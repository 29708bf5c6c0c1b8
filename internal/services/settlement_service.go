package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/draw"
	"github.com/Questify-PPL/backend-sub000/internal/models"
	"github.com/Questify-PPL/backend-sub000/internal/repositories"
	"github.com/Questify-PPL/backend-sub000/pkg/memlock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure SettlementServiceImpl implements SettlementService
var _ SettlementService = (*SettlementServiceImpl)(nil)

// SettlementServiceImpl settles closed campaigns: it decides the distribution
// mode, draws winners, credits prizes, freezes chances, and applies the
// post-draw pity adjustments, exactly once per campaign.
type SettlementServiceImpl struct {
	campaignRepo      repositories.CampaignRepository
	participationRepo repositories.ParticipationRepository
	userRepo          repositories.UserRepository
	winnerRepo        repositories.WinnerRepository
	creditRepo        repositories.CreditTransactionRepository
	pityLedger        PityLedger
	transactor        repositories.Transactor
	guard             memlock.Guard
	rand              draw.Source
}

// NewSettlementService creates a new SettlementServiceImpl
func NewSettlementService(
	campaignRepo repositories.CampaignRepository,
	participationRepo repositories.ParticipationRepository,
	userRepo repositories.UserRepository,
	winnerRepo repositories.WinnerRepository,
	creditRepo repositories.CreditTransactionRepository,
	pityLedger PityLedger,
	transactor repositories.Transactor,
	guard memlock.Guard,
	rand draw.Source,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		campaignRepo:      campaignRepo,
		participationRepo: participationRepo,
		userRepo:          userRepo,
		winnerRepo:        winnerRepo,
		creditRepo:        creditRepo,
		pityLedger:        pityLedger,
		transactor:        transactor,
		guard:             guard,
		rand:              rand,
	}
}

// SettleIfDue settles the campaign if it has closed and was not settled yet.
// An open or already-settled campaign and a contended lock are silent no-ops;
// settlement is opportunistic and will be retried on the next read.
func (s *SettlementServiceImpl) SettleIfDue(ctx context.Context, campaignID primitive.ObjectID) error {
	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return fmt.Errorf("failed to load campaign: %w", err)
	}
	if campaign.IsSettled || !campaign.Ended(time.Now()) {
		return nil
	}

	lockKey := "campaign-" + campaign.ID.Hex()
	if !s.guard.TryAcquire(lockKey) {
		slog.Debug("Settlement already in progress", "campaignId", campaign.ID.Hex())
		return nil
	}
	defer s.guard.Release(lockKey)

	participants, err := s.participationRepo.FindCompletedParticipants(ctx, campaign.ID)
	if err != nil {
		return fmt.Errorf("failed to load completed participants: %w", err)
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		// The settled-flag compare-and-swap is the authoritative guard; the
		// advisory lock only avoids wasted work within this process.
		won, err := s.campaignRepo.MarkSettled(ctx, campaign.ID)
		if err != nil {
			return fmt.Errorf("failed to mark campaign settled: %w", err)
		}
		if !won {
			return nil
		}
		// A campaign with no completers, or with the winner cap unset, is a
		// valid no-winner terminal state.
		if len(participants) == 0 || campaign.MaxWinner == 0 {
			return nil
		}
		if campaign.Mode == models.DistributionEven {
			return s.distributeEven(ctx, campaign, participants)
		}
		return s.distributeWeighted(ctx, campaign, participants)
	})
	if err != nil {
		slog.Error("Settlement failed", "error", err, "campaignId", campaign.ID.Hex())
		return err
	}

	slog.Info("Campaign settled", "campaignId", campaign.ID.Hex(), "mode", campaign.Mode, "completers", len(participants))
	return nil
}

// distributeEven awards every completer an equal share. Pity mechanics are
// weighted-mode only and are not touched here.
func (s *SettlementServiceImpl) distributeEven(ctx context.Context, campaign *models.Campaign, participants []models.CompletedParticipant) error {
	share := campaign.Prize / int64(len(participants))

	winners := make([]*models.Winner, 0, len(participants))
	for _, p := range participants {
		if err := s.credit(ctx, p.UserID, campaign.ID, share); err != nil {
			return err
		}
		if err := s.participationRepo.SetFinalChance(ctx, p.UserID, campaign.ID, 100); err != nil {
			return fmt.Errorf("failed to freeze chance: %w", err)
		}
		winners = append(winners, &models.Winner{
			UserID:      p.UserID,
			CampaignID:  campaign.ID,
			PrizeAmount: share,
		})
	}
	if err := s.winnerRepo.CreateMany(ctx, winners); err != nil {
		return fmt.Errorf("failed to create winner records: %w", err)
	}
	return nil
}

// distributeWeighted draws winners by pity weight, freezes every completer's
// chance against the pre-settlement pity total, then applies the post-draw
// pity adjustments.
func (s *SettlementServiceImpl) distributeWeighted(ctx context.Context, campaign *models.Campaign, participants []models.CompletedParticipant) error {
	candidates := make([]draw.Candidate, len(participants))
	for i, p := range participants {
		candidates[i] = draw.Candidate{ID: p.UserID, Weight: p.Pity}
	}
	winnerIDs := draw.Pick(campaign.MaxWinner, candidates, s.rand)
	if len(winnerIDs) == 0 {
		return nil
	}
	share := campaign.Prize / int64(len(winnerIDs))

	won := make(map[primitive.ObjectID]bool, len(winnerIDs))
	for _, id := range winnerIDs {
		won[id] = true
	}

	winners := make([]*models.Winner, 0, len(winnerIDs))
	for _, p := range participants {
		chance := draw.FrozenChance(p.Pity, campaign.TotalPity)
		if err := s.participationRepo.SetFinalChance(ctx, p.UserID, campaign.ID, chance); err != nil {
			return fmt.Errorf("failed to freeze chance: %w", err)
		}

		if won[p.UserID] {
			if err := s.credit(ctx, p.UserID, campaign.ID, share); err != nil {
				return err
			}
			if err := s.pityLedger.ResetWinnerWeight(ctx, p.UserID); err != nil {
				return fmt.Errorf("failed to reset winner pity: %w", err)
			}
			winners = append(winners, &models.Winner{
				UserID:      p.UserID,
				CampaignID:  campaign.ID,
				PrizeAmount: share,
			})
		} else {
			if err := s.pityLedger.GrowNonWinnerWeight(ctx, p.UserID); err != nil {
				return fmt.Errorf("failed to grow non-winner pity: %w", err)
			}
		}
	}
	if err := s.winnerRepo.CreateMany(ctx, winners); err != nil {
		return fmt.Errorf("failed to create winner records: %w", err)
	}
	return nil
}

func (s *SettlementServiceImpl) credit(ctx context.Context, userID, campaignID primitive.ObjectID, amount int64) error {
	if err := s.userRepo.IncrementBalance(ctx, userID, amount); err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	transaction := &models.CreditTransaction{
		UserID:     userID,
		CampaignID: campaignID,
		Amount:     amount,
		Source:     "SETTLEMENT",
	}
	if err := s.creditRepo.Create(ctx, transaction); err != nil {
		return fmt.Errorf("failed to record credit transaction: %w", err)
	}
	return nil
}

// EstimateWinningChance computes the respondent-visible probability for a
// campaign. Read-only, callable at any time before or after settlement.
func (s *SettlementServiceImpl) EstimateWinningChance(ctx context.Context, userID, campaignID primitive.ObjectID) (float64, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return 0, fmt.Errorf("failed to load campaign: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load user: %w", err)
	}

	hasCompleted := false
	frozen := 0.0
	participation, err := s.participationRepo.FindByUserAndCampaign(ctx, userID, campaignID)
	if err != nil && err != mongo.ErrNoDocuments {
		return 0, fmt.Errorf("failed to load participation: %w", err)
	}
	if participation != nil {
		hasCompleted = participation.IsCompleted
		frozen = participation.FinalChance
	}

	return draw.EstimateChance(campaign, user.Pity, hasCompleted, frozen), nil
}
