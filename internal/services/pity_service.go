package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure PityLedgerImpl implements PityLedger
var _ PityLedger = (*PityLedgerImpl)(nil)

// PityLedgerImpl applies the pity-accumulation rules over the repositories.
type PityLedgerImpl struct {
	userRepo          repositories.UserRepository
	campaignRepo      repositories.CampaignRepository
	participationRepo repositories.ParticipationRepository
	transactor        repositories.Transactor
}

// NewPityLedger creates a new PityLedgerImpl
func NewPityLedger(
	userRepo repositories.UserRepository,
	campaignRepo repositories.CampaignRepository,
	participationRepo repositories.ParticipationRepository,
	transactor repositories.Transactor,
) *PityLedgerImpl {
	return &PityLedgerImpl{
		userRepo:          userRepo,
		campaignRepo:      campaignRepo,
		participationRepo: participationRepo,
		transactor:        transactor,
	}
}

// OnParticipationCompleted runs the completion-time pity update in one
// transaction: the participant's weight grows by 1, the owning campaign's
// aggregate grows by the participant's pre-increment weight, and every other
// open unsettled campaign this participant has completed grows by 1. A
// campaign's odds depend on the pity distribution of its own completers, so
// cross-campaign totals must track multi-campaign participants.
func (l *PityLedgerImpl) OnParticipationCompleted(ctx context.Context, campaignID, userID primitive.ObjectID) error {
	err := l.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := l.userRepo.FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load participant: %w", err)
		}

		otherIDs, err := l.participationRepo.FindCompletedCampaignIDs(ctx, userID, campaignID)
		if err != nil {
			return fmt.Errorf("failed to list completed campaigns: %w", err)
		}
		openIDs, err := l.campaignRepo.FindOpenUnsettledIDs(ctx, otherIDs, time.Now())
		if err != nil {
			return fmt.Errorf("failed to filter open campaigns: %w", err)
		}

		if err := l.userRepo.IncrementPity(ctx, userID, 1); err != nil {
			return fmt.Errorf("failed to increment pity: %w", err)
		}
		// The campaign total grows by the pre-increment weight: a higher-pity
		// participant contributes more future weight.
		if err := l.campaignRepo.IncrementTotalPity(ctx, campaignID, user.Pity); err != nil {
			return fmt.Errorf("failed to increment campaign pity total: %w", err)
		}
		if err := l.campaignRepo.IncrementTotalPityMany(ctx, openIDs, 1); err != nil {
			return fmt.Errorf("failed to increment sibling campaign totals: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.Error("Pity update failed", "error", err, "campaignId", campaignID.Hex(), "userId", userID.Hex())
		return err
	}

	slog.Info("Pity updated on completion", "campaignId", campaignID.Hex(), "userId", userID.Hex())
	return nil
}

// ResetWinnerWeight sets the winner's pity back to the floor value of 1.
func (l *PityLedgerImpl) ResetWinnerWeight(ctx context.Context, userID primitive.ObjectID) error {
	return l.userRepo.SetPity(ctx, userID, 1)
}

// GrowNonWinnerWeight grants losers 2 extra pity, biasing future draws toward them.
func (l *PityLedgerImpl) GrowNonWinnerWeight(ctx context.Context, userID primitive.ObjectID) error {
	return l.userRepo.IncrementPity(ctx, userID, 2)
}
