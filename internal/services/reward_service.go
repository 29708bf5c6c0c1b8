package services

import (
	"context"
	"fmt"

	"github.com/Questify-PPL/backend-sub000/internal/models"
	"github.com/Questify-PPL/backend-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure RewardServiceImpl implements RewardService
var _ RewardService = (*RewardServiceImpl)(nil)

// RewardServiceImpl exposes a respondent's reward history
type RewardServiceImpl struct {
	winnerRepo repositories.WinnerRepository
	creditRepo repositories.CreditTransactionRepository
}

// NewRewardService creates a new RewardServiceImpl
func NewRewardService(
	winnerRepo repositories.WinnerRepository,
	creditRepo repositories.CreditTransactionRepository,
) *RewardServiceImpl {
	return &RewardServiceImpl{
		winnerRepo: winnerRepo,
		creditRepo: creditRepo,
	}
}

// ListWins returns the user's winner records, newest first
func (s *RewardServiceImpl) ListWins(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error) {
	wins, err := s.winnerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wins: %w", err)
	}
	return wins, nil
}

// ListCredits returns the user's credit ledger, newest first
func (s *RewardServiceImpl) ListCredits(ctx context.Context, userID primitive.ObjectID) ([]*models.CreditTransaction, error) {
	credits, err := s.creditRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit transactions: %w", err)
	}
	return credits, nil
}
