package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/models"
	"github.com/Questify-PPL/backend-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure CampaignServiceImpl implements CampaignService
var _ CampaignService = (*CampaignServiceImpl)(nil)

// CampaignServiceImpl handles the campaign read surface
type CampaignServiceImpl struct {
	campaignRepo repositories.CampaignRepository
	winnerRepo   repositories.WinnerRepository
	settlement   SettlementService
}

// NewCampaignService creates a new CampaignServiceImpl
func NewCampaignService(
	campaignRepo repositories.CampaignRepository,
	winnerRepo repositories.WinnerRepository,
	settlement SettlementService,
) *CampaignServiceImpl {
	return &CampaignServiceImpl{
		campaignRepo: campaignRepo,
		winnerRepo:   winnerRepo,
		settlement:   settlement,
	}
}

// Create creates a new campaign
func (s *CampaignServiceImpl) Create(ctx context.Context, campaign *models.Campaign) error {
	if campaign.Mode != models.DistributionEven && campaign.Mode != models.DistributionWeighted {
		return fmt.Errorf("unknown distribution mode %q", campaign.Mode)
	}
	return s.campaignRepo.Create(ctx, campaign)
}

// Get reads a campaign and settles it if it closed since the last read.
func (s *CampaignServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Ended(time.Now()) && !campaign.IsSettled {
		if err := s.settlement.SettleIfDue(ctx, campaign.ID); err != nil {
			slog.Warn("Opportunistic settlement failed", "error", err, "campaignId", campaign.ID.Hex())
		} else {
			return s.campaignRepo.FindByID(ctx, id)
		}
	}
	return campaign, nil
}

// GetWinners lists the winner records of a campaign
func (s *CampaignServiceImpl) GetWinners(ctx context.Context, campaignID primitive.ObjectID) ([]*models.Winner, error) {
	winners, err := s.winnerRepo.FindByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve winners: %w", err)
	}
	return winners, nil
}
