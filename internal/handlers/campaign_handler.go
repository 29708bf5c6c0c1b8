package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Questify-PPL/backend-sub000/internal/models"
	"github.com/Questify-PPL/backend-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CampaignHandler handles campaign HTTP requests
type CampaignHandler struct {
	campaignService   services.CampaignService
	settlementService services.SettlementService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService services.CampaignService, settlementService services.SettlementService) *CampaignHandler {
	return &CampaignHandler{
		campaignService:   campaignService,
		settlementService: settlementService,
	}
}

// CreateCampaignRequest is the payload for campaign creation
type CreateCampaignRequest struct {
	Title     string `json:"title" binding:"required"`
	Prize     int64  `json:"prize" binding:"required,min=0"`
	Mode      string `json:"mode" binding:"required,oneof=EVEN WEIGHTED"`
	MaxWinner int    `json:"max_winner" binding:"min=0"`
	EndedAt   string `json:"ended_at"` // RFC3339, empty = open-ended
}

// Create handles POST /campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	var request CreateCampaignRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign := &models.Campaign{
		Title:     request.Title,
		Prize:     request.Prize,
		Mode:      models.DistributionMode(request.Mode),
		MaxWinner: request.MaxWinner,
	}
	if request.EndedAt != "" {
		endedAt, err := time.Parse(time.RFC3339, request.EndedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ended_at format (RFC3339)"})
			return
		}
		campaign.EndedAt = &endedAt
	}

	if err := h.campaignService.Create(c.Request.Context(), campaign); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campaign: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// Get handles GET /campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	campaign, err := h.campaignService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve campaign: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// GetWinners handles GET /campaigns/:id/winners
func (h *CampaignHandler) GetWinners(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	winners, err := h.campaignService.GetWinners(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve winners: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, winners)
}

// GetChance handles GET /campaigns/:id/chance for the authenticated respondent
func (h *CampaignHandler) GetChance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}
	campaignID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	chance, err := h.settlementService.EstimateWinningChance(c.Request.Context(), userID, campaignID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to estimate chance: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chance": chance})
}
