package handlers

import (
	"net/http"

	"github.com/Questify-PPL/backend-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

// RewardHandler handles reward-history HTTP requests
type RewardHandler struct {
	rewardService services.RewardService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// ListWins handles GET /me/wins
func (h *RewardHandler) ListWins(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	wins, err := h.rewardService.ListWins(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list wins: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, wins)
}

// ListCredits handles GET /me/credits
func (h *RewardHandler) ListCredits(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	credits, err := h.rewardService.ListCredits(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credit transactions: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, credits)
}
