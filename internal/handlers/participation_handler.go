package handlers

import (
	"errors"
	"net/http"

	"github.com/Questify-PPL/backend-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParticipationHandler handles participation HTTP requests
type ParticipationHandler struct {
	participationService services.ParticipationService
}

// NewParticipationHandler creates a new ParticipationHandler
func NewParticipationHandler(participationService services.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: participationService}
}

// currentUserID extracts the authenticated user's id set by the JWT middleware
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, ok := c.Get("userID")
	if !ok {
		return primitive.NilObjectID, false
	}
	hex, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// ListMine handles GET /participations. Reading the list is the lazy trigger
// for settling campaigns that have closed since the last read.
func (h *ParticipationHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	summaries, err := h.participationService.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list participations: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Join handles POST /campaigns/:id/join
func (h *ParticipationHandler) Join(c *gin.Context) {
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

	participation, err := h.participationService.Join(c.Request.Context(), userID, campaignID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyJoined) {
			c.JSON(http.StatusConflict, gin.H{"error": "Already joined this campaign"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, participation)
}

// Complete handles POST /campaigns/:id/complete
func (h *ParticipationHandler) Complete(c *gin.Context) {
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

	if err := h.participationService.Complete(c.Request.Context(), userID, campaignID); err != nil {
		if errors.Is(err, services.ErrNotJoined) {
			c.JSON(http.StatusConflict, gin.H{"error": "No open participation for this campaign"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete participation: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Participation completed"})
}
