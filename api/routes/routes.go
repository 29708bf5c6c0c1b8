package routes

import (
	"github.com/Questify-PPL/backend-sub000/internal/config"
	"github.com/Questify-PPL/backend-sub000/internal/handlers"
	"github.com/Questify-PPL/backend-sub000/internal/middleware"
	"github.com/Questify-PPL/backend-sub000/pkg/token"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies carries the handlers wired in main
type HandlerDependencies struct {
	AuthHandler          *handlers.AuthHandler
	CampaignHandler      *handlers.CampaignHandler
	ParticipationHandler *handlers.ParticipationHandler
	RewardHandler        *handlers.RewardHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, tokens *token.Service, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(tokens))
	{
		campaigns := protected.Group("/campaigns")
		{
			campaigns.POST("", deps.CampaignHandler.Create)
			campaigns.GET("/:id", deps.CampaignHandler.Get)
			campaigns.GET("/:id/winners", deps.CampaignHandler.GetWinners)
			campaigns.GET("/:id/chance", deps.CampaignHandler.GetChance)
			campaigns.POST("/:id/join", deps.ParticipationHandler.Join)
			campaigns.POST("/:id/complete", deps.ParticipationHandler.Complete)
		}

		protected.GET("/participations", deps.ParticipationHandler.ListMine)

		me := protected.Group("/me")
		{
			me.GET("/wins", deps.RewardHandler.ListWins)
			me.GET("/credits", deps.RewardHandler.ListCredits)
		}
	}

	return router
}
