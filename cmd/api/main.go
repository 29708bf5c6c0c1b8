package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Questify-PPL/backend-sub000/api/routes"
	"github.com/Questify-PPL/backend-sub000/internal/config"
	"github.com/Questify-PPL/backend-sub000/internal/draw"
	"github.com/Questify-PPL/backend-sub000/internal/handlers"
	"github.com/Questify-PPL/backend-sub000/internal/services"
	"github.com/Questify-PPL/backend-sub000/pkg/memlock"
	"github.com/Questify-PPL/backend-sub000/pkg/token"
	"github.com/joho/godotenv"

	mongorepo "github.com/Questify-PPL/backend-sub000/internal/repositories/mongodb"
	mongodb "github.com/Questify-PPL/backend-sub000/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	userRepo := mongorepo.NewUserRepository(db)
	campaignRepo := mongorepo.NewCampaignRepository(db)
	participationRepo := mongorepo.NewParticipationRepository(db)
	winnerRepo := mongorepo.NewWinnerRepository(db)
	creditRepo := mongorepo.NewCreditTransactionRepository(db)
	transactor := mongorepo.NewTransactor(mongoClient.Raw())

	// Services
	tokens := token.NewService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	guard := memlock.NewTable()
	pityLedger := services.NewPityLedger(userRepo, campaignRepo, participationRepo, transactor)
	settlementService := services.NewSettlementService(
		campaignRepo, participationRepo, userRepo, winnerRepo, creditRepo,
		pityLedger, transactor, guard, draw.NewSource(),
	)
	participationService := services.NewParticipationService(
		participationRepo, campaignRepo, userRepo, pityLedger, settlementService,
	)
	campaignService := services.NewCampaignService(campaignRepo, winnerRepo, settlementService)
	rewardService := services.NewRewardService(winnerRepo, creditRepo)
	authService := services.NewAuthService(userRepo, tokens)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:          handlers.NewAuthHandler(authService),
		CampaignHandler:      handlers.NewCampaignHandler(campaignService, settlementService),
		ParticipationHandler: handlers.NewParticipationHandler(participationService),
		RewardHandler:        handlers.NewRewardHandler(rewardService),
	}

	router := routes.SetupRouter(cfg, tokens, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
