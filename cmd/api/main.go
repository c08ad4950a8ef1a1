package main

import (
	"context"
	"log"
	"time"

	"github.com/nvallon/trainlog-api/internal/config"
	"github.com/nvallon/trainlog-api/internal/repository/postgres"
	"github.com/nvallon/trainlog-api/internal/service"
	transport "github.com/nvallon/trainlog-api/internal/transport/http"
)

func main() {
	cfg := config.Load()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	workoutRepo := postgres.NewWorkoutRepo(db)

	authService := service.NewAuthService(userRepo, sessionRepo, service.AuthServiceConfig{
		BcryptCost: cfg.BcryptCost,
		SessionTTL: cfg.SessionTTL,
	})
	workoutService := service.NewWorkoutService(workoutRepo)

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterAuth(e, authService, cfg.SessionTTL)
	transport.RegisterWorkouts(e, authService, workoutService)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
