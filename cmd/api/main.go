package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/fgc-incentivos/reports-backend/config"
	"github.com/fgc-incentivos/reports-backend/internal/auth"
	"github.com/fgc-incentivos/reports-backend/internal/bootstrap"
	"github.com/fgc-incentivos/reports-backend/internal/cache"
	"github.com/fgc-incentivos/reports-backend/internal/reports/repository"
	"github.com/fgc-incentivos/reports-backend/internal/reports/service"
	storages3 "github.com/fgc-incentivos/reports-backend/internal/storage/s3"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	pool, err := bootstrap.OpenDB(ctx, cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	blobs, err := storages3.New(ctx, cfg.Blob)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	authClient, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}

	store := repository.NewStore(pool)

	var members service.MembershipChecker = store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		members = cache.NewMembership(client, store)
		log.Println("Membership cache enabled")
	}

	svc := service.NewLifecycleService(store, blobs, members, cfg.Blob.PublicBaseURL)

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "reports-backend",
		Version:     cfg.App.Version,
		DB:          pool,
		AuthClient:  authClient,
		Reports:     svc,
		RateLimit:   cfg.Server.RateLimit,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
