package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgc-incentivos/reports-backend/config"
	"github.com/fgc-incentivos/reports-backend/internal/bootstrap"
	"github.com/fgc-incentivos/reports-backend/internal/janitor"
	"github.com/fgc-incentivos/reports-backend/internal/reports/repository"
	storages3 "github.com/fgc-incentivos/reports-backend/internal/storage/s3"
)

// The worker runs the blob janitor. "sweep" runs once and exits; with no
// arguments it stays up and sweeps on the nightly schedule.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	pool, err := bootstrap.OpenDB(ctx, cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	blobs, err := storages3.New(ctx, cfg.Blob)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	sweeper := janitor.NewSweeper(repository.NewStore(pool), blobs)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "sweep":
			removed, err := sweeper.Sweep(ctx)
			if err != nil {
				log.Fatalf("sweep: %v", err)
			}
			log.Printf("sweep done, removed %d orphaned blobs", removed)
			return
		default:
			log.Fatalf("unknown command: %s", os.Args[1])
		}
	}

	scheduler := janitor.NewScheduler(sweeper)
	scheduler.Start()
	defer scheduler.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("worker shutting down")
}
