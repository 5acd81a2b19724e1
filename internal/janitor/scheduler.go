package janitor

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	sweeper *Sweeper
	cron    *cron.Cron
}

func NewScheduler(sweeper *Sweeper) *Scheduler {
	return &Scheduler{sweeper: sweeper}
}

// Start schedules the nightly sweep (3:00 AM).
func (s *Scheduler) Start() {
	s.cron = cron.New(cron.WithSeconds())

	_, err := s.cron.AddFunc("0 0 3 * * *", func() {
		s.runSweep()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Janitor scheduler started (sweeping nightly at 3:00AM)")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) runSweep() {
	log.Println("Blob sweep started...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		log.Printf("Blob sweep failed: %v", err)
		return
	}
	log.Printf("Blob sweep completed, removed %d orphaned blobs at: %s", removed, time.Now().Format(time.RFC1123))
}
