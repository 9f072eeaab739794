package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/wavewatch/surfcast/internal/surf"
)

// Scheduler periodically refreshes today's report for configured home
// beaches so interactive requests are served from the cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *surf.Service
	beaches   []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(beaches []string, interval time.Duration, service *surf.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		beaches:   beaches,
		interval:  interval,
	}
}

// Start schedules the pre-warm job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.beaches) == 0 {
		log.Println("scheduler: no pre-warm beaches configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running report pre-warm job")
		today := time.Now().UTC()

		var wg sync.WaitGroup
		for _, beach := range s.beaches {
			beach := beach
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
				defer cancel()

				if _, err := s.service.Report(ctx, beach, today); err != nil {
					log.Printf("scheduler: pre-warm failed for %s: %v", beach, err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed report pre-warm job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
