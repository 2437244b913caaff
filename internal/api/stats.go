package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const statsTimeout = 5 * time.Second

// StatsCollector refreshes the stored reminder gauges on a cron schedule.
type StatsCollector struct {
	cron     *cron.Cron
	counter  Counter
	schedule string
}

// NewStatsCollector creates a collector. schedule uses the standard cron
// syntax or a descriptor such as "@every 30s".
func NewStatsCollector(counter Counter, schedule string) *StatsCollector {
	return &StatsCollector{
		cron:     cron.New(),
		counter:  counter,
		schedule: schedule,
	}
}

// Start collects once and then on every scheduled run.
func (s *StatsCollector) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.Collect); err != nil {
		return fmt.Errorf("invalid stats schedule %q: %w", s.schedule, err)
	}

	s.Collect()
	s.cron.Start()

	log.Printf("[stats] Started. Schedule: %s", s.schedule)
	return nil
}

// Stop waits for a running collection to finish.
func (s *StatsCollector) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("[stats] Stopped.")
}

func (s *StatsCollector) Collect() {
	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	total, done, err := s.counter.Counts(ctx)
	if err != nil {
		log.Printf("[stats] Failed to count reminders: %v", err)
		return
	}
	UpdateStoredCounts(total, done)
}
