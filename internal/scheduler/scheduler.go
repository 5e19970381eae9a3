package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-widget/internal/logger"
)

// Refresher re-fetches whatever the widget is currently showing.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// Scheduler periodically refreshes the displayed weather.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. timeout bounds each refresh.
func New(target Refresher, interval, timeout time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the refresh job. A non-positive interval disables it.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		logger.L().Info("scheduler: refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	logger.L().Info("scheduler: started", "interval", s.interval)
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if !s.target.Refresh(ctx) {
		logger.L().Debug("scheduler: nothing displayed yet; skipping refresh")
		return
	}
	logger.L().Debug("scheduler: refreshed displayed weather")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
