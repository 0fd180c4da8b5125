package bot

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/aestyle/namestyler/core/logger"
	"github.com/aestyle/namestyler/internal/store"
	"github.com/aestyle/namestyler/internal/styler"

	"github.com/robfig/cron/v3"
)

// StatsJob pushes usage stats to the admin once a day. Each report covers
// the generations since the previous report, so the daily figure is a
// window, not the lifetime counter.
type StatsJob struct {
	users    store.Users
	notifier styler.AdminNotifier
	c        *cron.Cron

	mu              sync.Mutex
	lastGenerations int64
}

// NewStatsJob constructs the daily stats reporter.
func NewStatsJob(users store.Users, notifier styler.AdminNotifier) *StatsJob {
	return &StatsJob{
		users:    users,
		notifier: notifier,
		c:        cron.New(),
	}
}

// Start snapshots the current counter and schedules the daily report.
func (s *StatsJob) Start() error {
	ctx := logger.Background()
	if _, generations, err := s.users.Totals(ctx); err == nil {
		s.mu.Lock()
		s.lastGenerations = generations
		s.mu.Unlock()
	} else {
		logger.Warn(ctx, "tg", "stats.baseline_failed", slog.String("err", err.Error()))
	}

	_, err := s.c.AddFunc("@daily", s.report)
	if err != nil {
		return fmt.Errorf("schedule stats job: %w", err)
	}
	s.c.Start()
	return nil
}

// Stop halts the scheduler without waiting for running jobs.
func (s *StatsJob) Stop() {
	s.c.Stop()
}

func (s *StatsJob) report() {
	ctx := logger.Background()
	users, generations, err := s.users.Totals(ctx)
	if err != nil {
		logger.Error(ctx, "tg", "stats.report_failed", slog.String("err", err.Error()))
		return
	}

	s.mu.Lock()
	delta := generations - s.lastGenerations
	if delta < 0 {
		delta = 0
	}
	s.lastGenerations = generations
	s.mu.Unlock()

	s.notifier.Notify(ctx, fmt.Sprintf(
		"📊 Daily report: %d users, %d generations today (%d total).", users, delta, generations))
}
