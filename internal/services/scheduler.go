package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Maintenance is the periodic housekeeping run by the scheduler.
type Maintenance interface {
	RunMaintenance(ctx context.Context)
}

type Scheduler interface {
	Start() error
	Stop(ctx context.Context)
}

type maintenance struct {
	interviews    InterviewService
	notifications NotificationService
	log           *zap.Logger
	now           func() time.Time
}

func NewMaintenance(interviews InterviewService, notifications NotificationService, log *zap.Logger) Maintenance {
	return &maintenance{
		interviews:    interviews,
		notifications: notifications,
		log:           log.Named("maintenance"),
		now:           time.Now,
	}
}

// RunMaintenance expires overdue interviews and purges expired
// notifications. A failing step does not stop the other.
func (m *maintenance) RunMaintenance(ctx context.Context) {
	expired, err := m.interviews.ExpireOverdue(ctx)
	if err != nil {
		m.log.Error("❌ Failed to expire interviews", zap.Error(err))
	} else if expired > 0 {
		m.log.Info("⏰ Interviews expired", zap.Int64("count", expired))
	}

	purged, err := m.notifications.PurgeExpired(ctx, m.now())
	if err != nil {
		m.log.Error("❌ Failed to purge notifications", zap.Error(err))
	} else if purged > 0 {
		m.log.Info("🧹 Notifications purged", zap.Int64("count", purged))
	}
}

type cronScheduler struct {
	cron    *cron.Cron
	spec    string
	task    Maintenance
	timeout time.Duration
	log     *zap.Logger
}

func NewScheduler(spec string, task Maintenance, log *zap.Logger) Scheduler {
	return &cronScheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:    spec,
		task:    task,
		timeout: time.Minute,
		log:     log.Named("scheduler"),
	}
}

// Start implements Scheduler.
func (s *cronScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.task.RunMaintenance(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info("🕐 Scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop implements Scheduler. It waits for a running job until ctx is done.
func (s *cronScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.log.Info("✅ Scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("⚠️  Scheduler stop timed out")
	}
}
