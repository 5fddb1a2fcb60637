package service

import (
	"context"

	"github.com/orders-dashboard/internal/events"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshScheduler reloads the current orders page on a cron schedule.
type RefreshScheduler struct {
	cron      *cron.Cron
	refresher events.Refresher
	log       *zap.Logger
}

func NewRefreshScheduler(refresher events.Refresher, log *zap.Logger) *RefreshScheduler {
	c := cron.New(cron.WithLogger(cronLogger{log.Sugar()}))

	return &RefreshScheduler{
		cron:      c,
		refresher: refresher,
		log:       log,
	}
}

func (s *RefreshScheduler) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.refresher.RefreshOrders(ctx); err != nil {
			s.log.Warn("scheduled refresh failed", zap.Error(err))
			return
		}
		s.log.Debug("scheduled refresh completed")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("refresh scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("refresh scheduler stopped")
}

func (s *RefreshScheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
