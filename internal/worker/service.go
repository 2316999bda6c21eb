package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/logger"
	"github.com/sponza-next/internal/queue"

	"github.com/hibiken/asynq"
)

const expireSweepInterval = time.Minute

// Service asynchronous queue worker
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the worker service
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name service name
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the task server and the periodic expiry sweeps
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	go s.runExpireSweepLoop(ctx)
	return s.server.Run(s.mux)
}

// Stop shuts the task server down
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runExpireSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	runOnce := func() {
		now := time.Now()
		if s.consumer.InvitationService != nil {
			if _, err := s.consumer.InvitationService.SweepExpired(now, sweepBatchSize); err != nil {
				logger.Warnw("worker_invitation_sweep_failed", "error", err)
			}
		}
		if s.consumer.SubscriptionService != nil {
			if _, err := s.consumer.SubscriptionService.SweepExpired(now, sweepBatchSize); err != nil {
				logger.Warnw("worker_subscription_sweep_failed", "error", err)
			}
		}
	}
	runOnce()

	ticker := time.NewTicker(expireSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
