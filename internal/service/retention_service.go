package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"studybuddy/internal/repository"
	"studybuddy/pkg/logger"
)

const (
	sweepInterval = time.Hour
	errorBackoff  = 5 * time.Minute
)

// RetentionService periodically hard-deletes messages older than the
// retention window. A failed sweep backs off and retries; nothing here can
// take the process down.
type RetentionService struct {
	messages      *repository.MessageRepository
	retentionDays int

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewRetentionService(messages *repository.MessageRepository, retentionDays int) *RetentionService {
	return &RetentionService{
		messages:      messages,
		retentionDays: retentionDays,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the sweep loop. The first sweep runs immediately so a
// long-stopped instance catches up on startup.
func (s *RetentionService) Start() {
	go s.run()
}

// Stop signals the loop to exit and waits for the in-flight sweep.
func (s *RetentionService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *RetentionService) run() {
	defer close(s.done)
	logger.Info("retention sweep started", zap.Int("retention_days", s.retentionDays))

	wait := s.sweepOnce()
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-s.stop:
			logger.Info("retention sweep stopped")
			return
		case <-timer.C:
			timer.Reset(s.sweepOnce())
		}
	}
}

// sweepOnce runs a single sweep and returns how long to wait before the
// next one: the regular interval on success, a short backoff on failure.
func (s *RetentionService) sweepOnce() time.Duration {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.messages.DeleteOlderThan(cutoff)
	if err != nil {
		logger.Error("retention sweep failed", zap.Error(err))
		return errorBackoff
	}
	if deleted > 0 {
		logger.Info("retention sweep deleted expired messages",
			zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return sweepInterval
}
