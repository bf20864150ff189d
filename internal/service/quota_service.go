package service

import (
	"context"
	"fmt"

	"askq-be/internal/pkg/apperror"
	"askq-be/internal/pkg/logger"
	"askq-be/internal/repository/contract"
	"askq-be/pkg/events"
)

const DefaultFreeLimit = 10

// IQuotaService tracks free completions for anonymous callers, keyed by
// client IP (or device bucket when the IP is unknown).
type IQuotaService interface {
	GetCount(ctx context.Context, key string) (int, error)
	Increment(ctx context.Context, key string) (int, error)
	// Check returns the current count, or a *apperror.QuotaExceededError once it reaches the free limit.
	Check(ctx context.Context, key string) (int, error)
	FreeLimit() int
}

type quotaService struct {
	repo           contract.AnonymousCountRepository
	freeLimit      int
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewQuotaService(repo contract.AnonymousCountRepository, freeLimit int, eventPublisher events.Publisher, logger logger.ILogger) IQuotaService {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeLimit
	}
	return &quotaService{
		repo:           repo,
		freeLimit:      freeLimit,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *quotaService) FreeLimit() int {
	return s.freeLimit
}

func (s *quotaService) GetCount(ctx context.Context, key string) (int, error) {
	count, err := s.repo.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("get anonymous count: %w", err)
	}
	return count, nil
}

func (s *quotaService) Increment(ctx context.Context, key string) (int, error) {
	count, err := s.repo.Increment(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("increment anonymous count: %w", err)
	}
	return count, nil
}

func (s *quotaService) Check(ctx context.Context, key string) (int, error) {
	count, err := s.GetCount(ctx, key)
	if err != nil {
		return 0, err
	}
	if count >= s.freeLimit {
		s.logger.Info("QUOTA", "Free limit reached", map[string]interface{}{
			"key":   key,
			"count": count,
		})
		publishEvent(ctx, s.eventPublisher, s.logger, events.QuotaExceeded, map[string]interface{}{
			"key":   key,
			"count": count,
			"limit": s.freeLimit,
		})
		return count, &apperror.QuotaExceededError{Count: count, Limit: s.freeLimit}
	}
	return count, nil
}
