package service

import (
	"context"
	"testing"

	"askq-be/internal/pkg/apperror"
	"askq-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaService_CountAndIncrement(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	count, err := s.quota.GetCount(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Zero(t, count)

	for want := 1; want <= 3; want++ {
		got, err := s.quota.Increment(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	other, err := s.quota.GetCount(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestQuotaService_Check(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	key := "unknown"

	for i := 0; i < s.quota.FreeLimit(); i++ {
		_, err := s.quota.Check(ctx, key)
		require.NoError(t, err)
		_, err = s.quota.Increment(ctx, key)
		require.NoError(t, err)
	}

	count, err := s.quota.Check(ctx, key)
	var exceeded *apperror.QuotaExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, DefaultFreeLimit, exceeded.Count)
	assert.Equal(t, DefaultFreeLimit, exceeded.Limit)
	assert.Equal(t, DefaultFreeLimit, count)
	assert.Contains(t, s.publisher.published(), events.QuotaExceeded)
}
