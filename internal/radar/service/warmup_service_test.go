package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"investor-radar/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewWarmupService_InvalidSchedule(t *testing.T) {
	_, err := NewWarmupService(new(mockRadarRepository), logger.NewNop(), "every now and then")
	assert.Error(t, err)
}

func TestWarmupService_Warm(t *testing.T) {
	repo := new(mockRadarRepository)
	repo.On("Refresh", mock.Anything).Return(errors.New("stats: down")).Once()
	repo.On("Refresh", mock.Anything).Return(nil).Once()

	svc, err := NewWarmupService(repo, logger.NewNop(), "*/5 * * * *")
	require.NoError(t, err)

	assert.Error(t, svc.Warm(context.Background()))
	assert.NoError(t, svc.Warm(context.Background()))
	repo.AssertNumberOfCalls(t, "Refresh", 2)
}

func TestWarmupService_StartRunsOnSchedule(t *testing.T) {
	repo := new(mockRadarRepository)
	calls := make(chan struct{}, 16)
	repo.On("Refresh", mock.Anything).Run(func(mock.Arguments) {
		select {
		case calls <- struct{}{}:
		default:
		}
	}).Return(nil)

	svc, err := NewWarmupService(repo, logger.NewNop(), "@every 1s")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Start(ctx)
		close(done)
	}()

	// one warm at start, one on the first tick
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(3 * time.Second):
			t.Fatalf("refresh %d did not happen", i+1)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("warmup service did not stop")
	}
}
