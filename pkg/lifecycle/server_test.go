package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	startErr error
	stopErr  error
	started  atomic.Bool
	stopped  atomic.Bool
	hook     func(bool)
}

func (s *fakeService) Start(ctx context.Context) error {
	s.started.Store(true)

	if s.startErr != nil {
		return s.startErr
	}

	<-ctx.Done()

	return nil
}

func (s *fakeService) Stop(context.Context) error {
	s.stopped.Store(true)

	return s.stopErr
}

type reportingService struct {
	fakeService
}

func (s *reportingService) SetHealthHook(fn func(bool)) {
	s.hook = fn
}

func TestRunServerStopsOnCancel(t *testing.T) {
	svc := &fakeService{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() { done <- RunServer(ctx, &ServerOptions{ServiceName: "test", Service: svc}) }()

	require.Eventually(t, svc.started.Load, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunServer did not return")
	}

	assert.True(t, svc.stopped.Load())
}

func TestRunServerReturnsServiceError(t *testing.T) {
	boom := errors.New("boom")
	svc := &fakeService{startErr: boom}

	err := RunServer(context.Background(), &ServerOptions{ServiceName: "test", Service: svc})

	require.ErrorIs(t, err, errService)
	require.ErrorIs(t, err, boom)
	assert.True(t, svc.stopped.Load())
}

func TestRunServerJoinsStopError(t *testing.T) {
	stopErr := errors.New("stuck")
	svc := &fakeService{startErr: errors.New("boom"), stopErr: stopErr}

	err := RunServer(context.Background(), &ServerOptions{ServiceName: "test", Service: svc})

	require.ErrorIs(t, err, errService)
	require.ErrorIs(t, err, stopErr)
}

func TestHealthHookInstalled(t *testing.T) {
	svc := &reportingService{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- RunServer(ctx, &ServerOptions{ServiceName: "test", Service: svc, HealthAddr: "127.0.0.1:0"})
	}()

	require.Eventually(t, svc.started.Load, time.Second, 5*time.Millisecond)
	require.NotNil(t, svc.hook)
	assert.NotPanics(t, func() { svc.hook(true) })

	cancel()
	require.NoError(t, <-done)
}
