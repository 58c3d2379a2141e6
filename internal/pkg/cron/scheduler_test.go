package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler(context.Background())
	boom := errors.New("boom")
	var ran atomic.Int32

	s.AddJob(Job{Name: "ok", Interval: time.Hour, Fn: func(ctx context.Context) error {
		ran.Add(1)
		return nil
	}})
	s.AddJob(Job{Name: "fails", Interval: time.Hour, Fn: func(ctx context.Context) error {
		ran.Add(1)
		return boom
	}})

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fails")
	assert.Equal(t, int32(2), ran.Load())
}

func TestScheduler_TimeoutBoundsRun(t *testing.T) {
	s := NewScheduler(context.Background())
	s.AddJob(Job{Name: "slow", Interval: time.Hour, Timeout: 10 * time.Millisecond, Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())
	started := make(chan struct{}, 1)
	s.AddJob(Job{Name: "tick", Interval: time.Hour, Fn: func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	}})

	s.Start()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestScheduler_ParentCancellationStopsJobs(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := NewScheduler(parent)
	s.AddJob(Job{Name: "noop", Interval: time.Hour, Fn: func(ctx context.Context) error { return nil }})
	s.Start()

	cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("jobs kept running after parent cancellation")
	}
}

type stubAnalyticsService struct {
	analytics.AnalyticsService
	digests int
	err     error
}

func (s *stubAnalyticsService) Digest(ctx context.Context) (analytics.DigestResult, error) {
	s.digests++
	return analytics.DigestResult{}, s.err
}

func TestAnalyticsJobs_Digest(t *testing.T) {
	svc := &stubAnalyticsService{}
	s := NewScheduler(context.Background())
	NewAnalyticsJobs(svc, time.Hour).RegisterJobs(s)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 1, svc.digests)

	svc.err = errors.New("db down")
	assert.ErrorIs(t, s.RunOnce(context.Background()), svc.err)
}
