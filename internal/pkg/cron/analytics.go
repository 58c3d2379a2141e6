package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
)

const digestTimeout = 2 * time.Minute

type AnalyticsJobs struct {
	analyticsService analytics.AnalyticsService
	digestInterval   time.Duration
}

func NewAnalyticsJobs(analyticsService analytics.AnalyticsService, digestInterval time.Duration) *AnalyticsJobs {
	return &AnalyticsJobs{
		analyticsService: analyticsService,
		digestInterval:   digestInterval,
	}
}

func (j *AnalyticsJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "attendance_anomaly_digest",
		Interval: j.digestInterval,
		Timeout:  digestTimeout,
		Fn:       j.AnomalyDigest,
	})
}

// AnomalyDigest recomputes today's sessions for every profile. The service
// logs the result and publishes it as gauges.
func (j *AnalyticsJobs) AnomalyDigest(ctx context.Context) error {
	_, err := j.analyticsService.Digest(ctx)
	return err
}
