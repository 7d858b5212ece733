package ratelimit

import "context"

// SweepJob evicts idle client keys of a TieredRateLimiter. It is run by the
// scheduler.
type SweepJob struct {
	limiter *TieredRateLimiter
}

func NewSweepJob(limiter *TieredRateLimiter) *SweepJob {
	return &SweepJob{limiter: limiter}
}

// Execute runs one sweep pass and returns the number of evicted keys.
func (j *SweepJob) Execute(ctx context.Context) (int, error) {
	return j.limiter.Sweep(ctx)
}
