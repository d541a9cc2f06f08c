package ghdevops

import (
	"context"
	"math/rand/v2"
	"time"
)

// Polling defaults. The interval grows by the multiplier after every
// unfinished poll, up to the maximum, with random jitter added.
const (
	defaultPollInterval   = 2 * time.Second
	defaultPollMaxBackoff = 30 * time.Second
	defaultPollTimeout    = 10 * time.Minute
	pollBackoffMultiplier = 1.5
	pollJitterFactor      = 0.3
)

// pollConfig holds configuration for Poll.
type pollConfig struct {
	interval   time.Duration
	maxBackoff time.Duration
	timeout    time.Duration
	jitter     float64
}

// PollOption configures Poll.
type PollOption func(*pollConfig)

// WithPollInterval sets the initial wait between polls.
// Default: 2 seconds
func WithPollInterval(interval time.Duration) PollOption {
	return func(c *pollConfig) {
		c.interval = interval
	}
}

// WithPollMaxBackoff caps the wait between polls.
// Default: 30 seconds
func WithPollMaxBackoff(maxBackoff time.Duration) PollOption {
	return func(c *pollConfig) {
		c.maxBackoff = maxBackoff
	}
}

// WithPollTimeout bounds the whole poll.
// Default: 10 minutes
func WithPollTimeout(timeout time.Duration) PollOption {
	return func(c *pollConfig) {
		c.timeout = timeout
	}
}

// WithPollJitter sets the random jitter as a fraction of the interval.
// Default: 0.3 (30%)
func WithPollJitter(factor float64) PollOption {
	return func(c *pollConfig) {
		c.jitter = factor
	}
}

// Poll repeats call until done reports true for its result, and returns that
// result. It is meant for long-running resources such as workflow runs or
// deployments:
//
//	res, err := ghdevops.Poll(ctx,
//	    func(ctx context.Context) (*ghdevops.Result, error) {
//	        return client.Get(ctx, runPath, nil)
//	    },
//	    func(res *ghdevops.Result) (bool, error) {
//	        var run struct{ Status string `json:"status"` }
//	        err := res.Decode(&run)
//	        return run.Status == "completed", err
//	    },
//	)
//
// An error from call or done ends the poll immediately; transient failures
// are already retried inside the client.
func Poll(ctx context.Context, call Call, done func(*Result) (bool, error), opts ...PollOption) (*Result, error) {
	cfg := &pollConfig{
		interval:   defaultPollInterval,
		maxBackoff: defaultPollMaxBackoff,
		timeout:    defaultPollTimeout,
		jitter:     pollJitterFactor,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	interval := cfg.interval
	for {
		res, err := call(ctx)
		if err != nil {
			return nil, err
		}
		finished, err := done(res)
		if err != nil {
			return nil, err
		}
		if finished {
			return res, nil
		}

		timer := time.NewTimer(withJitter(interval, cfg.jitter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		interval = time.Duration(float64(interval) * pollBackoffMultiplier)
		if interval > cfg.maxBackoff {
			interval = cfg.maxBackoff
		}
	}
}

// withJitter adds up to factor*d of random delay to prevent synchronized
// polling across callers.
func withJitter(d time.Duration, factor float64) time.Duration {
	if factor <= 0 {
		return d
	}
	return d + time.Duration(rand.Float64()*factor*float64(d))
}
