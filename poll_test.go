package ghdevops

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_ReturnsWhenDone(t *testing.T) {
	calls := 0
	call := func(context.Context) (*Result, error) {
		calls++
		return &Result{Kind: KindJSON, StatusCode: 200, Body: []byte(`{}`)}, nil
	}
	done := func(*Result) (bool, error) {
		return calls == 3, nil
	}

	res, err := Poll(context.Background(), call, done, WithPollInterval(time.Millisecond), WithPollJitter(0))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 3, calls)
}

func TestPoll_CallError(t *testing.T) {
	notFound := &APIError{StatusCode: 404}
	call := func(context.Context) (*Result, error) {
		return nil, notFound
	}
	done := func(*Result) (bool, error) {
		t.Error("done should not be called after a failed call")
		return false, nil
	}

	_, err := Poll(context.Background(), call, done, WithPollInterval(time.Millisecond))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPoll_DoneError(t *testing.T) {
	boom := errors.New("boom")
	call := func(context.Context) (*Result, error) {
		return &Result{}, nil
	}
	done := func(*Result) (bool, error) {
		return false, boom
	}

	_, err := Poll(context.Background(), call, done)
	assert.ErrorIs(t, err, boom)
}

func TestPoll_Timeout(t *testing.T) {
	call := func(context.Context) (*Result, error) {
		return &Result{}, nil
	}
	done := func(*Result) (bool, error) {
		return false, nil
	}

	start := time.Now()
	_, err := Poll(context.Background(), call, done,
		WithPollInterval(5*time.Millisecond),
		WithPollTimeout(50*time.Millisecond),
	)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPollOptions(t *testing.T) {
	cfg := &pollConfig{}
	WithPollInterval(time.Second)(cfg)
	WithPollMaxBackoff(time.Minute)(cfg)
	WithPollTimeout(time.Hour)(cfg)
	WithPollJitter(0.5)(cfg)

	assert.Equal(t, time.Second, cfg.interval)
	assert.Equal(t, time.Minute, cfg.maxBackoff)
	assert.Equal(t, time.Hour, cfg.timeout)
	assert.Equal(t, 0.5, cfg.jitter)
}

func TestWithJitter(t *testing.T) {
	d := 100 * time.Millisecond

	assert.Equal(t, d, withJitter(d, 0))
	for range 50 {
		got := withJitter(d, 0.3)
		require.GreaterOrEqual(t, got, d)
		require.LessOrEqual(t, got, d+30*time.Millisecond)
	}
}
