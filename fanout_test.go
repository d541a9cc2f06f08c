package ghdevops

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultCall(status int) Call {
	return func(context.Context) (*Result, error) {
		return &Result{Kind: KindJSON, StatusCode: status, Body: []byte(`{}`)}, nil
	}
}

func errorCall(err error) Call {
	return func(context.Context) (*Result, error) {
		return nil, err
	}
}

func TestGather_PreservesOrder(t *testing.T) {
	slow := func(ctx context.Context) (*Result, error) {
		time.Sleep(20 * time.Millisecond)
		return &Result{StatusCode: 201}, nil
	}

	results, err := Gather(context.Background(), slow, resultCall(200), resultCall(202))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 201, results[0].StatusCode)
	assert.Equal(t, 200, results[1].StatusCode)
	assert.Equal(t, 202, results[2].StatusCode)
}

func TestGather_FailureDoesNotCancelSiblings(t *testing.T) {
	notFound := &APIError{StatusCode: 404, Path: "/repos/o/r/environments"}
	var completed atomic.Bool

	slowWrite := func(ctx context.Context) (*Result, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
			completed.Store(true)
			return &Result{StatusCode: 201}, nil
		}
	}

	results, err := Gather(context.Background(), slowWrite, errorCall(notFound))
	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, completed.Load(), "sibling call should run to completion")
}

func TestGather_NoCalls(t *testing.T) {
	results, err := Gather(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGatherSettled(t *testing.T) {
	boom := errors.New("boom")

	outcomes := GatherSettled(context.Background(), resultCall(200), errorCall(boom), resultCall(204))
	require.Len(t, outcomes, 3)

	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, 200, outcomes[0].Result.StatusCode)
	assert.ErrorIs(t, outcomes[1].Err, boom)
	assert.Nil(t, outcomes[1].Result)
	assert.NoError(t, outcomes[2].Err)
	assert.Equal(t, 204, outcomes[2].Result.StatusCode)
}

func TestGatherSettledLimit(t *testing.T) {
	var inFlight, peak atomic.Int32

	call := func(context.Context) (*Result, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return &Result{}, nil
	}

	calls := make([]Call, 8)
	for i := range calls {
		calls[i] = call
	}

	outcomes := GatherSettledLimit(context.Background(), 2, calls...)
	assert.Len(t, outcomes, 8)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
	}
}
