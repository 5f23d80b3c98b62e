package tryon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon/internal/domain"
)

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func TestWithRetryAlwaysFailing(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	res := WithRetry(context.Background(), func(context.Context, int) domain.Result {
		calls++
		return domain.Fail(domain.KindNoImage, "no image produced")
	}, RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, Sleep: rec.sleep})

	assert.Equal(t, 3, calls)
	failure, ok := res.(domain.Failure)
	require.True(t, ok)
	assert.Equal(t, domain.KindRetryExhausted, failure.Kind)
	assert.Equal(t, domain.KindNoImage, failure.Cause)
	assert.Equal(t, "no image produced", failure.Message)
	assert.Equal(t, 3, failure.Attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestWithRetryFailsTwiceThenSucceeds(t *testing.T) {
	rec := &sleepRecorder{}
	var indexes []int
	res := WithRetry(context.Background(), func(_ context.Context, i int) domain.Result {
		indexes = append(indexes, i)
		if i < 2 {
			return domain.Fail(domain.KindTransport, "quota exceeded")
		}
		return domain.NewSuccess([]byte{1, 2, 3}, "image/png")
	}, RetryPolicy{MaxRetries: 5, BaseDelay: 10 * time.Millisecond, Sleep: rec.sleep})

	require.True(t, res.OK())
	assert.Equal(t, []int{0, 1, 2}, indexes)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, rec.delays)
	assert.Equal(t, []byte{1, 2, 3}, res.(domain.Success).Image)
}

func TestWithRetryClampsMaxRetries(t *testing.T) {
	calls := 0
	res := WithRetry(context.Background(), func(context.Context, int) domain.Result {
		calls++
		return domain.Fail(domain.KindTransport, "down")
	}, RetryPolicy{MaxRetries: 0, Sleep: (&sleepRecorder{}).sleep})

	assert.Equal(t, 1, calls)
	assert.Equal(t, domain.KindRetryExhausted, res.(domain.Failure).Kind)
}

func TestWithRetryCanceledBeforeAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	res := WithRetry(ctx, func(context.Context, int) domain.Result {
		calls++
		return domain.NewSuccess([]byte{1}, "")
	}, RetryPolicy{MaxRetries: 3})

	assert.Zero(t, calls)
	assert.Equal(t, domain.KindCanceled, res.(domain.Failure).Kind)
}

func TestWithRetryCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	res := WithRetry(ctx, func(context.Context, int) domain.Result {
		calls++
		cancel()
		return domain.Fail(domain.KindTransport, "down")
	}, RetryPolicy{MaxRetries: 3, BaseDelay: time.Hour})

	assert.Equal(t, 1, calls)
	failure := res.(domain.Failure)
	assert.Equal(t, domain.KindCanceled, failure.Kind)
	assert.Equal(t, 1, failure.Attempts)
}

func TestWithRetryStopsOnCanceledAttempt(t *testing.T) {
	calls := 0
	res := WithRetry(context.Background(), func(context.Context, int) domain.Result {
		calls++
		return domain.Fail(domain.KindCanceled, "context canceled")
	}, RetryPolicy{MaxRetries: 3, Sleep: (&sleepRecorder{}).sleep})

	assert.Equal(t, 1, calls)
	assert.Equal(t, domain.KindCanceled, res.(domain.Failure).Kind)
}
