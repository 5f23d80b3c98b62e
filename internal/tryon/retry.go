package tryon

import (
	"context"
	"time"

	"tryon/internal/domain"
	"tryon/internal/infra"
)

const (
	DefaultMaxRetries          = 3
	DefaultIterativeMaxRetries = 2
	DefaultBaseDelay           = time.Second
)

// RetryPolicy bounds WithRetry. Sleep defaults to a context-aware timer.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
	Logger     *infra.Logger
}

// AttemptFunc performs one attempt. attemptIndex is zero-based.
type AttemptFunc func(ctx context.Context, attemptIndex int) domain.Result

// WithRetry calls attempt until it succeeds or MaxRetries attempts have
// failed. After every failed attempt except the last it waits
// BaseDelay*2^attemptIndex. The last failure's kind and message survive in
// the retry_exhausted result.
func WithRetry(ctx context.Context, attempt AttemptFunc, policy RetryPolicy) domain.Result {
	maxRetries := policy.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := infra.OrDiscard(policy.Logger)

	var last domain.Failure
	for i := 0; i < maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return canceled(err, i)
		}
		var failure domain.Failure
		switch res := attempt(ctx, i).(type) {
		case domain.Success:
			return res
		case domain.Failure:
			failure = res
		default:
			failure = domain.Fail(domain.KindTransport, "attempt returned no result")
		}
		if failure.Kind == domain.KindCanceled {
			failure.Attempts = i + 1
			return failure
		}
		last = failure
		if i == maxRetries-1 {
			break
		}

		delay := policy.BaseDelay << i
		logger.Warn().
			Int("attempt", i+1).
			Int("max_retries", maxRetries).
			Dur("delay", delay).
			Str("kind", string(failure.Kind)).
			Str("error", failure.Message).
			Msg("generation attempt failed, retrying")
		if err := sleep(ctx, delay); err != nil {
			return canceled(err, i+1)
		}
	}

	logger.Error().
		Int("attempts", maxRetries).
		Str("kind", string(last.Kind)).
		Str("error", last.Message).
		Msg("generation retries exhausted")
	return domain.Failure{
		Kind:     domain.KindRetryExhausted,
		Cause:    last.Kind,
		Message:  last.Message,
		Attempts: maxRetries,
	}
}

func canceled(err error, attempts int) domain.Failure {
	return domain.Failure{Kind: domain.KindCanceled, Message: err.Error(), Attempts: attempts}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
