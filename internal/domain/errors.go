package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidImage    = errors.New("invalid image")
	ErrContentRejected = errors.New("content rejected")
	ErrNoImage         = errors.New("no image produced")
	ErrTransport       = errors.New("provider failure")
	ErrRetryExhausted  = errors.New("max retries exceeded")
)

// KindOf maps an error from the core onto the failure taxonomy. Unknown errors
// are reported as transport failures since they originate from a provider call.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidImage):
		return KindInvalidImage
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrContentRejected):
		return KindContentRejected
	case errors.Is(err, ErrNoImage):
		return KindNoImage
	case errors.Is(err, ErrRetryExhausted):
		return KindRetryExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindTransport
	}
}

// KindOfContext classifies err returned by a call made under ctx. Context
// errors only count as canceled when ctx itself is done; an http.Client
// timeout also matches context.DeadlineExceeded and is a transport failure.
func KindOfContext(ctx context.Context, err error) FailureKind {
	kind := KindOf(err)
	done := ctx != nil && ctx.Err() != nil
	switch {
	case done && (kind == KindCanceled || kind == KindTransport):
		return KindCanceled
	case kind == KindCanceled && !done:
		return KindTransport
	}
	return kind
}
