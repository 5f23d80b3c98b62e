package domain

import (
	"context"
	"fmt"
)

// FailureKind classifies why an operation did not produce an image.
type FailureKind string

const (
	KindNotFound        FailureKind = "not_found"
	KindValidation      FailureKind = "validation"
	KindInvalidImage    FailureKind = "invalid_image"
	KindContentRejected FailureKind = "content_rejected"
	KindNoImage         FailureKind = "no_image"
	KindTransport       FailureKind = "transport"
	KindRetryExhausted  FailureKind = "retry_exhausted"
	KindCanceled        FailureKind = "canceled"
)

// Retryable reports whether a generation attempt that failed with this kind
// may be attempted again.
func (k FailureKind) Retryable() bool {
	return k == KindNoImage || k == KindTransport
}

// Result is the envelope returned by the try-on pipeline. It is implemented
// only by Success and Failure.
type Result interface {
	isResult()
	OK() bool
}

// Success carries a generated image. Image is never empty.
type Success struct {
	Image    []byte
	MIMEType string
	Person   *Person
	Garment  *Garment
	Prompt   string
	// Round is the zero-based refinement round that produced the image.
	Round int
}

// Failure describes a terminal outcome without an image.
type Failure struct {
	Kind    FailureKind
	Message string
	// Cause is the kind of the last underlying failure when Kind is
	// KindRetryExhausted.
	Cause    FailureKind
	Attempts int
	Person   *Person
	Garment  *Garment
}

func (Success) isResult() {}
func (Failure) isResult() {}

func (Success) OK() bool { return true }
func (Failure) OK() bool { return false }

// NewSuccess builds a Success, degrading to a no_image Failure when data is empty.
func NewSuccess(data []byte, mimeType string) Result {
	if len(data) == 0 {
		return Fail(KindNoImage, ErrNoImage.Error())
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	return Success{Image: data, MIMEType: mimeType}
}

// Fail builds a Failure of the given kind.
func Fail(kind FailureKind, message string) Failure {
	return Failure{Kind: kind, Message: message}
}

// FailFromError builds a Failure classified by KindOf.
func FailFromError(err error) Failure {
	if err == nil {
		return Fail(KindTransport, "unknown error")
	}
	return Fail(KindOf(err), err.Error())
}

// FailFromContext builds a Failure classified by KindOfContext.
func FailFromContext(ctx context.Context, err error) Failure {
	if err == nil {
		return Fail(KindTransport, "unknown error")
	}
	return Fail(KindOfContext(ctx, err), err.Error())
}

// Error makes a Failure usable as an error value.
func (f Failure) Error() string {
	if f.Message == "" {
		return string(f.Kind)
	}
	return f.Message
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}
