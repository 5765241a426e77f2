package location

import (
	"context"
	"fmt"

	"respondnav/internal/model"
)

// ErrorCode mirrors the platform geolocation failure codes.
type ErrorCode int

const (
	ErrPermissionDenied ErrorCode = iota + 1
	ErrPositionUnavailable
	ErrTimeout
)

// SourceError is a position source failure with its platform error code.
type SourceError struct {
	Code  ErrorCode
	Cause error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("position source error (code %d): %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("position source error (code %d)", e.Code)
}

func (e *SourceError) Unwrap() error { return e.Cause }

// UserMessage maps a source error to the string shown to the responder.
// Unknown errors get a generic message.
func UserMessage(err error) string {
	if se, ok := err.(*SourceError); ok {
		switch se.Code {
		case ErrPermissionDenied:
			return "Location access denied. Please enable location permissions."
		case ErrPositionUnavailable:
			return "Location information is unavailable."
		case ErrTimeout:
			return "Location request timed out."
		}
	}
	return "Unable to determine location."
}

// PositionSource delivers raw position fixes. Both channels are closed when
// the context is cancelled. Raw fixes arrive in delivery order; filtering is
// the watcher's job.
type PositionSource interface {
	Watch(ctx context.Context) (<-chan model.Fix, <-chan error)
}

// PushSource is a PositionSource fed externally, e.g. by the HTTP endpoint
// that receives fixes from the responder's device.
type PushSource struct {
	fixes chan model.Fix
	errs  chan error
}

// NewPushSource creates a push-fed position source.
func NewPushSource() *PushSource {
	return &PushSource{
		fixes: make(chan model.Fix, 16),
		errs:  make(chan error, 4),
	}
}

// Push delivers a raw fix. Drops the fix if no watcher is draining, so a
// stalled consumer never blocks the HTTP handler.
func (s *PushSource) Push(fix model.Fix) {
	select {
	case s.fixes <- fix:
	default:
	}
}

// Fail reports a device-side positioning failure.
func (s *PushSource) Fail(code ErrorCode, cause error) {
	select {
	case s.errs <- &SourceError{Code: code, Cause: cause}:
	default:
	}
}

// Watch implements PositionSource.
func (s *PushSource) Watch(ctx context.Context) (<-chan model.Fix, <-chan error) {
	fixes := make(chan model.Fix)
	errs := make(chan error)

	go func() {
		defer close(fixes)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			case fix := <-s.fixes:
				select {
				case fixes <- fix:
				case <-ctx.Done():
					return
				}
			case err := <-s.errs:
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return fixes, errs
}
