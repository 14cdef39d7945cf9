package pinning

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorKind partitions upstream failures into the three cases the rest
// of the application cares about. All of them surface to the client as
// the same generic 500; the kind only matters for server-side logs.
type ErrorKind string

const (
	// KindAuth means the provider rejected our credentials.
	KindAuth ErrorKind = "auth"

	// KindNetwork means we could not reach the provider, or the call
	// timed out.
	KindNetwork ErrorKind = "network"

	// KindRejection means the provider refused the payload itself
	// (too large, malformed, quota exceeded, and so on).
	KindRejection ErrorKind = "rejection"
)

// PinError wraps an upstream pinning failure with its classification.
type PinError struct {
	Kind ErrorKind
	Err  error
}

func (e *PinError) Error() string {
	return fmt.Sprintf("pin failed (%s): %v", e.Kind, e.Err)
}

func (e *PinError) Unwrap() error {
	return e.Err
}

// classify buckets an upstream error into a PinError kind.
//
// Providers don't expose a typed error surface, so classification is
// best-effort: transport-level errors map to network, credential
// rejections to auth, and everything else to rejection.
func classify(err error) *PinError {
	var pinErr *PinError
	if errors.As(err, &pinErr) {
		return pinErr
	}

	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &PinError{Kind: KindNetwork, Err: err}
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		return &PinError{Kind: KindNetwork, Err: err}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "invalid authentication"),
		strings.Contains(msg, "invalid credentials"):
		return &PinError{Kind: KindAuth, Err: err}
	}

	return &PinError{Kind: KindRejection, Err: err}
}
