// Package pinning adapts content-pinning providers behind a single
// Pinner interface.
//
// A Pinner takes request-scoped content (a JSON object or a file on
// disk) and hands it to an external IPFS pinning provider, returning
// the provider-assigned content identifier (CID). The providers do all
// of the actual work: chunking, hashing, and network propagation are
// opaque to this package.
package pinning

import (
	"context"
	"fmt"

	"github.com/salviega/sci-backend/internal/config"
)

// Pinner is implemented by every pinning provider adapter.
//
// Both operations perform exactly one outbound call, return the CID on
// success, and wrap any upstream failure into a *PinError. No retries
// are performed; every failure is terminal for the request.
type Pinner interface {
	// PinJSON serializes payload as-is, labels it with name, and pins it.
	PinJSON(ctx context.Context, name string, payload map[string]any) (string, error)

	// PinFile pins the file at path, labeled with name (normally the
	// original upload filename).
	PinFile(ctx context.Context, name string, path string) (string, error)
}

// New constructs the Pinner selected by config.
//
// The returned client is built once at startup and shared read-only
// across all request handlers; implementations must be safe for
// concurrent use.
func New(cfg *config.Config) (Pinner, error) {
	switch cfg.Pinning.Provider {
	case "pinata":
		return NewPinataPinner(cfg.Pinning.PinataJWT)
	case "ipfs":
		return NewIPFSPinner(cfg.Pinning.IPFSNodeAddress)
	default:
		return nil, fmt.Errorf("unknown pinning provider: %q", cfg.Pinning.Provider)
	}
}

type pinResult struct {
	cid string
	err error
}

// callWithContext runs a blocking provider call in its own goroutine so
// the caller can stop waiting when ctx ends. The underlying call is
// abandoned, not cancelled: it finishes in the background and its
// result is dropped (the channel is buffered so the goroutine never
// leaks).
func callWithContext(ctx context.Context, call func() (string, error)) (string, error) {
	results := make(chan pinResult, 1)

	go func() {
		cid, err := call()
		results <- pinResult{cid: cid, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", &PinError{Kind: KindNetwork, Err: ctx.Err()}
	case res := <-results:
		if res.err != nil {
			return "", classify(res.err)
		}
		return res.cid, nil
	}
}

// HealthChecker is optionally implemented by providers that can verify
// upstream reachability for the health endpoint.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}
