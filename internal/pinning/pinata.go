package pinning

import (
	"context"
	"fmt"

	"github.com/zde37/pinata-go-sdk/pinata"
)

// PinataPinner pins content through the hosted Pinata pinning API.
//
// The underlying SDK client carries the JWT and is safe for concurrent
// use, so a single PinataPinner is shared across all requests.
type PinataPinner struct {
	client *pinata.Client
}

// NewPinataPinner builds a Pinata client from a JWT and verifies the
// credentials eagerly, so a bad token fails the process at startup
// instead of failing every pin call at runtime.
func NewPinataPinner(jwt string) (*PinataPinner, error) {
	client := pinata.New(pinata.NewAuthWithJWT(jwt))

	if _, err := client.TestAuthentication(); err != nil {
		return nil, fmt.Errorf("pinata authentication failed: %w", err)
	}

	return &PinataPinner{client: client}, nil
}

// PinJSON pins an arbitrary JSON object, labeled with name in the
// Pinata metadata.
func (p *PinataPinner) PinJSON(ctx context.Context, name string, payload map[string]any) (string, error) {
	return callWithContext(ctx, func() (string, error) {
		response, err := p.client.PinJSON(payload, pinOptions(name))
		if err != nil {
			return "", err
		}
		return response.IpfsHash, nil
	})
}

// PinFile pins the file at path, labeled with name (normally the
// original upload filename).
func (p *PinataPinner) PinFile(ctx context.Context, name string, path string) (string, error) {
	return callWithContext(ctx, func() (string, error) {
		response, err := p.client.PinFile(path, pinOptions(name))
		if err != nil {
			return "", err
		}
		return response.IpfsHash, nil
	})
}

func pinOptions(name string) *pinata.PinOptions {
	return &pinata.PinOptions{
		PinataMetadata: pinata.PinataMetadata{
			Name: name,
		},
	}
}

// Healthy re-runs the authentication test so health checks can detect
// a revoked token after startup.
func (p *PinataPinner) Healthy(ctx context.Context) error {
	_, err := callWithContext(ctx, func() (string, error) {
		if _, err := p.client.TestAuthentication(); err != nil {
			return "", err
		}
		return "", nil
	})
	return err
}
