package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	ipfs "github.com/ipfs/go-ipfs-api"
)

// IPFSPinner pins content through the HTTP API of a self-hosted IPFS
// node instead of a hosted provider.
//
// The node's API has no notion of a metadata label, so the name
// argument is accepted for interface parity and ignored.
type IPFSPinner struct {
	shell *ipfs.Shell
}

// NewIPFSPinner connects to the IPFS node API at addr and verifies it
// is reachable.
func NewIPFSPinner(addr string) (*IPFSPinner, error) {
	shell := ipfs.NewShell(addr)

	if !shell.IsUp() {
		return nil, fmt.Errorf("ipfs node at %s is not reachable", addr)
	}

	return &IPFSPinner{shell: shell}, nil
}

// PinJSON serializes payload and adds it to the node with pinning
// enabled.
func (p *IPFSPinner) PinJSON(ctx context.Context, name string, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &PinError{Kind: KindRejection, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	return callWithContext(ctx, func() (string, error) {
		return p.shell.Add(bytes.NewReader(body), ipfs.Pin(true))
	})
}

// PinFile streams the file at path into the node with pinning enabled.
//
// The file is opened and closed inside the provider call, so an
// abandoned call never races the handler's temp-file cleanup on a
// closed descriptor.
func (p *IPFSPinner) PinFile(ctx context.Context, name string, path string) (string, error) {
	return callWithContext(ctx, func() (string, error) {
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open upload: %w", err)
		}
		defer file.Close()

		return p.shell.Add(file, ipfs.Pin(true))
	})
}

// Healthy reports whether the node API still answers.
func (p *IPFSPinner) Healthy(ctx context.Context) error {
	_, err := callWithContext(ctx, func() (string, error) {
		if !p.shell.IsUp() {
			return "", fmt.Errorf("ipfs node is not reachable")
		}
		return "", nil
	})
	return err
}
