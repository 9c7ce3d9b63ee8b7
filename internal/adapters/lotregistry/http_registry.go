// Package lotregistry resolves lot references against the co-ownership's lot registry.
package lotregistry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

// HTTPRegistry asks the registry service for GET {baseURL}/lots/{lotID}:
// 200 means the lot exists, 404 that it does not.
type HTTPRegistry struct {
	baseURL string
	client  *http.Client
}

var _ ports.LotRegistry = (*HTTPRegistry)(nil)

// NewHTTPRegistry returns a registry client. A nil client gets a default one
// with a short timeout.
func NewHTTPRegistry(baseURL string, client *http.Client) *HTTPRegistry {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPRegistry{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (r *HTTPRegistry) LotExists(ctx context.Context, lotID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/lots/"+url.PathEscape(lotID), nil)
	if err != nil {
		return false, fmt.Errorf("failed to build lot registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("lot registry unreachable: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("lot registry answered %d for lot %s", resp.StatusCode, lotID)
}
