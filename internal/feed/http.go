package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/pdie/internal/contracts"
	"github.com/wonny/pdie/pkg/httputil"
)

// HTTPSource downloads the weekly signal CSV export from a URL
type HTTPSource struct {
	url    string
	client *httputil.Client
}

// NewHTTPSource creates an HTTP source; the body must use the CSV columns
func NewHTTPSource(url string, client *httputil.Client) *HTTPSource {
	return &HTTPSource{url: url, client: client}
}

// Name implements contracts.SignalSource
func (s *HTTPSource) Name() string {
	return "http"
}

// Load implements contracts.SignalSource
func (s *HTTPSource) Load(ctx context.Context) ([]contracts.SignalRecord, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch signal export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch signal export: unexpected status %d", resp.StatusCode)
	}
	return ReadCSV(ctx, resp.Body)
}
