package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shved/plantwatch/internal/equipment"
)

const defaultTimeout = 5 * time.Second

// HTTPSource polls a telemetry backend over HTTP. The endpoint is
// expected to serve a JSON array of readings at /api/telemetry.
type HTTPSource struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPSource creates a poller for the given base URL. token, when
// non-empty, is sent as a bearer token.
func NewHTTPSource(baseURL, token string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Name implements Source.
func (s *HTTPSource) Name() string {
	return s.baseURL
}

// Poll fetches and validates one fleet snapshot. Records that fail
// boundary validation reject the whole snapshot: a backend emitting
// malformed telemetry is not trustworthy enough to render from.
func (s *HTTPSource) Poll(ctx context.Context) ([]equipment.Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/telemetry", nil)
	if err != nil {
		return nil, fmt.Errorf("telemetry request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telemetry poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telemetry poll: unexpected status %s", resp.Status)
	}

	var readings []equipment.Reading
	if err := json.NewDecoder(resp.Body).Decode(&readings); err != nil {
		return nil, fmt.Errorf("telemetry decode: %w", err)
	}

	now := time.Now()
	for i := range readings {
		if err := readings[i].Validate(); err != nil {
			return nil, fmt.Errorf("telemetry validate: %w", err)
		}
		if readings[i].Time.IsZero() {
			readings[i].Time = now
		}
	}
	return readings, nil
}
