package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"arbiter-hq/arbiter/pkg/rules"
)

// HTTPConfig contains configuration for the HTTP rule source.
type HTTPConfig struct {
	// BaseURL is the rule store's base URL (e.g. "http://127.0.0.1:8001").
	BaseURL string

	// Timeout bounds a single group fetch.
	// Default: 3 seconds.
	Timeout time.Duration
}

// DefaultHTTPConfig returns the default HTTP source configuration.
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		BaseURL: "http://127.0.0.1:8001",
		Timeout: 3 * time.Second,
	}
}

// HTTPSource fetches rule groups from an external rule-store service over
// its read-only HTTP contract: GET {base}/v1/groups/{id}.
type HTTPSource struct {
	config *HTTPConfig
	client *http.Client
	logger *slog.Logger
}

// NewHTTPSource creates an HTTP rule source.
func NewHTTPSource(config *HTTPConfig) *HTTPSource {
	if config == nil {
		config = DefaultHTTPConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = 3 * time.Second
	}
	return &HTTPSource{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: slog.Default().With("component", "rules.source.http"),
	}
}

// FetchGroup fetches one group by id. A 404 maps to ErrGroupNotFound;
// transport failures and non-2xx statuses map to UnreachableError.
func (s *HTTPSource) FetchGroup(ctx context.Context, groupID string) (*rules.Group, error) {
	url := fmt.Sprintf("%s/v1/groups/%s", s.config.BaseURL, groupID)

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UnreachableError{Endpoint: url, Cause: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("rule store fetch failed",
			"group_id", groupID,
			"error", err,
		)
		return nil, &UnreachableError{Endpoint: url, Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	case resp.StatusCode != http.StatusOK:
		return nil, &UnreachableError{
			Endpoint: url,
			Cause:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var group rules.Group
	if err := json.NewDecoder(resp.Body).Decode(&group); err != nil {
		return nil, &UnreachableError{Endpoint: url, Cause: fmt.Errorf("decode group: %w", err)}
	}

	s.logger.Debug("fetched rule group",
		"group_id", group.ID,
		"rule_count", len(group.Rules),
	)

	return &group, nil
}
