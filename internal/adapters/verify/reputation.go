package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// ReputationAPI calls the authoritative URL reputation service.
//
// Every failure mode (network error, rate limit, missing key, malformed
// response) is reported through ReputationResult.Available so the scorer
// falls back to heuristics-only mode instead of receiving an error.
type ReputationAPI struct {
	endpoint string
	apiKey   string
	source   string
	client   *http.Client
	logger   *slog.Logger
}

func NewReputationAPI(endpoint, apiKey string, timeout time.Duration, logger *slog.Logger) *ReputationAPI {
	return &ReputationAPI{
		endpoint: endpoint,
		apiKey:   apiKey,
		source:   "reputation-api",
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type reputationRequest struct {
	URL string `json:"url"`
}

type reputationResponse struct {
	IsSafe  bool `json:"is_safe"`
	Threats []struct {
		Type     string `json:"type"`
		Platform string `json:"platform"`
		Details  string `json:"details"`
	} `json:"threats"`
}

func (r *ReputationAPI) CheckURL(ctx context.Context, url string) domain.ReputationResult {
	unavailable := domain.ReputationResult{Available: false, Source: r.source}
	if r.endpoint == "" || r.apiKey == "" {
		return unavailable
	}

	body, err := json.Marshal(reputationRequest{URL: url})
	if err != nil {
		return unavailable
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return unavailable
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("reputation API unreachable", "error", err)
		return unavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("reputation API refused request", "status", resp.StatusCode)
		return unavailable
	}

	var parsed reputationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		r.logger.Warn("reputation API returned malformed body", "error", err)
		return unavailable
	}

	result := domain.ReputationResult{Available: true, IsSafe: parsed.IsSafe, Source: r.source}
	for _, t := range parsed.Threats {
		result.Threats = append(result.Threats, domain.Threat{
			Type:     t.Type,
			Platform: t.Platform,
			Details:  t.Details,
		})
	}
	return result
}
