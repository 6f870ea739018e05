package verify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sentryline/fraud-triage/internal/ports"
)

// ForensicsClient talks to the ML inference service (image/audio forensics,
// deepfake and voice detection, OCR). The service is a black box: this
// client health-checks it, retries with bounded exponential backoff, and on
// exhaustion substitutes a clearly-labeled local heuristic so callers still
// get an answer, just a reduced-confidence one.
type ForensicsClient struct {
	baseURL    string
	client     *http.Client
	logger     *slog.Logger
	maxRetries uint64
}

func NewForensicsClient(baseURL string, timeout time.Duration, logger *slog.Logger) *ForensicsClient {
	return &ForensicsClient{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		maxRetries: 3,
	}
}

func (c *ForensicsClient) Healthy(ctx context.Context) bool {
	if c.baseURL == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type inferenceRequest struct {
	Payload  string `json:"payload"` // base64
	Encoding string `json:"encoding"`
	Type     string `json:"type"`
}

type inferenceResponse struct {
	Verdict    string   `json:"verdict"`
	Score      int      `json:"score"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators"`
}

// Analyze submits a payload for inference. An error is returned only for
// invalid requests; availability problems end in the degraded fallback.
func (c *ForensicsClient) Analyze(ctx context.Context, req ports.ForensicsRequest) (ports.ForensicsResult, error) {
	if len(req.Payload) == 0 {
		return ports.ForensicsResult{}, errors.New("empty payload")
	}
	if !c.Healthy(ctx) {
		c.logger.Warn("forensics service failed health check, using local heuristic")
		return c.localFallback(req), nil
	}

	var result ports.ForensicsResult
	operation := func() error {
		parsed, err := c.post(ctx, req)
		if err != nil {
			return err
		}
		result = parsed
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		c.logger.Warn("forensics service unavailable after retries", "error", err)
		return c.localFallback(req), nil
	}
	return result, nil
}

func (c *ForensicsClient) post(ctx context.Context, req ports.ForensicsRequest) (ports.ForensicsResult, error) {
	body, err := json.Marshal(inferenceRequest{
		Payload:  base64.StdEncoding.EncodeToString(req.Payload),
		Encoding: req.Encoding,
		Type:     req.Type,
	})
	if err != nil {
		return ports.ForensicsResult{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return ports.ForensicsResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return ports.ForensicsResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ports.ForensicsResult{}, fmt.Errorf("forensics service returned %d", resp.StatusCode)
	}

	var parsed inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ports.ForensicsResult{}, err
	}
	return ports.ForensicsResult{
		Verdict:    parsed.Verdict,
		Score:      parsed.Score,
		Confidence: parsed.Confidence,
		Indicators: parsed.Indicators,
	}, nil
}

// localFallback is the degraded heuristic used when the service is down:
// byte entropy separates compressed/encrypted blobs (inconclusive) from
// structured payloads (likely unmodified). It is coarse, and labeled so
// downstream consumers can discount it.
func (c *ForensicsClient) localFallback(req ports.ForensicsRequest) ports.ForensicsResult {
	entropy := byteEntropy(req.Payload)
	score := 30
	verdict := "likely-clean"
	if entropy > 7.5 {
		score = 50
		verdict = "inconclusive"
	}
	return ports.ForensicsResult{
		Verdict:    verdict,
		Score:      score,
		Confidence: 0.25,
		Indicators: []string{"ml-service-unavailable", "local-entropy-heuristic"},
		Degraded:   true,
	}
}

func byteEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	entropy := 0.0
	total := float64(len(data))
	for _, n := range counts {
		if n == 0 {
			continue
		}
		p := float64(n) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
