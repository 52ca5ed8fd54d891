package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Service endpoints.
const (
	pathHealth    = "/"
	pathGenerate  = "/generate-plan"
	pathEvaluate  = "/evaluate-plan"
	pathSimulate  = "/simulate-scenarios"
	pathChat      = "/chat"
	maxBodyBytes  = 4 << 20
	requestHeader = "X-Request-ID"
)

// httpClient implements Planner against the planning service's HTTP API.
type httpClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	contract   *Contract
	logger     *slog.Logger
	baseURL    *url.URL
	apiKey     string
	retryOpts  common.RetryOptions
}

// newHTTPClient creates a new planning service client.
func newHTTPClient(cfg Config, logger *slog.Logger) (*httpClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("%w: planning service URL is required", common.ErrMissingConfig)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: planning service URL %q", common.ErrInvalidConfig, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	requestsPerMinute := cfg.RateLimit
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}

	c := &httpClient{
		baseURL: base,
		apiKey:  cfg.APIKey,
		logger:  common.ComponentLogger(logger, "planner"),
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), requestsPerMinute),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
	}

	if cfg.ValidateContract {
		contract, err := LoadContract(context.Background())
		if err != nil {
			return nil, err
		}
		c.contract = contract
	}

	return c, nil
}

// GeneratePlan posts the profile and parses the two strategies.
func (c *httpClient) GeneratePlan(ctx context.Context, req *model.PlanRequest) (*model.GeneratedPlan, error) {
	if err := c.checkRequest(SchemaUserProfile, req); err != nil {
		return nil, err
	}
	body, err := c.post(ctx, pathGenerate, req, SchemaGeneratedPlan)
	if err != nil {
		return nil, err
	}
	plan, err := model.ParsePlan(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return plan, nil
}

// EvaluatePlan asks the service to assess a plan for the profile it was generated from.
func (c *httpClient) EvaluatePlan(ctx context.Context, req *model.PlanRequest, plan *model.GeneratedPlan) (*model.EvaluationResult, error) {
	body, err := c.post(ctx, pathEvaluate, model.EvaluationRequest{UserProfile: req, GeneratedPlan: plan}, SchemaEvaluation)
	if err != nil {
		return nil, err
	}
	result, err := model.ParseEvaluation(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return result, nil
}

// SimulateScenarios requests economic scenarios with projected goal timelines.
func (c *httpClient) SimulateScenarios(ctx context.Context, req *model.PlanRequest) ([]model.Scenario, error) {
	body, err := c.post(ctx, pathSimulate, model.SimulationRequest{UserProfile: req}, SchemaScenarios)
	if err != nil {
		return nil, err
	}
	scenarios, err := model.ParseScenarios(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return scenarios, nil
}

// Chat asks a follow-up question about a plan.
func (c *httpClient) Chat(ctx context.Context, req *model.ChatRequest) (string, error) {
	body, err := c.post(ctx, pathChat, req, "")
	if err != nil {
		return "", err
	}
	answer, err := model.ParseChatAnswer(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return answer, nil
}

// Ping checks that the service is up. Unlike the planning calls it is retried.
func (c *httpClient) Ping(ctx context.Context) (string, error) {
	var status string
	err := common.WithRetry(ctx, func() error {
		body, err := c.do(ctx, http.MethodGet, pathHealth, nil)
		if err != nil {
			var remote *RemoteError
			if errors.As(err, &remote) && remote.StatusCode < 500 && remote.StatusCode != http.StatusTooManyRequests {
				return common.Permanent(err)
			}
			return err
		}
		var health struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(body, &health); err != nil {
			return common.Permanent(fmt.Errorf("%w: %v", common.ErrMalformedResponse, err))
		}
		status = health.Status
		return nil
	}, c.retryOpts)
	return status, err
}

func (c *httpClient) checkRequest(schema string, v any) error {
	if c.contract == nil {
		return nil
	}
	if err := c.contract.CheckValue(schema, v); err != nil {
		return fmt.Errorf("%w: outgoing %s rejected by contract: %v", common.ErrProgramming, schema, err)
	}
	return nil
}

// post sends payload as JSON and validates the response against schema when set.
func (c *httpClient) post(ctx context.Context, path string, payload any, schema string) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, path, jsonBody)
	if err != nil {
		return nil, err
	}

	if c.contract != nil && schema != "" {
		if err := c.contract.Check(schema, body); err != nil {
			c.logger.Warn("Response violates service contract",
				"path", path,
				"error", err)
			return nil, err
		}
	}
	return body, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, jsonBody []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter canceled: %w", err)
	}

	var reader io.Reader
	if jsonBody != nil {
		reader = bytes.NewReader(jsonBody)
	}

	endpoint := c.baseURL.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestHeader, requestID)
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Planning service call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newRemoteError(resp.StatusCode, body)
	}
	return body, nil
}
