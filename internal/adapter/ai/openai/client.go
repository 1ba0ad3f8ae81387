// Package openai is the network-backed explainer. It calls the chat
// completions API with zero retries behind a circuit breaker, so a degraded
// upstream costs at most one timeout per plan before the engine's template
// fallback takes over.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/domain"
	"github.com/arborhq/planwise/internal/observability/telemetry"
)

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o-mini"
)

// Client provides explanations via the OpenAI chat completions API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

// NewClient creates a new OpenAI explainer client.
func NewClient(apiKey string, log *zap.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai-explainer",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{},
		breaker:    cb,
		log:        log,
	}
}

func (c *Client) Source() string { return "openai_gpt4o_mini" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Explain generates a two-sentence plan explanation for one customer.
func (c *Client) Explain(ctx context.Context, ectx domain.ExplanationContext) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai: %w: API key not configured", domain.ErrExplanationUnavailable)
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.complete(ctx, buildPrompt(ectx))
	})
	telemetry.ExplanationLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		return "", fmt.Errorf("openai: %w: %v", domain.ErrExplanationUnavailable, err)
	}

	text := result.(string)
	if text == "" {
		return "", fmt.Errorf("openai: %w: empty completion", domain.ErrExplanationUnavailable)
	}

	c.log.Info("Explanation completed",
		zap.String("plan_id", ectx.Plan.Plan.ID),
		zap.Duration("duration", time.Since(start)),
	)
	return text, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   80, // two sentences
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return result.Choices[0].Message.Content, nil
}
