package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/econexus/econexus/internal/errors"
	"github.com/econexus/econexus/internal/models"
)

const (
	maxErrorBody    = 4 << 10
	maxResponseBody = 4 << 20
)

type generateRequest struct {
	Contents         []content               `json:"contents"`
	GenerationConfig models.GenerationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// GenerateReply sends prompt to Gemini and returns the trimmed reply text.
// Every returned error is a *errors.ClassifiedError.
func (c *GeminiClient) GenerateReply(ctx context.Context, prompt string) (string, error) {
	if !c.HasCredential() {
		return "", apierrors.NewMissingCredentialError()
	}
	return c.callGemini(ctx, prompt)
}

// callGemini performs the request under the client timeout
func (c *GeminiClient) callGemini(ctx context.Context, prompt string) (string, error) {
	key, model := c.credentials()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := buildPayload(prompt, c.genConfig)
	if err != nil {
		return "", apierrors.NewUnknownError(fmt.Errorf("failed to build payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(model, key), bytes.NewReader(payload))
	if err != nil {
		return "", apierrors.NewUnknownError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	c.log.Debug().
		Str("model", model).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("gemini response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", apierrors.NewAPIError(resp.StatusCode, errorMessage(body, resp.StatusCode, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}

	text, err := parseResponse(body)
	if err != nil {
		return "", err
	}
	return text, nil
}

// endpoint builds the generateContent URL with the key as query parameter
func (c *GeminiClient) endpoint(model, key string) string {
	path := fmt.Sprintf(models.EndpointGenerate, url.PathEscape(model))
	return c.baseURL + path + "?key=" + url.QueryEscape(key)
}

// buildPayload creates the JSON request body: one user turn holding the
// system prompt followed by the user's prompt.
func buildPayload(prompt string, cfg models.GenerationConfig) ([]byte, error) {
	return json.Marshal(generateRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: models.SystemPrompt + "\n\n" + prompt}},
			},
		},
		GenerationConfig: cfg,
	})
}

// parseResponse concatenates the text parts of the first candidate
func parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewUnknownError(errors.New("invalid JSON in response"))
	}

	var sb strings.Builder
	parts := gjson.GetBytes(body, PathCandidateParts)
	if parts.IsArray() {
		parts.ForEach(func(_, p gjson.Result) bool {
			sb.WriteString(p.Get(PathPartText).String())
			return true
		})
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", apierrors.NewEmptyResponseError()
	}
	return text, nil
}

// errorMessage extracts error.message from a JSON error body and falls back
// to the HTTP status text when the body has none.
func errorMessage(body []byte, statusCode int, status string) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, PathErrorMessage); msg.Type == gjson.String && msg.String() != "" {
			return msg.String()
		}
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	if status != "" {
		return status
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// classifyTransportError maps a failed round trip to timeout, cancellation or network
func classifyTransportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apierrors.NewTimeoutError(err)
	case ctx.Err() != nil:
		return apierrors.NewUnknownError(ctx.Err())
	default:
		return apierrors.NewNetworkError(err)
	}
}
