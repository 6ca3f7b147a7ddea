package api

import (
	"fmt"
	"strings"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	"github.com/econexus/econexus/internal/models"
)

// GeminiClient talks to the Generative Language API with an API key
type GeminiClient struct {
	httpClient tls_client.HttpClient
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	genConfig  models.GenerationConfig
	log        zerolog.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the model used for generation
func WithModel(model string) ClientOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the API host, e.g. for a proxy
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GeminiClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the upper bound for a single request
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *GeminiClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient injects the HTTP client (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger for request diagnostics
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *GeminiClient) {
		c.log = log
	}
}

// NewClient creates a new GeminiClient. An empty apiKey is allowed:
// requests then fail with a missing-credential error without touching the network.
func NewClient(apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	client := &GeminiClient{
		apiKey:    strings.TrimSpace(apiKey),
		baseURL:   models.EndpointBase,
		model:     models.DefaultModel,
		timeout:   models.DefaultTimeout,
		genConfig: models.DefaultGenerationConfig(),
		log:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// The context deadline is the real bound; the transport timeout is a backstop.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout/time.Second) + 5),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// HasCredential reports whether an API key is configured
func (c *GeminiClient) HasCredential() bool {
	return c.apiKey != ""
}

// GetModel returns the model name used for generation
func (c *GeminiClient) GetModel() string {
	return c.model
}

// Close releases idle connections
func (c *GeminiClient) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *GeminiClient) credentials() (key, model string) {
	return c.apiKey, c.model
}
