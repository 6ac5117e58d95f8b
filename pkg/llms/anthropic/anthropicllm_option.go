package anthropic

import (
	"net/http"
	"os"

	"github.com/anthropics/anthropic-sdk-go/option"
)

const TokenEnvVarName = "ANTHROPIC_API_KEY" //nolint:gosec

type Options struct {
	Token      string
	Model      string
	BaseURL    string
	HttpClient option.HTTPClient

	// AnthropicBetaHeader is sent as the 'anthropic-beta' header when set.
	AnthropicBetaHeader string
}

func defaultOptions() *Options {
	return &Options{
		Token:      os.Getenv(TokenEnvVarName),
		BaseURL:    "https://api.anthropic.com",
		HttpClient: http.DefaultClient,
	}
}

type Option func(*Options)

// WithToken sets the API key, overriding the environment variable.
func WithToken(token string) Option {
	return func(opts *Options) {
		opts.Token = token
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(opts *Options) {
		opts.Model = model
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client option.HTTPClient) Option {
	return func(opts *Options) {
		opts.HttpClient = client
	}
}

// WithAnthropicBetaHeader opts the client into a beta feature.
func WithAnthropicBetaHeader(value string) Option {
	return func(opts *Options) {
		opts.AnthropicBetaHeader = value
	}
}
