package googleai

import (
	"net/http"
	"os"

	"cloud.google.com/go/auth"
	"google.golang.org/genai"
)

// Options is a set of options for GoogleAI clients.
type Options struct {
	CloudProject  string
	CloudLocation string
	DefaultModel  string
	HarmThreshold genai.HarmBlockThreshold
	APIKey        string
	Credentials   *auth.Credentials
	HTTPClient    *http.Client
}

func DefaultOptions() Options {
	return Options{
		DefaultModel:  "gemini-2.5-pro",
		HarmThreshold: genai.HarmBlockThresholdBlockOnlyHigh,
	}
}

// EnsureAuthPresent falls back to the GOOGLE_API_KEY environment
// variable when no credentials or API key were provided.
func (o *Options) EnsureAuthPresent() {
	if o.Credentials == nil && o.APIKey == "" {
		if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			o.APIKey = key
		}
	}
}

type Option func(*Options)

// WithAPIKey passes the API KEY (token) to the client.
func WithAPIKey(apiKey string) Option {
	return func(opts *Options) {
		opts.APIKey = apiKey
	}
}

// WithCredentials authenticates API calls with the given service
// account or refresh token JSON credentials.
func WithCredentials(credentials *auth.Credentials) Option {
	return func(opts *Options) {
		if credentials != nil {
			opts.Credentials = credentials
		}
	}
}

// WithHTTPClient uses the provided HTTP client to make requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = httpClient
	}
}

// WithCloudProject passes the GCP cloud project name to the client.
func WithCloudProject(p string) Option {
	return func(opts *Options) {
		opts.CloudProject = p
	}
}

// WithCloudLocation passes the GCP cloud location (region) name to the client.
func WithCloudLocation(l string) Option {
	return func(opts *Options) {
		opts.CloudLocation = l
	}
}

// WithDefaultModel sets the model used when a call does not name one.
func WithDefaultModel(defaultModel string) Option {
	return func(opts *Options) {
		opts.DefaultModel = defaultModel
	}
}

// WithHarmThreshold sets the safety/harm setting for the model.
func WithHarmThreshold(ht genai.HarmBlockThreshold) Option {
	return func(opts *Options) {
		opts.HarmThreshold = ht
	}
}
