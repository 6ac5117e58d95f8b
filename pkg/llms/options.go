package llms

import (
	"context"

	"github.com/effective-security/nexusllm/pkg/schema"
)

// CallOptions holds the generation settings for a single call.
// Adapters ignore the settings their backend has no equivalent for.
type CallOptions struct {
	// Model overrides the client default model.
	Model string
	// MaxTokens caps the number of generated tokens.
	MaxTokens int
	// Temperature regulates sampling randomness, between 0 and 1.
	Temperature float64
	// TopP is the cumulative probability cutoff for nucleus sampling.
	TopP float64
	// TopK limits sampling to the K most likely tokens.
	TopK int
	// Seed requests deterministic sampling where supported.
	Seed int
	// N is the number of completion choices to generate.
	N int
	// CandidateCount is the candidate count for backends that
	// distinguish it from N.
	CandidateCount int
	// StopWords end the generation when produced.
	StopWords []string
	// StreamingFunc receives each chunk of a streaming response.
	// Returning an error stops the stream.
	StreamingFunc func(ctx context.Context, chunk []byte) error
	// ResponseFormat requests a structured response, such as a JSON
	// schema. When nil the reply is plain text.
	ResponseFormat *schema.ResponseFormat
}

// CallOption sets one field of CallOptions.
type CallOption func(*CallOptions)

// WithModel overrides the model for this call.
func WithModel(model string) CallOption {
	return func(o *CallOptions) {
		o.Model = model
	}
}

// WithMaxTokens caps the number of generated tokens.
func WithMaxTokens(maxTokens int) CallOption {
	return func(o *CallOptions) {
		o.MaxTokens = maxTokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = temperature
	}
}

// WithTopP enables nucleus sampling with the given cutoff.
func WithTopP(topP float64) CallOption {
	return func(o *CallOptions) {
		o.TopP = topP
	}
}

// WithTopK enables top-k sampling.
func WithTopK(topK int) CallOption {
	return func(o *CallOptions) {
		o.TopK = topK
	}
}

// WithSeed requests deterministic sampling.
func WithSeed(seed int) CallOption {
	return func(o *CallOptions) {
		o.Seed = seed
	}
}

// WithN sets the number of completion choices to generate.
func WithN(n int) CallOption {
	return func(o *CallOptions) {
		o.N = n
	}
}

// WithCandidateCount sets the candidate count.
func WithCandidateCount(c int) CallOption {
	return func(o *CallOptions) {
		o.CandidateCount = c
	}
}

// WithStopWords sets the stop sequences.
func WithStopWords(stopWords []string) CallOption {
	return func(o *CallOptions) {
		o.StopWords = stopWords
	}
}

// WithStreamingFunc enables streaming and sets the chunk callback.
func WithStreamingFunc(streamingFunc func(ctx context.Context, chunk []byte) error) CallOption {
	return func(o *CallOptions) {
		o.StreamingFunc = streamingFunc
	}
}

// WithResponseFormat requests a structured response format.
func WithResponseFormat(format *schema.ResponseFormat) CallOption {
	return func(o *CallOptions) {
		o.ResponseFormat = format
	}
}

// PromptValue is the interface that all prompt values must implement.
type PromptValue interface {
	String() string
	Messages() []Message
}
