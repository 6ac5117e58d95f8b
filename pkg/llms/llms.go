// Package llms defines the provider-independent model interface,
// message types, and call options shared by all provider adapters.
package llms

import (
	"context"
)

// ProviderType identifies a supported LLM provider.
type ProviderType string

// Supported provider types, matching the values accepted in
// configuration files.
const (
	ProviderAnthropic  ProviderType = "ANTHROPIC"
	ProviderAzure      ProviderType = "AZURE"
	ProviderAzureAD    ProviderType = "AZURE_AD"
	ProviderBedrock    ProviderType = "BEDROCK"
	ProviderGoogleAI   ProviderType = "GOOGLEAI"
	ProviderGroq       ProviderType = "GROQ"
	ProviderOllama     ProviderType = "OLLAMA"
	ProviderOpenAI     ProviderType = "OPENAI"
	ProviderPerplexity ProviderType = "PERPLEXITY"
)

// Model is an interface multi-modal models implement.
type Model interface {
	// GetName returns the name of the configured model.
	GetName() string
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// GenerateContent asks the model to generate content from a sequence of
	// messages. It's the most general interface for multi-modal LLMs that support
	// chat-like interactions.
	GenerateContent(ctx context.Context, messages []Message, options ...CallOption) (*ContentResponse, error)
}

// Capability is a bitmask indicating supported features of an LLM provider.
type Capability uint64

const (
	// Basic text or chat generation
	CapabilityText Capability = 1 << iota

	// Structured response formats
	CapabilityJSONResponse
	CapabilityJSONSchema
	CapabilityJSONSchemaStrict

	// Multimodal (images, audio, etc.)
	CapabilityVision

	// Open weight models / self-hosted
	CapabilitySelfHosted

	// System prompt support
	CapabilitySystemPrompt
)

var providerCapabilities = map[ProviderType]Capability{
	ProviderOpenAI: CapabilityText |
		CapabilityJSONResponse |
		CapabilityJSONSchema |
		CapabilityJSONSchemaStrict |
		CapabilitySystemPrompt |
		CapabilityVision,

	ProviderAnthropic: CapabilityText |
		CapabilityJSONResponse |
		CapabilitySystemPrompt,

	ProviderGoogleAI: CapabilityText |
		CapabilitySystemPrompt |
		CapabilityJSONResponse |
		CapabilityVision,

	// Use Bedrock with Anthropic models
	ProviderBedrock: CapabilityText |
		CapabilityJSONResponse |
		CapabilitySystemPrompt,

	ProviderGroq: CapabilityText |
		CapabilitySystemPrompt |
		CapabilityJSONResponse,

	ProviderOllama: CapabilityText |
		CapabilitySystemPrompt |
		CapabilityJSONResponse |
		CapabilitySelfHosted,

	ProviderPerplexity: CapabilityText |
		CapabilitySystemPrompt |
		CapabilityJSONResponse |
		CapabilityJSONSchema |
		CapabilityJSONSchemaStrict,

	ProviderAzure: CapabilityText |
		CapabilityJSONResponse |
		CapabilityJSONSchema |
		CapabilityJSONSchemaStrict |
		CapabilitySystemPrompt,

	ProviderAzureAD: CapabilityText, // Proxy passthrough
}

// ProviderCapabilities returns the capability set of the given provider type.
func ProviderCapabilities(pt ProviderType) Capability {
	return providerCapabilities[pt]
}

// Supports reports whether the provider type supports the capability.
func (p ProviderType) Supports(cap Capability) bool {
	return ProviderCapabilities(p)&cap != 0
}
