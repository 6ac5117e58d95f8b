// Package googleai implements a provider for Google AI LLMs.
// See https://ai.google.dev/ for more details.
package googleai

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/llms/googleai/internal/genaiutils"
	"google.golang.org/genai"
)

var (
	ErrNoContentInResponse   = errors.New("no content in generation response")
	ErrUnknownPartInResponse = errors.New("unknown part type in generation response")
)

const (
	CITATIONS            = "citations"
	SAFETY               = "safety"
	RoleSystem           = "system"
	RoleModel            = "model"
	RoleUser             = "user"
	ResponseMIMETypeJson = "application/json"
)

// GoogleAI is a Google AI API client.
type GoogleAI struct {
	client *genai.Client
	opts   Options
}

var _ llms.Model = (*GoogleAI)(nil)

// New creates a new GoogleAI client.
func New(ctx context.Context, opts ...Option) (*GoogleAI, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	options.EnsureAuthPresent()

	g := &GoogleAI{
		opts: options,
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:     options.CloudProject,
		Location:    options.CloudLocation,
		APIKey:      options.APIKey,
		Credentials: options.Credentials,
		HTTPClient:  options.HTTPClient,
		Backend:     genai.BackendGeminiAPI,
	})
	if err != nil {
		return g, err
	}
	g.client = client
	return g, nil
}

// GetName implements the Model interface.
func (g *GoogleAI) GetName() string {
	return g.opts.DefaultModel
}

// GetProviderType implements the Model interface.
func (g *GoogleAI) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// GenerateContent implements the [llms.Model] interface.
func (g *GoogleAI) GenerateContent(
	ctx context.Context,
	messages []llms.Message,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: g.opts.DefaultModel,
	}
	for _, opt := range options {
		opt(&opts)
	}

	config := &genai.GenerateContentConfig{
		StopSequences:   opts.StopWords,
		CandidateCount:  int32(opts.CandidateCount),
		MaxOutputTokens: int32(opts.MaxTokens),
		Temperature:     genaiutils.Float32Ptr(float32(opts.Temperature)),
		TopP:            genaiutils.Float32Ptr(float32(opts.TopP)),
		TopK:            genaiutils.Float32Ptr(float32(opts.TopK)),
		Seed:            genaiutils.Int32Ptr(int32(opts.Seed)),
		SafetySettings:  g.safetySettings(),
	}

	if opts.ResponseFormat != nil {
		config.ResponseMIMEType = ResponseMIMETypeJson
		if opts.ResponseFormat.JSONSchema != nil {
			responseSchema, err := genaiutils.ConvertResponseFormatJSONSchema(opts.ResponseFormat.JSONSchema)
			if err != nil {
				return nil, err
			}
			config.ResponseSchema = responseSchema
		}
	}

	// System messages travel as a config instruction, not history
	var history []*genai.Content
	for _, mc := range messages {
		content, err := toGenaiContent(mc)
		if err != nil {
			return nil, err
		}
		if mc.Role == llms.RoleSystem {
			config.SystemInstruction = content
			continue
		}
		history = append(history, content)
	}

	if opts.StreamingFunc != nil {
		return g.stream(ctx, &opts, history, config)
	}

	resp, err := g.client.Models.GenerateContent(ctx, opts.Model, history, config)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoContentInResponse
	}
	return buildResponse(resp.Candidates, resp.UsageMetadata)
}

// stream collects a single candidate from the streaming iterator,
// forwarding each text chunk to the streaming function.
func (g *GoogleAI) stream(
	ctx context.Context,
	opts *llms.CallOptions,
	history []*genai.Content,
	config *genai.GenerateContentConfig,
) (*llms.ContentResponse, error) {
	candidate := &genai.Candidate{
		Content: &genai.Content{},
	}
	var usage *genai.GenerateContentResponseUsageMetadata

	for resp, err := range g.client.Models.GenerateContentStream(ctx, opts.Model, history, config) {
		if err != nil {
			return nil, errors.Wrap(err, "error in stream mode")
		}
		if len(resp.Candidates) == 0 {
			continue
		}
		chunk := resp.Candidates[0]
		if chunk.Content == nil {
			break
		}
		candidate.Content.Parts = append(candidate.Content.Parts, chunk.Content.Parts...)
		candidate.Content.Role = chunk.Content.Role
		candidate.FinishReason = chunk.FinishReason
		candidate.SafetyRatings = chunk.SafetyRatings
		candidate.CitationMetadata = chunk.CitationMetadata
		if resp.UsageMetadata != nil {
			usage = resp.UsageMetadata
		}

		for _, part := range chunk.Content.Parts {
			if part.Text != "" {
				if err := opts.StreamingFunc(ctx, []byte(part.Text)); err != nil {
					return nil, errors.Wrap(err, "streaming function error")
				}
			}
		}
	}

	return buildResponse([]*genai.Candidate{candidate}, usage)
}

func (g *GoogleAI) safetySettings() []*genai.SafetySetting {
	threshold := genai.HarmBlockThreshold(g.opts.HarmThreshold)
	categories := []genai.HarmCategory{
		genai.HarmCategoryDangerousContent,
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}
	return settings
}

// buildResponse converts genai candidates to a generic response.
func buildResponse(candidates []*genai.Candidate, usage *genai.GenerateContentResponseUsageMetadata) (*llms.ContentResponse, error) {
	var out llms.ContentResponse
	for _, candidate := range candidates {
		var buf strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text == "" {
					return nil, errors.Wrap(ErrUnknownPartInResponse, "not text")
				}
				buf.WriteString(part.Text)
			}
		}

		metadata := map[string]any{
			CITATIONS: candidate.CitationMetadata,
			SAFETY:    candidate.SafetyRatings,
		}
		if usage != nil {
			metadata["InputTokens"] = usage.PromptTokenCount
			metadata["CacheReadTokens"] = usage.CachedContentTokenCount
			metadata["OutputTokens"] = usage.CandidatesTokenCount + usage.ThoughtsTokenCount
			metadata["TotalTokens"] = usage.TotalTokenCount
		}

		out.Choices = append(out.Choices, &llms.ContentChoice{
			Content:        buf.String(),
			StopReason:     string(candidate.FinishReason),
			GenerationInfo: metadata,
		})
	}
	return &out, nil
}

// toGenaiContent converts a generic message to genai content.
func toGenaiContent(message llms.Message) (*genai.Content, error) {
	c := &genai.Content{
		Parts: make([]*genai.Part, 0, len(message.Parts)),
	}

	switch message.Role {
	case llms.RoleSystem:
		c.Role = RoleSystem
	case llms.RoleAI:
		c.Role = RoleModel
	case llms.RoleHuman, llms.RoleGeneric:
		c.Role = RoleUser
	default:
		return nil, errors.Errorf("role %v not supported", message.Role)
	}

	for _, part := range message.Parts {
		out := new(genai.Part)
		switch p := part.(type) {
		case llms.TextContent:
			out.Text = p.Text
		case llms.BinaryContent:
			out.InlineData = &genai.Blob{MIMEType: p.MIMEType, Data: p.Data}
		case llms.ImageURLContent:
			out.FileData = &genai.FileData{FileURI: p.URL}
		default:
			return nil, errors.Errorf("unsupported content part type %T", part)
		}
		c.Parts = append(c.Parts, out)
	}
	return c, nil
}
