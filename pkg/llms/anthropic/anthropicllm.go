// Package anthropic adapts the Anthropic Messages API to the llms.Model
// interface.
package anthropic

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/x/values"
)

var (
	ErrEmptyResponse = errors.New("anthropic: no response")
	ErrMissingToken  = errors.New("anthropic: missing API key, set it in the ANTHROPIC_API_KEY environment variable")
)

// DefaultMaxTokens applies when the call does not set a limit,
// the Messages API requires one.
const DefaultMaxTokens = 4096

type LLM struct {
	Client  *anthropic.Client
	Options *Options
}

var _ llms.Model = (*LLM)(nil)

// New creates an Anthropic client. A model is required, the API key
// falls back to the ANTHROPIC_API_KEY environment variable.
func New(opts ...Option) (*LLM, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.Token == "" {
		return nil, ErrMissingToken
	}
	if options.Model == "" {
		return nil, errors.New("anthropic: model is required")
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(options.Token),
		option.WithMaxRetries(2),
		option.WithRequestTimeout(5 * time.Minute),
	}
	if options.BaseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(options.BaseURL))
	}
	if options.HttpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(options.HttpClient))
	}
	if options.AnthropicBetaHeader != "" {
		sdkOpts = append(sdkOpts, option.WithHeader("anthropic-beta", options.AnthropicBetaHeader))
	}

	client := anthropic.NewClient(sdkOpts...)
	return &LLM{
		Client:  &client,
		Options: options,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.Options.Model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderAnthropic
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: o.Options.Model,
	}
	for _, opt := range options {
		opt(&opts)
	}

	sdkMessages, systemPrompt, err := ProcessMessages(messages)
	if err != nil {
		return nil, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(opts.Model),
		Messages:  sdkMessages,
		MaxTokens: values.NumbersCoalesce(int64(opts.MaxTokens), DefaultMaxTokens),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{
			Type: "text",
			Text: systemPrompt,
		}}
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = anthropic.Float(opts.TopP)
	}
	if len(opts.StopWords) > 0 {
		params.StopSequences = opts.StopWords
	}

	if opts.StreamingFunc != nil {
		return o.stream(ctx, params, opts.StreamingFunc)
	}
	return o.generate(ctx, params)
}

func (o *LLM) generate(ctx context.Context, params anthropic.MessageNewParams) (*llms.ContentResponse, error) {
	result, err := o.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "anthropic: failed to create message")
	}
	if len(result.Content) == 0 {
		return nil, ErrEmptyResponse
	}

	usage := result.Usage
	choices := make([]*llms.ContentChoice, 0, len(result.Content))
	for i, block := range result.Content {
		text, ok := block.AsAny().(anthropic.TextBlock)
		if !ok {
			return nil, errors.Errorf("anthropic: unsupported content block %T", block.AsAny())
		}
		choices = append(choices, &llms.ContentChoice{
			Content:    text.Text,
			StopReason: string(result.StopReason),
			GenerationInfo: map[string]any{
				"InputTokens":  usage.InputTokens,
				"OutputTokens": usage.OutputTokens,
				"TotalTokens":  usage.InputTokens + usage.OutputTokens,
				"ID":           result.ID,
				"Index":        i,
			},
		})
	}

	return &llms.ContentResponse{Choices: choices}, nil
}

func (o *LLM) stream(ctx context.Context, params anthropic.MessageNewParams, streamingFunc func(context.Context, []byte) error) (*llms.ContentResponse, error) {
	stream := o.Client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	var content strings.Builder
	var stopReason string
	var inputTokens, outputTokens int64

	for stream.Next() {
		switch evt := stream.Current().AsAny().(type) {
		case anthropic.MessageStartEvent:
			inputTokens = evt.Message.Usage.InputTokens
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := evt.Delta.AsAny().(anthropic.TextDelta); ok {
				content.WriteString(delta.Text)
				if streamingFunc != nil {
					if err := streamingFunc(ctx, []byte(delta.Text)); err != nil {
						return nil, errors.Wrap(err, "anthropic: streaming function error")
					}
				}
			}
		case anthropic.MessageDeltaEvent:
			stopReason = string(evt.Delta.StopReason)
			outputTokens = evt.Usage.OutputTokens
		}
	}
	if err := stream.Err(); err != nil {
		return nil, errors.Wrap(err, "anthropic: streaming error")
	}
	if content.Len() == 0 {
		return nil, ErrEmptyResponse
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:    content.String(),
			StopReason: stopReason,
			GenerationInfo: map[string]any{
				"InputTokens":  inputTokens,
				"OutputTokens": outputTokens,
				"TotalTokens":  inputTokens + outputTokens,
			},
		}},
	}, nil
}

// ProcessMessages splits the message history into SDK message params and
// a combined system prompt. The Messages API takes the system prompt as
// a request field rather than a message.
func ProcessMessages(messages []llms.Message) ([]anthropic.MessageParam, string, error) {
	var system []string
	sdkMessages := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		if len(msg.Parts) == 0 {
			continue
		}
		switch msg.Role {
		case llms.RoleSystem:
			text, ok := msg.Parts[0].(llms.TextContent)
			if !ok {
				return nil, "", errors.Errorf("anthropic: system message must be text, got %T", msg.Parts[0])
			}
			system = append(system, text.Text)
		case llms.RoleHuman:
			blocks, err := convertParts(msg.Parts, true)
			if err != nil {
				return nil, "", err
			}
			sdkMessages = append(sdkMessages, anthropic.NewUserMessage(blocks...))
		case llms.RoleAI, llms.RoleGeneric:
			blocks, err := convertParts(msg.Parts, false)
			if err != nil {
				return nil, "", err
			}
			sdkMessages = append(sdkMessages, anthropic.NewAssistantMessage(blocks...))
		default:
			return nil, "", errors.Errorf("anthropic: unsupported message role %v", msg.Role)
		}
	}
	return sdkMessages, strings.Join(system, "\n"), nil
}

// convertParts maps content parts onto SDK content blocks. Images are
// base64 encoded, and only allowed on user messages.
func convertParts(parts []llms.ContentPart, allowBinary bool) ([]anthropic.ContentBlockParamUnion, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(parts))
	for _, part := range parts {
		switch p := part.(type) {
		case llms.TextContent:
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
		case llms.BinaryContent:
			if !allowBinary || !strings.HasPrefix(p.MIMEType, "image/") {
				return nil, errors.Errorf("anthropic: unsupported binary content type: %s", p.MIMEType)
			}
			data := base64.StdEncoding.EncodeToString(p.Data)
			blocks = append(blocks, anthropic.NewImageBlockBase64(p.MIMEType, data))
		default:
			return nil, errors.Errorf("anthropic: unsupported message part type: %T", part)
		}
	}
	if len(blocks) == 0 {
		return nil, errors.New("anthropic: message has no usable content")
	}
	return blocks, nil
}
