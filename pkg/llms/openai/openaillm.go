package openai

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/schema"
	"github.com/effective-security/x/values"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

var (
	ErrEmptyResponse          = errors.New("openai: no response")
	ErrMissingToken           = errors.New("openai: missing API key, set it in the OPENAI_API_KEY environment variable")
	ErrUnsupportedMessageType = errors.New("openai: unsupported message type")
)

// LLM is an OpenAI chat completions client.
// It also serves OpenAI compatible providers such as Azure OpenAI,
// Groq, Ollama and Perplexity.
type LLM struct {
	client openai.Client
	opts   *options
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI LLM.
func New(opts ...Option) (*LLM, error) {
	options := &options{
		token:        os.Getenv(tokenEnvVarName),
		model:        values.StringsCoalesce(os.Getenv(modelEnvVarName), DefaultChatModel),
		baseURL:      os.Getenv(baseURLEnvVarName),
		organization: os.Getenv(organizationEnvVarName),
		provider:     llms.ProviderOpenAI,
		apiVersion:   DefaultAPIVersion,
	}

	for _, opt := range opts {
		opt(options)
	}

	// Ollama runs locally and does not require a token.
	if len(options.token) == 0 && options.provider != llms.ProviderOllama {
		return nil, ErrMissingToken
	}

	sdkOpts := []option.RequestOption{}

	switch options.provider {
	case llms.ProviderAzure:
		if options.baseURL == "" {
			return nil, errors.New("openai: base URL is required for Azure")
		}
		sdkOpts = append(sdkOpts,
			azure.WithEndpoint(options.baseURL, options.apiVersion),
			option.WithAPIKey(options.token),
		)
	case llms.ProviderAzureAD:
		if options.baseURL == "" {
			return nil, errors.New("openai: base URL is required for Azure")
		}
		sdkOpts = append(sdkOpts,
			azure.WithEndpoint(options.baseURL, options.apiVersion),
			option.WithHeader("Authorization", "Bearer "+options.token),
		)
	default:
		sdkOpts = append(sdkOpts, option.WithAPIKey(options.token))
		if options.baseURL != "" {
			sdkOpts = append(sdkOpts, option.WithBaseURL(strings.TrimSuffix(options.baseURL, "/")))
		}
	}

	if options.organization != "" {
		sdkOpts = append(sdkOpts, option.WithOrganization(options.organization))
	}
	if options.httpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(options.httpClient))
	}

	return &LLM{
		client: openai.NewClient(sdkOpts...),
		opts:   options,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.opts.model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return o.opts.provider
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: o.opts.model,
	}
	for _, opt := range options {
		opt(&opts)
	}

	chatMsgs, err := processMessages(messages)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(opts.Model),
		Messages: chatMsgs,
	}

	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(opts.TopP)
	}
	if opts.Seed > 0 {
		params.Seed = openai.Int(int64(opts.Seed))
	}
	if opts.N > 0 {
		params.N = openai.Int(int64(opts.N))
	}
	if len(opts.StopWords) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: opts.StopWords,
		}
	}

	if opts.ResponseFormat != nil {
		params.ResponseFormat = toResponseFormat(opts.ResponseFormat)
	}

	if opts.StreamingFunc != nil {
		return o.generateStreamingContent(ctx, params, opts.StreamingFunc)
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "openai: failed to create chat completion")
	}
	if len(completion.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choices := make([]*llms.ContentChoice, len(completion.Choices))
	for i, c := range completion.Choices {
		choices[i] = &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
			GenerationInfo: map[string]any{
				"InputTokens":  completion.Usage.PromptTokens,
				"OutputTokens": completion.Usage.CompletionTokens,
				"TotalTokens":  completion.Usage.TotalTokens,
				"ID":           completion.ID,
				"Index":        i,
			},
		}
	}

	return &llms.ContentResponse{
		Choices: choices,
	}, nil
}

func (o *LLM) generateStreamingContent(ctx context.Context, params openai.ChatCompletionNewParams, streamingFunc func(context.Context, []byte) error) (*llms.ContentResponse, error) {
	stream := o.client.Chat.Completions.NewStreaming(ctx, params)
	defer func() {
		_ = stream.Close()
	}()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if err := streamingFunc(ctx, []byte(chunk.Choices[0].Delta.Content)); err != nil {
				return nil, errors.Wrap(err, "openai: streaming function error")
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, errors.Wrap(err, "openai: streaming error")
	}
	if len(acc.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content:    acc.Choices[0].Message.Content,
				StopReason: string(acc.Choices[0].FinishReason),
				GenerationInfo: map[string]any{
					"InputTokens":  acc.Usage.PromptTokens,
					"OutputTokens": acc.Usage.CompletionTokens,
					"TotalTokens":  acc.Usage.TotalTokens,
				},
			},
		},
	}, nil
}

func processMessages(messages []llms.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	chatMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, mc := range messages {
		switch mc.Role {
		case llms.RoleSystem:
			chatMsgs = append(chatMsgs, openai.SystemMessage(mc.GetContent()))
		case llms.RoleAI:
			chatMsgs = append(chatMsgs, openai.AssistantMessage(mc.GetContent()))
		case llms.RoleHuman, llms.RoleGeneric:
			parts, err := toUserContentParts(mc.Parts)
			if err != nil {
				return nil, err
			}
			chatMsgs = append(chatMsgs, openai.UserMessage(parts))
		default:
			return nil, errors.WithMessagef(ErrUnsupportedMessageType, "openai: %v", mc.Role)
		}
	}
	return chatMsgs, nil
}

func toUserContentParts(parts []llms.ContentPart) ([]openai.ChatCompletionContentPartUnionParam, error) {
	converted := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, part := range parts {
		switch p := part.(type) {
		case llms.TextContent:
			converted = append(converted, openai.TextContentPart(p.Text))
		case llms.ImageURLContent:
			img := openai.ChatCompletionContentPartImageImageURLParam{
				URL: p.URL,
			}
			if p.Detail != "" {
				img.Detail = p.Detail
			}
			converted = append(converted, openai.ImageContentPart(img))
		case llms.BinaryContent:
			converted = append(converted, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: p.String(),
			}))
		default:
			return nil, errors.Errorf("openai: unsupported content part type %T", part)
		}
	}
	return converted, nil
}

func toResponseFormat(rf *schema.ResponseFormat) openai.ChatCompletionNewParamsResponseFormatUnion {
	switch {
	case rf.JSONSchema != nil:
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   rf.JSONSchema.Name,
					Strict: openai.Bool(rf.JSONSchema.Strict),
					Schema: rf.JSONSchema.Schema,
				},
			},
		}
	case rf.Type == "json_object":
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	default:
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfText: &shared.ResponseFormatTextParam{},
		}
	}
}
