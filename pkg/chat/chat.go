// Package chat provides a uniform calling facade over configured LLM
// providers: plain text, schema-guided structured output, and raw
// passthrough, with optional chat history and call metrics.
package chat

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/chatmodel"
	"github.com/effective-security/nexusllm/pkg/encoding"
	"github.com/effective-security/nexusllm/pkg/llmfactory"
	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/llmutils"
	"github.com/effective-security/nexusllm/pkg/metricskey"
	"github.com/effective-security/nexusllm/pkg/prompts"
	"github.com/effective-security/nexusllm/pkg/store"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/nexusllm", "chat")

// Client wraps a single resolved model with message assembly,
// optional history and call metrics.
type Client struct {
	llm         llms.Model
	store       store.MessageStore
	callOptions []llms.CallOption
}

// Option configures a Client.
type Option func(*Client)

// WithStore sets the message store used to build and persist chat history.
func WithStore(s store.MessageStore) Option {
	return func(c *Client) {
		c.store = s
	}
}

// WithCallOptions sets default call options applied to every call.
func WithCallOptions(opts ...llms.CallOption) Option {
	return func(c *Client) {
		c.callOptions = opts
	}
}

// New creates a Client over an already constructed model.
func New(llm llms.Model, ops ...Option) *Client {
	c := &Client{
		llm: llm,
	}
	for _, op := range ops {
		op(c)
	}
	return c
}

// NewFromConfig creates a Client for the named provider in the configuration.
func NewFromConfig(cfg *llmfactory.Config, name string, ops ...Option) (*Client, error) {
	llm, err := llmfactory.New(cfg).CreateClient(name)
	if err != nil {
		return nil, err
	}
	return New(llm, ops...), nil
}

// Model returns the underlying model.
func (c *Client) Model() llms.Model {
	return c.llm
}

// Request describes one chat call.
type Request struct {
	// SystemPrompt is a Go text/template rendered with Variables.
	SystemPrompt string
	// HumanTemplate, when set, is rendered with Variables to produce the
	// user message; otherwise Input is sent verbatim.
	HumanTemplate string
	// Input is the raw user input.
	Input string
	// Variables are the template inputs.
	Variables map[string]any
	// Examples are few-shot prompt and completion pairs inserted after the
	// system message.
	Examples chatmodel.FewShotExamples
	// Messages are extra messages appended after the user message.
	Messages []llms.Message
	// Format selects the reply encoding for structured calls.
	// Empty means JSON schema.
	Format encoding.Mode
	// Options are per-call options.
	Options []llms.CallOption
}

func variableNames(values map[string]any) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	return names
}

// buildMessages assembles the message history for a request:
// system prompt, few-shot examples, persisted history, then the user message.
// It returns the full history and the user message persisted after a
// successful exchange.
func (c *Client) buildMessages(ctx context.Context, req *Request, extraSystem string) ([]llms.Message, *llms.Message, error) {
	var messages []llms.Message

	if req.SystemPrompt != "" {
		tpl := prompts.NewSystemMessagePromptTemplate(req.SystemPrompt, variableNames(req.Variables))
		rendered, err := tpl.FormatMessages(req.Variables)
		if err != nil {
			return nil, nil, errors.WithMessage(err, "failed to format system prompt")
		}
		if extraSystem != "" {
			content := strings.TrimRight(rendered[0].GetContent(), "\n")
			rendered = []llms.Message{
				llms.MessageFromTextParts(llms.RoleSystem, content+"\n\n# OUTPUT SCHEMA\n"+extraSystem),
			}
		}
		messages = append(messages, rendered...)
	} else if extraSystem != "" {
		messages = append(messages, llms.MessageFromTextParts(llms.RoleSystem, "# OUTPUT SCHEMA\n"+extraSystem))
	}

	for _, example := range req.Examples {
		messages = append(messages,
			llms.MessageFromTextParts(llms.RoleHuman, example.Prompt),
			llms.MessageFromTextParts(llms.RoleAI, example.Completion))
	}

	if c.store != nil {
		prevMessages := c.store.Messages(ctx)
		logger.ContextKV(ctx, xlog.DEBUG,
			"chat_id", chatmodel.GetChatID(ctx),
			"message_history", len(prevMessages))
		messages = append(messages, prevMessages...)
	}

	var userMessage *llms.Message
	if req.HumanTemplate != "" {
		tpl := prompts.NewHumanMessagePromptTemplate(req.HumanTemplate, variableNames(req.Variables))
		rendered, err := tpl.FormatMessages(req.Variables)
		if err != nil {
			return nil, nil, errors.WithMessage(err, "failed to format user message")
		}
		userMessage = &rendered[0]
	} else if req.Input != "" {
		msg := llms.MessageFromTextParts(llms.RoleHuman, req.Input)
		userMessage = &msg
	}
	if userMessage != nil {
		messages = append(messages, *userMessage)
	}

	if len(req.Messages) > 0 {
		messages = append(messages, req.Messages...)
	}

	return messages, userMessage, nil
}

// call sends the messages to the model, recording call metrics.
// Model failures surface unchanged, wrapped with provider context only.
func (c *Client) call(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	provider := string(c.llm.GetProviderType())
	modelName := c.llm.GetName()

	callOpts := append(append([]llms.CallOption{}, c.callOptions...), options...)

	bytesSent := llmutils.CountMessagesContentSize(messages)
	metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(messages)), provider, modelName)
	metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), provider, modelName)

	resp, err := c.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		metricskey.StatsChatCallsFailed.IncrCounter(1, provider)
		return nil, errors.WithMessagef(err, "provider %s", provider)
	}

	bytesReceived := llmutils.CountResponseContentSize(resp)
	metricskey.StatsLLMBytesReceived.IncrCounter(float64(bytesReceived), provider, modelName)

	tokensIn, tokensOut, tokensTotal := llmutils.CountTokens(resp)
	metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), provider, modelName)
	metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), provider, modelName)
	metricskey.StatsLLMTotalTokens.IncrCounter(float64(tokensTotal), provider, modelName)
	metricskey.StatsChatCallsSucceeded.IncrCounter(1, provider)

	return resp, nil
}

// persistExchange appends the user message and the model reply to the store.
func (c *Client) persistExchange(ctx context.Context, userMessage *llms.Message, reply string) {
	if c.store == nil || userMessage == nil {
		return
	}
	err := c.store.Add(ctx, *userMessage, llms.MessageFromTextParts(llms.RoleAI, reply))
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "failed_to_store_messages",
			"err", err.Error())
		return
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"chat_id", chatmodel.GetChatID(ctx),
		"status", "added_message_history",
		"human", slices.StringUpto(userMessage.GetContent(), 64),
		"ai", slices.StringUpto(reply, 64))
}

// GenerateText assembles the messages for the request and returns the
// textual reply of the model.
func (c *Client) GenerateText(ctx context.Context, req *Request) (string, error) {
	messages, userMessage, err := c.buildMessages(ctx, req, "")
	if err != nil {
		return "", err
	}

	resp, err := c.call(ctx, messages, req.Options...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}

	result := resp.Choices[0].Content
	c.persistExchange(ctx, userMessage, result)
	return result, nil
}

// Invoke sends the messages to the model as is and returns the response
// unmodified.
func (c *Client) Invoke(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return c.call(ctx, messages, options...)
}
