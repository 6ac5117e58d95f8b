package bedrockclient

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/llms"
)

// The native request shape of Anthropic models on Bedrock:
// https://docs.aws.amazon.com/bedrock/latest/userguide/model-parameters-anthropic-claude-messages.html

const anthropicVersion = "bedrock-2023-05-31"

const (
	AnthropicSystem        = "system"
	AnthropicRoleUser      = "user"
	AnthropicRoleAssistant = "assistant"
)

const (
	anthropicContentText  = "text"
	anthropicContentImage = "image"
)

const (
	anthropicStopEndTurn      = "end_turn"
	anthropicStopMaxTokens    = "max_tokens"
	anthropicStopStopSequence = "stop_sequence"
)

type claudeImageSource struct {
	// Type must be "base64"
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeContent struct {
	Type   string             `json:"type"`
	Text   string             `json:"text,omitempty"`
	Source *claudeImageSource `json:"source,omitempty"`
}

type claudeMessage struct {
	// Role is "user" or "assistant", the system prompt travels
	// in the request body instead
	Role    string          `json:"role"`
	Content []claudeContent `json:"content"`
}

type claudeRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []*claudeMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
	TopP             float64          `json:"top_p,omitempty"`
	TopK             int              `json:"top_k,omitempty"`
	StopSequences    []string         `json:"stop_sequences,omitempty"`
}

type claudeResponse struct {
	Type       string          `json:"type"`
	Role       string          `json:"role"`
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *Client) createAnthropicCompletion(ctx context.Context,
	modelID string,
	messages []Message,
	options llms.CallOptions,
) (*llms.ContentResponse, error) {
	claudeMessages, systemPrompt, err := processInputMessagesAnthropic(messages)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(claudeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        getMaxTokens(options.MaxTokens, 2048),
		System:           systemPrompt,
		Messages:         claudeMessages,
		Temperature:      options.Temperature,
		TopP:             options.TopP,
		TopK:             options.TopK,
		StopSequences:    options.StopWords,
	})
	if err != nil {
		return nil, errors.Wrap(err, "bedrock: failed to encode request")
	}

	if options.StreamingFunc != nil {
		return c.streamAnthropicCompletion(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
			ModelId:     aws.String(modelID),
			Accept:      aws.String("*/*"),
			ContentType: aws.String("application/json"),
			Body:        body,
		}, options)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Accept:      aws.String("*/*"),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, err
	}

	var output claudeResponse
	if err := json.Unmarshal(resp.Body, &output); err != nil {
		return nil, errors.Wrap(err, "bedrock: failed to decode response")
	}
	if len(output.Content) == 0 {
		return nil, errors.New("bedrock: no results")
	}
	if output.StopReason != anthropicStopEndTurn && output.StopReason != anthropicStopStopSequence {
		return nil, errors.Errorf("bedrock: completed due to %s, try increasing max tokens", output.StopReason)
	}

	var text string
	for _, block := range output.Content {
		if block.Type == anthropicContentText {
			text += block.Text
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:    text,
			StopReason: output.StopReason,
			GenerationInfo: map[string]any{
				"InputTokens":  output.Usage.InputTokens,
				"OutputTokens": output.Usage.OutputTokens,
				"TotalTokens":  output.Usage.InputTokens + output.Usage.OutputTokens,
			},
		}},
	}, nil
}

type claudeStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type       string `json:"type"`
		Text       string `json:"text"`
		StopReason string `json:"stop_reason"`
	} `json:"delta"`
	Usage struct {
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Message struct {
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	} `json:"message"`
}

func (c *Client) streamAnthropicCompletion(ctx context.Context, input *bedrockruntime.InvokeModelWithResponseStreamInput, options llms.CallOptions) (*llms.ContentResponse, error) {
	output, err := c.client.InvokeModelWithResponseStream(ctx, input)
	if err != nil {
		return nil, err
	}
	stream := output.GetStream()
	if stream == nil {
		return nil, errors.New("bedrock: no stream")
	}
	defer func() {
		_ = stream.Close()
	}()

	choice := &llms.ContentChoice{GenerationInfo: map[string]any{}}
	for e := range stream.Events() {
		chunk, ok := e.(*types.ResponseStreamMemberChunk)
		if !ok {
			continue
		}
		var event claudeStreamEvent
		if err := json.Unmarshal(chunk.Value.Bytes, &event); err != nil {
			return nil, errors.Wrap(err, "bedrock: failed to decode stream event")
		}

		switch event.Type {
		case "message_start":
			choice.GenerationInfo["InputTokens"] = event.Message.Usage.InputTokens
		case "content_block_delta":
			if err := options.StreamingFunc(ctx, []byte(event.Delta.Text)); err != nil {
				return nil, err
			}
			choice.Content += event.Delta.Text
		case "message_delta":
			choice.StopReason = event.Delta.StopReason
			choice.GenerationInfo["OutputTokens"] = event.Usage.OutputTokens
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{choice},
	}, nil
}

// processInputMessagesAnthropic groups consecutive messages with the
// same role into one request message and pulls out the system prompt.
// The API rejects histories with more than one system block.
func processInputMessagesAnthropic(messages []Message) ([]*claudeMessage, string, error) {
	var out []*claudeMessage
	var systemPrompt string
	seenSystem := false

	for _, m := range messages {
		role, err := anthropicRole(m.Role)
		if err != nil {
			return nil, "", err
		}

		if role == AnthropicSystem {
			if m.Type != anthropicContentText {
				return nil, "", errors.New("system prompt must be text")
			}
			if seenSystem && len(out) > 0 {
				return nil, "", errors.New("multiple system prompts")
			}
			seenSystem = true
			systemPrompt += m.Content
			continue
		}

		content := anthropicContent(m)
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content = append(out[n-1].Content, content)
			continue
		}
		out = append(out, &claudeMessage{
			Role:    role,
			Content: []claudeContent{content},
		})
	}
	return out, systemPrompt, nil
}

func anthropicRole(role llms.Role) (string, error) {
	switch role {
	case llms.RoleSystem:
		return AnthropicSystem, nil
	case llms.RoleAI:
		return AnthropicRoleAssistant, nil
	case llms.RoleGeneric, llms.RoleHuman:
		return AnthropicRoleUser, nil
	default:
		return "", errors.Errorf("bedrock: role %v not supported", role)
	}
}

func anthropicContent(m Message) claudeContent {
	if m.Type == anthropicContentImage {
		return claudeContent{
			Type: anthropicContentImage,
			Source: &claudeImageSource{
				Type:      "base64",
				MediaType: m.MimeType,
				Data:      base64.StdEncoding.EncodeToString([]byte(m.Content)),
			},
		}
	}
	return claudeContent{
		Type: anthropicContentText,
		Text: m.Content,
	}
}
