// Package bedrockclient routes completion requests to the
// model family behind a Bedrock model ID.
package bedrockclient

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/llms"
)

// Client wraps the Bedrock runtime client.
type Client struct {
	client *bedrockruntime.Client
}

// NewClient creates a new Bedrock client.
func NewClient(client *bedrockruntime.Client) *Client {
	return &Client{
		client: client,
	}
}

// Message is one chunk of content to send, already flattened from the
// generic message parts. Type is "text" or "image".
type Message struct {
	Role     llms.Role
	Content  string
	Type     string
	MimeType string
}

// getProvider extracts the model family from a Bedrock model ID.
// Inference profile IDs carry a two letter region prefix, as in
// "us.anthropic.claude-3-5-sonnet-20241022-v2:0".
func getProvider(modelID string) string {
	parts := strings.Split(modelID, ".")
	if len(parts) >= 2 && len(parts[0]) == 2 && strings.ToLower(parts[0]) == parts[0] {
		return parts[1]
	}
	return parts[0]
}

// CreateCompletion sends the messages to the model and returns the
// completion response.
func (c *Client) CreateCompletion(ctx context.Context,
	modelID string,
	messages []Message,
	options llms.CallOptions,
) (*llms.ContentResponse, error) {
	provider := getProvider(modelID)
	switch provider {
	case "anthropic":
		return c.createAnthropicCompletion(ctx, modelID, messages, options)
	default:
		return nil, errors.Errorf("bedrock: unsupported provider %q", provider)
	}
}

func getMaxTokens(maxTokens, defaultValue int) int {
	if maxTokens <= 0 {
		return defaultValue
	}
	return maxTokens
}
