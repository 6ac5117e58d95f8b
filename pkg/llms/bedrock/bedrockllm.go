// Package bedrock adapts AWS Bedrock hosted models to the llms.Model
// interface.
package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/nexusllm/pkg/llms/bedrock/internal/bedrockclient"
)

const defaultModel = "anthropic.claude-3-5-sonnet-20241022-v2:0"

// LLM invokes a Bedrock hosted model.
type LLM struct {
	modelID string
	client  *bedrockclient.Client
}

var _ llms.Model = (*LLM)(nil)

// New creates a Bedrock client. Without WithClient the AWS runtime
// client is built from the default config chain.
func New(opts ...Option) (*LLM, error) {
	o := &options{
		modelID: defaultModel,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		cfg, err := config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, errors.Wrap(err, "bedrock: failed to load AWS config")
		}
		o.client = bedrockruntime.NewFromConfig(cfg)
	}

	return &LLM{
		modelID: o.modelID,
		client:  bedrockclient.NewClient(o.client),
	}, nil
}

// GetName implements the Model interface.
func (l *LLM) GetName() string {
	return l.modelID
}

// GetProviderType implements the Model interface.
func (l *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderBedrock
}

// GenerateContent implements llms.Model.
func (l *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: l.modelID,
	}
	for _, opt := range options {
		opt(&opts)
	}

	flat, err := flattenParts(messages)
	if err != nil {
		return nil, err
	}
	return l.client.CreateCompletion(ctx, opts.Model, flat, opts)
}

// flattenParts turns each content part into one provider message,
// keeping the role of the containing message.
func flattenParts(messages []llms.Message) ([]bedrockclient.Message, error) {
	flat := make([]bedrockclient.Message, 0, len(messages))
	for _, m := range messages {
		for _, part := range m.Parts {
			switch p := part.(type) {
			case llms.TextContent:
				flat = append(flat, bedrockclient.Message{
					Role:    m.Role,
					Content: p.Text,
					Type:    "text",
				})
			case llms.BinaryContent:
				flat = append(flat, bedrockclient.Message{
					Role:     m.Role,
					Content:  string(p.Data),
					MimeType: p.MIMEType,
					Type:     "image",
				})
			default:
				return nil, errors.Errorf("bedrock: unsupported message part type: %T", part)
			}
		}
	}
	return flat, nil
}
