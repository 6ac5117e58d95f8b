package prompts

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/chatmodel"
)

// ErrPromptNotFound is returned when the requested prompt key does not exist.
var ErrPromptNotFound = errors.New("prompt not found")

// Provider serves prompt templates and few-shot examples by key.
type Provider interface {
	// Template returns the prompt template text for the given key.
	Template(ctx context.Context, key string) (string, error)
	// FewShotExamples returns the few-shot examples for the given key.
	FewShotExamples(ctx context.Context, key string) (chatmodel.FewShotExamples, error)
}
