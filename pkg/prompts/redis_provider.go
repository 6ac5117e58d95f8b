package prompts

import (
	"context"
	"encoding/json"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/chatmodel"
	"github.com/redis/go-redis/v9"
)

// RedisProvider serves prompts from Redis, for deployments that share
// prompt templates across instances.
// The keys namespace is organized as follows:
// - `/<prefix>/prompts/templates/<key>` for prompt templates
// - `/<prefix>/prompts/examples/<key>` for few-shot examples
type RedisProvider struct {
	client *redis.Client
	prefix string
}

var _ Provider = (*RedisProvider)(nil)

// NewRedisProvider creates a provider backed by the given Redis client.
func NewRedisProvider(client *redis.Client, prefix string) *RedisProvider {
	return &RedisProvider{
		client: client,
		prefix: prefix,
	}
}

func (p *RedisProvider) templateKey(key string) string {
	return path.Join(p.prefix, "prompts", "templates", key)
}

func (p *RedisProvider) examplesKey(key string) string {
	return path.Join(p.prefix, "prompts", "examples", key)
}

// Template implements the Provider interface.
func (p *RedisProvider) Template(ctx context.Context, key string) (string, error) {
	val, err := p.client.Get(ctx, p.templateKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errors.WithMessagef(ErrPromptNotFound, "key %q", key)
		}
		return "", errors.Wrapf(err, "failed to read prompt %q", key)
	}
	return val, nil
}

// FewShotExamples implements the Provider interface.
func (p *RedisProvider) FewShotExamples(ctx context.Context, key string) (chatmodel.FewShotExamples, error) {
	val, err := p.client.Get(ctx, p.examplesKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.WithMessagef(ErrPromptNotFound, "key %q", key)
		}
		return nil, errors.Wrapf(err, "failed to read examples %q", key)
	}

	var examples chatmodel.FewShotExamples
	err = json.Unmarshal([]byte(val), &examples)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse examples %q", key)
	}
	return examples, nil
}

// SetTemplate stores a prompt template.
func (p *RedisProvider) SetTemplate(ctx context.Context, key, tpl string) error {
	err := p.client.Set(ctx, p.templateKey(key), tpl, 0).Err()
	if err != nil {
		return errors.Wrapf(err, "failed to store prompt %q", key)
	}
	return nil
}

// SetFewShotExamples stores few-shot examples.
func (p *RedisProvider) SetFewShotExamples(ctx context.Context, key string, examples chatmodel.FewShotExamples) error {
	data, err := json.Marshal(examples)
	if err != nil {
		return errors.Wrap(err, "failed to marshal examples")
	}
	err = p.client.Set(ctx, p.examplesKey(key), data, 0).Err()
	if err != nil {
		return errors.Wrapf(err, "failed to store examples %q", key)
	}
	return nil
}
