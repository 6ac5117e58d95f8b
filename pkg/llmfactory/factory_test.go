package llmfactory_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/llmfactory"
	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	name string
}

func (m *fakeModel) GetName() string {
	return m.name
}

func (m *fakeModel) GetProviderType() llms.ProviderType {
	return llms.ProviderOpenAI
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "fake"}},
	}, nil
}

func Test_Factory_CreateClient(t *testing.T) {
	f, err := llmfactory.Load("testdata/llm.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "main"}, f.ProviderNames())

	model, err := f.CreateClient("main")
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-mini", model.GetName())
	assert.Equal(t, llms.ProviderOpenAI, model.GetProviderType())

	model, err = f.CreateClient("claude")
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", model.GetName())
	assert.Equal(t, llms.ProviderAnthropic, model.GetProviderType())

	// every call constructs a fresh client
	model2, err := f.CreateClient("claude")
	require.NoError(t, err)
	assert.NotSame(t, model, model2)
}

func Test_Factory_CreateClient_Unknown(t *testing.T) {
	f, err := llmfactory.Load("testdata/llm.yaml")
	require.NoError(t, err)

	_, err = f.CreateClient("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llmfactory.ErrUnknownProvider))
	assert.Contains(t, err.Error(), `provider "missing" is not configured, available: claude, main`)
}

func Test_Factory_CreateClient_Override(t *testing.T) {
	orig := llmfactory.NewLLM
	t.Cleanup(func() {
		llmfactory.NewLLM = orig
	})
	llmfactory.NewLLM = func(cfg *llmfactory.ProviderConfig) (llms.Model, error) {
		return &fakeModel{name: cfg.Params.String("model")}, nil
	}

	f, err := llmfactory.Load("testdata/llm.yaml")
	require.NoError(t, err)

	model, err := f.CreateClient("main")
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-mini", model.GetName())

	resp, err := model.GenerateContent(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, len(resp.Choices))
	assert.Equal(t, "fake", resp.Choices[0].Content)
}

func Test_CreateLLM_UnknownType(t *testing.T) {
	_, err := llmfactory.CreateLLM(&llmfactory.ProviderConfig{
		Type: "mistral",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llmfactory.ErrConfiguration))
	assert.Contains(t, err.Error(),
		`unsupported provider type "mistral", valid types: anthropic, azure, bedrock, google, groq, ollama, openai, perplexity`)
}

func Test_CreateLLM_TypeCaseInsensitive(t *testing.T) {
	model, err := llmfactory.CreateLLM(&llmfactory.ProviderConfig{
		Type: "Anthropic",
		Params: llmfactory.Params{
			"model":   "claude-sonnet-4-5",
			"api_key": "sk-ant-test-key",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderAnthropic, model.GetProviderType())
}

func Test_CreateLLM_BuildFailure(t *testing.T) {
	// anthropic requires a model name
	_, err := llmfactory.CreateLLM(&llmfactory.ProviderConfig{
		Type: "anthropic",
		Params: llmfactory.Params{
			"api_key": "sk-ant-test-key",
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llmfactory.ErrResolution))
}

func Test_CreateLLM_ClassPath(t *testing.T) {
	llmfactory.Register("example.com/custom.Model", func(params llmfactory.Params) (llms.Model, error) {
		return &fakeModel{name: params.String("model")}, nil
	})

	model, err := llmfactory.CreateLLM(&llmfactory.ProviderConfig{
		ClassPath: "example.com/custom.Model",
		Params: llmfactory.Params{
			"model": "custom-1",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "custom-1", model.GetName())
}

func Test_CreateLLM_ClassPath_NotRegistered(t *testing.T) {
	_, err := llmfactory.CreateLLM(&llmfactory.ProviderConfig{
		ClassPath: "example.com/unknown.Model",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llmfactory.ErrResolution))
	assert.Contains(t, err.Error(), `class path "example.com/unknown.Model" is not registered`)
}

func Test_CreateLLM_ClassPath_BuildFailure(t *testing.T) {
	llmfactory.Register("example.com/failing.Model", func(params llmfactory.Params) (llms.Model, error) {
		return nil, errors.New("boom")
	})

	_, err := llmfactory.CreateLLM(&llmfactory.ProviderConfig{
		ClassPath: "example.com/failing.Model",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llmfactory.ErrResolution))
	assert.Contains(t, err.Error(), "boom")
}

func Test_CreateLLM_BuiltinClassPaths(t *testing.T) {
	paths := llmfactory.RegisteredClassPaths()
	assert.Contains(t, paths, "github.com/effective-security/nexusllm/pkg/llms/openai")
	assert.Contains(t, paths, "github.com/effective-security/nexusllm/pkg/llms/anthropic")
	assert.Contains(t, paths, "github.com/effective-security/nexusllm/pkg/llms/googleai")
	assert.Contains(t, paths, "github.com/effective-security/nexusllm/pkg/llms/bedrock")
}
