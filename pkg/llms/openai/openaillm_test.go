package openai

import (
	"os"
	"testing"

	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New(t *testing.T) {
	t.Setenv(tokenEnvVarName, "placeholder")
	require.NoError(t, os.Unsetenv(tokenEnvVarName))

	_, err := New(WithModel("gpt-5-mini"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingToken)

	llm, err := New(
		WithToken("sk-test"),
		WithModel("gpt-5-mini"),
	)
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-mini", llm.GetName())
	assert.Equal(t, llms.ProviderOpenAI, llm.GetProviderType())
}

func Test_New_DefaultModel(t *testing.T) {
	t.Setenv(modelEnvVarName, "placeholder")
	require.NoError(t, os.Unsetenv(modelEnvVarName))

	llm, err := New(WithToken("sk-test"))
	require.NoError(t, err)
	assert.Equal(t, DefaultChatModel, llm.GetName())
}

func Test_New_Ollama(t *testing.T) {
	t.Setenv(tokenEnvVarName, "placeholder")
	require.NoError(t, os.Unsetenv(tokenEnvVarName))

	// Ollama does not require a token
	llm, err := New(
		WithProvider(llms.ProviderOllama),
		WithBaseURL(OllamaBaseURL),
		WithModel("llama3.2"),
	)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderOllama, llm.GetProviderType())
}

func Test_New_Azure(t *testing.T) {
	_, err := New(
		WithToken("azure-key"),
		WithProvider(llms.ProviderAzure),
		WithModel("gpt-5-mini"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL is required for Azure")

	llm, err := New(
		WithToken("azure-key"),
		WithProvider(llms.ProviderAzure),
		WithModel("gpt-5-mini"),
		WithBaseURL("https://example.openai.azure.com"),
		WithAPIVersion("2025-03-01-preview"),
	)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderAzure, llm.GetProviderType())
}

func Test_ProcessMessages(t *testing.T) {
	messages := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "Be terse."),
		llms.MessageFromTextParts(llms.RoleHuman, "Hello"),
		llms.MessageFromTextParts(llms.RoleAI, "Hi!"),
	}

	chatMsgs, err := processMessages(messages)
	require.NoError(t, err)
	require.Equal(t, 3, len(chatMsgs))
	assert.NotNil(t, chatMsgs[0].OfSystem)
	assert.NotNil(t, chatMsgs[1].OfUser)
	assert.NotNil(t, chatMsgs[2].OfAssistant)
}

func Test_ProcessMessages_Unsupported(t *testing.T) {
	messages := []llms.Message{
		{Role: llms.Role("tool"), Parts: []llms.ContentPart{llms.TextPart("x")}},
	}
	_, err := processMessages(messages)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedMessageType)
}
