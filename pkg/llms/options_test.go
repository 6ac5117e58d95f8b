package llms_test

import (
	"testing"

	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/stretchr/testify/assert"
)

func Test_CallOptions(t *testing.T) {
	t.Parallel()

	opts := llms.CallOptions{}
	for _, opt := range []llms.CallOption{
		llms.WithModel("gpt-5-mini"),
		llms.WithMaxTokens(2048),
		llms.WithTemperature(0.7),
		llms.WithTopP(0.9),
		llms.WithTopK(40),
		llms.WithSeed(42),
		llms.WithN(2),
		llms.WithCandidateCount(1),
		llms.WithStopWords([]string{"STOP"}),
	} {
		opt(&opts)
	}

	assert.Equal(t, "gpt-5-mini", opts.Model)
	assert.Equal(t, 2048, opts.MaxTokens)
	assert.Equal(t, 0.7, opts.Temperature)
	assert.Equal(t, 0.9, opts.TopP)
	assert.Equal(t, 40, opts.TopK)
	assert.Equal(t, 42, opts.Seed)
	assert.Equal(t, 2, opts.N)
	assert.Equal(t, 1, opts.CandidateCount)
	assert.Equal(t, []string{"STOP"}, opts.StopWords)
}
