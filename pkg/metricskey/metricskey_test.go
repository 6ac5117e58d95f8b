package metricskey

import (
	"testing"

	"github.com/effective-security/metrics"
	"github.com/stretchr/testify/assert"
)

func TestMetricsDefinitions(t *testing.T) {
	all := Metrics()
	assert.Equal(t, 8, len(all))

	seen := make(map[string]bool)
	for _, m := range all {
		assert.NotEmpty(t, m.Name, "Metric name should not be empty")
		assert.NotEmpty(t, m.Help, "Metric help text should not be empty")
		assert.NotEmpty(t, m.RequiredTags, "Metric should have required tags")
		assert.False(t, seen[m.Name], "Metric name should be unique: %s", m.Name)
		seen[m.Name] = true
	}

	t.Run("LLM metrics have provider and model tags", func(t *testing.T) {
		llmMetrics := []*metrics.Describe{
			&StatsLLMMessagesSent,
			&StatsLLMBytesSent,
			&StatsLLMBytesReceived,
			&StatsLLMInputTokens,
			&StatsLLMOutputTokens,
			&StatsLLMTotalTokens,
		}
		for _, m := range llmMetrics {
			assert.Contains(t, m.RequiredTags, "provider", "LLM metric should have provider tag: %s", m.Name)
			assert.Contains(t, m.RequiredTags, "model", "LLM metric should have model tag: %s", m.Name)
		}
	})

	t.Run("chat metrics have provider tag", func(t *testing.T) {
		chatMetrics := []*metrics.Describe{
			&StatsChatCallsSucceeded,
			&StatsChatCallsFailed,
		}
		for _, m := range chatMetrics {
			assert.Contains(t, m.RequiredTags, "provider", "chat metric should have provider tag: %s", m.Name)
		}
	})
}
