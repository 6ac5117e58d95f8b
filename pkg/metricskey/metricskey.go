// Package metricskey provides the metric descriptions exposed by this module.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsLLMMessagesSent is base for counter metric for total messages sent to LLM
	StatsLLMMessagesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_messages_sent",
		Help:         "stats_llm_messages_sent provides total messages sent to LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsLLMBytesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_sent",
		Help:         "stats_llm_bytes_sent provides total bytes sent to LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsLLMBytesReceived = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_received",
		Help:         "stats_llm_bytes_received provides total bytes received from LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsLLMInputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_input_tokens",
		Help:         "stats_llm_input_tokens provides total input tokens sent to LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsLLMOutputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_output_tokens",
		Help:         "stats_llm_output_tokens provides total output tokens received from LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsLLMTotalTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_total_tokens",
		Help:         "stats_llm_total_tokens provides total tokens sent and received from LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsChatCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_chat_calls_succeeded",
		Help:         "stats_chat_calls_succeeded provides total chat calls succeeded",
		RequiredTags: []string{"provider"},
	}

	StatsChatCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_chat_calls_failed",
		Help:         "stats_chat_calls_failed provides total chat calls failed",
		RequiredTags: []string{"provider"},
	}
)

// Metrics returns the list of all metrics descriptions in this package.
func Metrics() []*metrics.Describe {
	return []*metrics.Describe{
		&StatsLLMMessagesSent,
		&StatsLLMBytesSent,
		&StatsLLMBytesReceived,
		&StatsLLMInputTokens,
		&StatsLLMOutputTokens,
		&StatsLLMTotalTokens,
		&StatsChatCallsSucceeded,
		&StatsChatCallsFailed,
	}
}
