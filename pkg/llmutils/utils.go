// Package llmutils has helpers for cleaning model replies and for
// accounting message and token sizes.
package llmutils

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/effective-security/nexusllm/pkg/llms"
	"github.com/effective-security/x/values"
)

// CleanJSON cuts the reply down to the outermost JSON value.
// Models often wrap JSON in code fences or chatter, such as
// "Here you go: {...}".
func CleanJSON(bs []byte) []byte {
	start := len(bs)
	if i := bytes.IndexByte(bs, '{'); i >= 0 && i < start {
		start = i
	}
	if i := bytes.IndexByte(bs, '['); i >= 0 && i < start {
		start = i
	}
	if start == len(bs) {
		return bs
	}

	end := bytes.LastIndexByte(bs, '}')
	if i := bytes.LastIndexByte(bs, ']'); i > end {
		end = i
	}
	if end < start {
		return bs
	}
	return bs[start : end+1]
}

var fence = []byte("```")

// BytesTrimBackticks strips a markdown code fence, with an optional
// language tag, from around the payload.
func BytesTrimBackticks(bs []byte) []byte {
	open := bytes.Index(bs, fence)
	if open == -1 {
		return bs
	}
	body := bs[open+len(fence):]

	// skip the language tag line unless the payload starts right away
	for i, c := range body {
		if c == '{' || c == '[' {
			break
		}
		if c == '\n' {
			body = body[i+1:]
			break
		}
	}

	if end := bytes.LastIndex(body, fence); end >= 0 {
		body = body[:end]
	}
	return bytes.TrimSpace(body)
}

// PrintMessages is a debugging helper for chat messages.
func PrintMessages(w io.Writer, msgs []llms.Message) {
	for _, mc := range msgs {
		fmt.Fprintf(w, "%s: ", strings.ToUpper(string(mc.Role)))
		for _, p := range mc.Parts {
			switch pp := p.(type) {
			case llms.TextContent:
				fmt.Fprintln(w, pp.Text)
			case llms.ImageURLContent:
				fmt.Fprintln(w, pp.URL)
			case llms.BinaryContent:
				fmt.Fprintf(w, "BinaryContent MIME=%q, size=%d\n", pp.MIMEType, len(pp.Data))
			}
		}
	}
}

func partSize(p llms.ContentPart) uint64 {
	switch pp := p.(type) {
	case llms.TextContent:
		return uint64(len(pp.Text))
	case llms.ImageURLContent:
		return uint64(len(pp.URL) + len(pp.Detail))
	case llms.BinaryContent:
		return uint64(len(pp.MIMEType) + len(pp.Data))
	}
	return 0
}

// CountMessagesContentSize returns the byte size of the messages,
// roles included.
func CountMessagesContentSize(msgs []llms.Message) uint64 {
	var size uint64
	for _, mc := range msgs {
		size += uint64(len(mc.Role))
		for _, p := range mc.Parts {
			size += partSize(p)
		}
	}
	return size
}

// CountResponseContentSize returns the byte size of the response content.
func CountResponseContentSize(resp *llms.ContentResponse) uint64 {
	var size uint64
	for _, choice := range resp.Choices {
		size += uint64(len(choice.Content))
	}
	return size
}

// CountTokens sums the token usage reported in the response choices.
func CountTokens(resp *llms.ContentResponse) (in, out, total int64) {
	for _, choice := range resp.Choices {
		ma := values.MapAny(choice.GenerationInfo)
		in += ma.Int64("InputTokens")
		out += ma.Int64("OutputTokens")
		total += ma.Int64("TotalTokens")
	}
	return
}
