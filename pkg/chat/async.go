package chat

import (
	"context"

	"github.com/effective-security/nexusllm/pkg/llms"
)

// Result carries the outcome of an asynchronous call.
type Result[T any] struct {
	Value T
	Err   error
}

// GenerateTextAsync runs GenerateText in a goroutine and returns a
// single-buffered channel with the result. Cancellation is via ctx.
func (c *Client) GenerateTextAsync(ctx context.Context, req *Request) <-chan Result[string] {
	ch := make(chan Result[string], 1)
	go func() {
		val, err := c.GenerateText(ctx, req)
		ch <- Result[string]{Value: val, Err: err}
	}()
	return ch
}

// GenerateStructuredAsync runs GenerateStructured in a goroutine and
// returns a single-buffered channel with the result.
func GenerateStructuredAsync[T any](ctx context.Context, c *Client, req *Request) <-chan Result[*T] {
	ch := make(chan Result[*T], 1)
	go func() {
		val, err := GenerateStructured[T](ctx, c, req)
		ch <- Result[*T]{Value: val, Err: err}
	}()
	return ch
}

// InvokeAsync runs Invoke in a goroutine and returns a single-buffered
// channel with the result.
func (c *Client) InvokeAsync(ctx context.Context, messages []llms.Message, options ...llms.CallOption) <-chan Result[*llms.ContentResponse] {
	ch := make(chan Result[*llms.ContentResponse], 1)
	go func() {
		val, err := c.Invoke(ctx, messages, options...)
		ch <- Result[*llms.ContentResponse]{Value: val, Err: err}
	}()
	return ch
}
