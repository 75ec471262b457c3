package llm

import (
	"context"
)

// Client is an interface for invoking LLM models.
// This allows stubbing the backend in tests without making real API calls.
type Client interface {
	InvokeModel(ctx context.Context, request Request) (*Response, error)
	InvokeModelStream(ctx context.Context, request Request, callback StreamCallback) (*Response, error)
}

// StreamCallback receives every text fragment produced by a streamed invocation.
// Returning an error aborts the stream.
type StreamCallback func(chunk string) error
