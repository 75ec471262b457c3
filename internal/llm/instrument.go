package llm

import (
	"context"
	"time"
)

// Recorder receives one observation per model invocation.
type Recorder interface {
	ObserveInvocation(provider, mode, status string, durationSeconds float64)
}

type instrumentedClient struct {
	next     Client
	provider string
	recorder Recorder
}

// Instrument wraps client so every call is reported to recorder.
func Instrument(client Client, provider string, recorder Recorder) Client {
	if recorder == nil {
		return client
	}
	return &instrumentedClient{next: client, provider: provider, recorder: recorder}
}

func (c *instrumentedClient) InvokeModel(ctx context.Context, request Request) (*Response, error) {
	start := time.Now()
	resp, err := c.next.InvokeModel(ctx, request)
	c.observe("invoke", start, err)
	return resp, err
}

func (c *instrumentedClient) InvokeModelStream(ctx context.Context, request Request, callback StreamCallback) (*Response, error) {
	start := time.Now()
	resp, err := c.next.InvokeModelStream(ctx, request, callback)
	c.observe("stream", start, err)
	return resp, err
}

func (c *instrumentedClient) observe(mode string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.recorder.ObserveInvocation(c.provider, mode, status, time.Since(start).Seconds())
}
