package gpt

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	Client  openai.Client
	ModelID string
}

type Options struct {
	BaseURL    string
	MaxRetries int
}

func NewClient(apiKey string, model string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model ID is required")
	}

	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(opts.BaseURL))
	}

	return &Client{
		Client:  openai.NewClient(requestOptions...),
		ModelID: model,
	}, nil
}
