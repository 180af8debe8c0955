// Package openaiprovider talks to the OpenAI chat completions API and any
// server that speaks it.
package openaiprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tinyland-inc/predictree/pkg/providers/protocoltypes"
)

type (
	LLMResponse = protocoltypes.LLMResponse
	UsageInfo   = protocoltypes.UsageInfo
	Message     = protocoltypes.Message
	Options     = protocoltypes.Options
)

const defaultModel = "gpt-4o-mini"

type Provider struct {
	client openai.Client
}

// NewProvider returns a provider for apiKey. An empty apiBase uses the
// public endpoint.
func NewProvider(apiKey, apiBase string, opts ...option.RequestOption) *Provider {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if base := strings.TrimSpace(apiBase); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	return &Provider{client: openai.NewClient(append(reqOpts, opts...)...)}
}

func (p *Provider) Chat(ctx context.Context, messages []Message, model string, opts Options) (*LLMResponse, error) {
	if model == "" {
		model = p.GetDefaultModel()
	}
	resp, err := p.client.Chat.Completions.New(ctx, buildParams(messages, model, opts))
	if err != nil {
		return nil, fmt.Errorf("openai API call: %w", err)
	}
	return parseResponse(resp)
}

func (p *Provider) GetDefaultModel() string {
	return defaultModel
}

func buildParams(messages []Message, model string, opts Options) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, msg := range messages {
		switch msg.Role {
		case protocoltypes.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case protocoltypes.RoleUser:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		case protocoltypes.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		}
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	return params
}

func parseResponse(resp *openai.ChatCompletion) (*LLMResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: no choices in response")
	}
	choice := resp.Choices[0]
	return &LLMResponse{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Usage: &UsageInfo{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}
