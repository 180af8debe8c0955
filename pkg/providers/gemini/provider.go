// Package geminiprovider talks to the Gemini API through google.golang.org/genai.
package geminiprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/tinyland-inc/predictree/pkg/providers/protocoltypes"
)

type (
	LLMResponse = protocoltypes.LLMResponse
	UsageInfo   = protocoltypes.UsageInfo
	Message     = protocoltypes.Message
	Options     = protocoltypes.Options
)

const defaultModel = "gemini-2.5-flash"

type Provider struct {
	client *genai.Client
}

// NewProvider creates a Gemini API client. apiBase overrides the endpoint
// and is mostly useful for tests and proxies.
func NewProvider(ctx context.Context, apiKey, apiBase string) (*Provider, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(apiBase); base != "" {
		cfg.HTTPOptions.BaseURL = base
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Provider{client: client}, nil
}

func (p *Provider) Chat(ctx context.Context, messages []Message, model string, opts Options) (*LLMResponse, error) {
	if model == "" {
		model = p.GetDefaultModel()
	}
	cfg, contents := convMessages(messages, opts)
	if len(contents) == 0 {
		return nil, errors.New("gemini: no contents")
	}
	resp, err := p.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini API call: %w", err)
	}
	return parseResponse(resp)
}

func (p *Provider) GetDefaultModel() string {
	return defaultModel
}

// convMessages splits system turns into the system instruction and merges
// consecutive turns of the same role into one content.
func convMessages(messages []Message, opts Options) (*genai.GenerateContentConfig, []*genai.Content) {
	cfg := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*opts.Temperature))
	}

	var (
		system   []*genai.Part
		contents []*genai.Content
	)
	for _, msg := range messages {
		var role genai.Role
		switch msg.Role {
		case protocoltypes.RoleSystem:
			system = append(system, genai.NewPartFromText(msg.Content))
			continue
		case protocoltypes.RoleUser:
			role = genai.RoleUser
		case protocoltypes.RoleAssistant:
			role = genai.RoleModel
		default:
			continue
		}
		if n := len(contents); n > 0 && contents[n-1].Role == string(role) {
			contents[n-1].Parts = append(contents[n-1].Parts, genai.NewPartFromText(msg.Content))
			continue
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: system}
	}
	return cfg, contents
}

func parseResponse(resp *genai.GenerateContentResponse) (*LLMResponse, error) {
	if len(resp.Candidates) == 0 {
		return nil, errors.New("gemini: no candidates")
	}
	c := resp.Candidates[0]

	var sb strings.Builder
	if c.Content != nil {
		for _, part := range c.Content.Parts {
			if part.Text != "" && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
	}

	out := &LLMResponse{
		Content:      sb.String(),
		FinishReason: finishReason(c.FinishReason),
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &UsageInfo{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func finishReason(r genai.FinishReason) string {
	switch r {
	case genai.FinishReasonMaxTokens:
		return "length"
	case genai.FinishReasonStop, genai.FinishReasonUnspecified, "":
		return "stop"
	default:
		return strings.ToLower(string(r))
	}
}
