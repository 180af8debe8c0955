package providers

import (
	"context"

	"github.com/tinyland-inc/predictree/pkg/providers/protocoltypes"
)

type (
	Message     = protocoltypes.Message
	LLMResponse = protocoltypes.LLMResponse
	UsageInfo   = protocoltypes.UsageInfo
	Options     = protocoltypes.Options
)

// LLMProvider is a chat completion backend.
type LLMProvider interface {
	Chat(ctx context.Context, messages []Message, model string, opts Options) (*LLMResponse, error)
	GetDefaultModel() string
}
