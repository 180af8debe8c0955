package providers

import (
	"context"
	"fmt"

	"github.com/tinyland-inc/predictree/pkg/config"
	anthropicprovider "github.com/tinyland-inc/predictree/pkg/providers/anthropic"
	geminiprovider "github.com/tinyland-inc/predictree/pkg/providers/gemini"
	openaiprovider "github.com/tinyland-inc/predictree/pkg/providers/openai"
)

// CreateProvider builds the backend named by cfg.Generator.Provider.
func CreateProvider(ctx context.Context, cfg *config.Config) (LLMProvider, error) {
	pc := cfg.SelectedProvider()

	switch cfg.Generator.Provider {
	case config.ProviderAnthropic:
		if pc.APIKey == "" {
			return nil, fmt.Errorf("no API key configured for anthropic")
		}
		return anthropicprovider.NewProviderWithBaseURL(pc.APIKey, pc.APIBase), nil
	case config.ProviderOpenAI:
		if pc.APIKey == "" && pc.APIBase == "" {
			return nil, fmt.Errorf("no API key configured for openai")
		}
		return openaiprovider.NewProvider(pc.APIKey, pc.APIBase), nil
	case config.ProviderGemini:
		if pc.APIKey == "" {
			return nil, fmt.Errorf("no API key configured for gemini")
		}
		return geminiprovider.NewProvider(ctx, pc.APIKey, pc.APIBase)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Generator.Provider)
	}
}
