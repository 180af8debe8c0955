package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/predictree/pkg/config"
	anthropicprovider "github.com/tinyland-inc/predictree/pkg/providers/anthropic"
	geminiprovider "github.com/tinyland-inc/predictree/pkg/providers/gemini"
	openaiprovider "github.com/tinyland-inc/predictree/pkg/providers/openai"
)

func TestCreateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		creds    config.ProviderConfig
		want     any
	}{
		{name: "anthropic", provider: config.ProviderAnthropic, creds: config.ProviderConfig{APIKey: "k"}, want: &anthropicprovider.Provider{}},
		{name: "openai", provider: config.ProviderOpenAI, creds: config.ProviderConfig{APIKey: "k"}, want: &openaiprovider.Provider{}},
		{name: "openai compatible without key", provider: config.ProviderOpenAI, creds: config.ProviderConfig{APIBase: "http://localhost:11434/v1"}, want: &openaiprovider.Provider{}},
		{name: "gemini", provider: config.ProviderGemini, creds: config.ProviderConfig{APIKey: "k"}, want: &geminiprovider.Provider{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Generator.Provider = tt.provider
			cfg.Providers = config.ProvidersConfig{Anthropic: tt.creds, OpenAI: tt.creds, Gemini: tt.creds}

			p, err := CreateProvider(t.Context(), cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
			assert.NotEmpty(t, p.GetDefaultModel())
		})
	}
}

func TestCreateProvider_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	_, err := CreateProvider(t.Context(), cfg)
	assert.ErrorContains(t, err, "no API key")

	cfg.Generator.Provider = "llama"
	_, err = CreateProvider(t.Context(), cfg)
	assert.ErrorIs(t, err, config.ErrUnknownProvider)
}
