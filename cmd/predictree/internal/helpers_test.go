package internal

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/predictree/pkg/config"
	"github.com/tinyland-inc/predictree/pkg/transport"
)

func TestGetConfigPath(t *testing.T) {
	t.Cleanup(func() { ConfigPath = "" })

	ConfigPath = ""
	assert.True(t, strings.HasSuffix(GetConfigPath(), filepath.Join(".predictree", "config.json")))

	ConfigPath = "/tmp/custom.json"
	assert.Equal(t, "/tmp/custom.json", GetConfigPath())
}

func TestNewController_Transports(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.Anthropic.APIKey = "test"

	c, err := NewController(t.Context(), cfg, nil)
	require.NoError(t, err)
	local, ok := c.Transport.(*transport.Local)
	require.True(t, ok)
	assert.Same(t, c, local.Walker)
	assert.Equal(t, 2, c.Limits.MaxBreadth)

	cfg.Walk.Transport = config.TransportHTTP
	cfg.Walk.SelfURL = "http://127.0.0.1:8787/"
	c, err = NewController(t.Context(), cfg, nil)
	require.NoError(t, err)
	httpT, ok := c.Transport.(*transport.HTTP)
	require.True(t, ok)
	assert.Equal(t, "http://127.0.0.1:8787/", httpT.URL)
}

func TestNewController_MissingKey(t *testing.T) {
	_, err := NewController(t.Context(), config.DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, GetVersion(), FormatVersion())
	_, goVer := FormatBuildInfo()
	assert.NotEmpty(t, goVer)
}
