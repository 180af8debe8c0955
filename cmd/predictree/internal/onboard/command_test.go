package onboard

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/predictree/pkg/config"
)

func TestNewOnboardCommand(t *testing.T) {
	cmd := NewOnboardCommand()

	require.NotNil(t, cmd)
	assert.Equal(t, "onboard", cmd.Use)
	assert.Equal(t, []string{"init"}, cmd.Aliases)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestOnboard(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg", "config.json")

	var out bytes.Buffer
	require.NoError(t, onboard(&out, path, false))
	assert.Contains(t, out.String(), path)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	assert.ErrorContains(t, onboard(&out, path, false), "already exists")

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))
	require.NoError(t, onboard(&out, path, true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"max_breadth": 2`)
}
