package serve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	require.NotNil(t, cmd)

	assert.Equal(t, "serve", cmd.Use)
	assert.Equal(t, []string{"s"}, cmd.Aliases)
	assert.Nil(t, cmd.Run)
	assert.NotNil(t, cmd.RunE)

	assert.NotNil(t, cmd.Flags().Lookup("debug"))
	assert.NotNil(t, cmd.Flags().Lookup("addr"))
	assert.Error(t, cmd.Args(cmd, []string{"extra"}))
}
