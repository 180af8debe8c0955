package onboard

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/predictree/cmd/predictree/internal"
	"github.com/tinyland-inc/predictree/pkg/config"
)

func NewOnboardCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "onboard",
		Aliases: []string{"init"},
		Short:   "Write a default configuration",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onboard(cmd.OutOrStdout(), internal.GetConfigPath(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")

	return cmd
}

func onboard(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	fmt.Fprintf(out, "%s predictree is ready!\n\n", internal.Logo)
	fmt.Fprintf(out, "Config written to %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Add an API key under providers, or export PREDICTREE_PROVIDERS_ANTHROPIC_API_KEY")
	fmt.Fprintln(out, "  2. Try a walk:  predictree walk --template quick-chat")
	fmt.Fprintln(out, "  3. Or serve:    predictree serve")
	return nil
}
