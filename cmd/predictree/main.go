// predictree - recursive conversation prediction trees over SSE
// License: MIT
//
// Copyright (c) 2026 predictree contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/predictree/cmd/predictree/internal"
	"github.com/tinyland-inc/predictree/cmd/predictree/internal/onboard"
	"github.com/tinyland-inc/predictree/cmd/predictree/internal/serve"
	"github.com/tinyland-inc/predictree/cmd/predictree/internal/version"
	"github.com/tinyland-inc/predictree/cmd/predictree/internal/walk"
)

func NewPredictreeCommand() *cobra.Command {
	short := fmt.Sprintf("%s predictree - conversation prediction trees v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "predictree",
		Short:   short,
		Example: "predictree walk --template quick-chat",
	}

	cmd.PersistentFlags().StringVar(&internal.ConfigPath, "config", "", "Config file (default ~/.predictree/config.json)")

	cmd.AddCommand(
		onboard.NewOnboardCommand(),
		serve.NewServeCommand(),
		walk.NewWalkCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewPredictreeCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
