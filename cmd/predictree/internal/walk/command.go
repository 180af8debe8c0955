package walk

import (
	"github.com/spf13/cobra"
)

func NewWalkCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "walk",
		Aliases: []string{"w"},
		Short:   "Expand a prediction tree from a seed conversation",
		Args:    cobra.NoArgs,
		Example: `  predictree walk --template quick-chat
  predictree walk --breadth 2 --depth 2 --template airport
  predictree walk --interactive
  predictree walk --url http://127.0.0.1:8787/ --raw`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return walkCmd(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.breadth, "breadth", "b", 2, "Siblings per node")
	cmd.Flags().IntVarP(&opts.depth, "depth", "n", 3, "Maximum tree depth")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "quick-chat", "Seed conversation template")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Type the seed conversation instead of using a template")
	cmd.Flags().StringVar(&opts.url, "url", "", "Stream the walk from a running server instead of walking in-process")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the raw event stream")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.listTemplates, "list-templates", false, "List seed templates and exit")

	return cmd
}
