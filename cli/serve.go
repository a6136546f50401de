package cli

import (
	"github.com/meghashyamc/notesapp/api"
	"github.com/spf13/cobra"
)

func serveCMD(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return api.Run(cmd.Context(), opts.cfg, opts.logger)
		},
	}
}
