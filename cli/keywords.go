package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func keywordsCMD(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keywords",
		Short: "List the most frequent words across notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			for _, keyword := range application.Search.Keywords() {
				fmt.Fprintln(cmd.OutOrStdout(), keyword)
			}
			return nil
		},
	}
}
