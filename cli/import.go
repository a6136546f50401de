package cli

import (
	"fmt"
	"path/filepath"

	"github.com/meghashyamc/notesapp/services/importer"
	"github.com/spf13/cobra"
)

func importCMD(opts *rootOptions) *cobra.Command {
	importOpts := importer.Options{}
	cmd := &cobra.Command{
		Use:     "import <dir>",
		Short:   "Import markdown notes from a directory",
		Example: "notesapp import ~/notes --exclude archive --replace",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			application, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Importer.Import(cmd.Context(), root, importOpts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, updated %d, failed %d\n", report.Imported, report.Updated, len(report.Failed))
			for _, failed := range report.Failed {
				fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s\n", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&importOpts.ExcludeFolders, "exclude", nil, "folder names or paths to skip")
	cmd.Flags().BoolVar(&importOpts.Replace, "replace", false, "remove every note before importing")
	return cmd
}
