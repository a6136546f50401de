package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/services/auth"
	"github.com/meghashyamc/notesapp/services/session"
	"github.com/meghashyamc/notesapp/tui"
	"github.com/spf13/cobra"
)

func browseCMD(opts *rootOptions) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search notes interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The UI owns the terminal; logs go to --log-file or nowhere.
			var sink io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				sink = f
			}
			opts.logger = logger.NewWithWriter(sink, opts.level())

			application, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			owner := auth.AnonymousOwner
			history, err := application.KVDB.LoadHistory(owner)
			if err != nil {
				return err
			}

			s := session.New(
				session.WithLogger(opts.logger),
				session.WithEngine(tui.NewEngine()),
				session.WithDelay(opts.cfg.GetSearchDebounce()),
				session.WithHistorySize(opts.cfg.GetHistorySize()),
				session.WithHistory(history),
				session.WithCacheSize(opts.cfg.GetQueryCacheSize()),
				session.WithCacheTTL(opts.cfg.GetQueryCacheTTL()),
			)
			defer s.Close()
			s.SetNotes(application.Journal.Snapshot())
			application.Journal.Subscribe(s.SetNotes)

			selected, err := tui.Run(cmd.Context(), s, application.Journal)
			if saveErr := application.KVDB.SaveHistory(owner, s.Snapshot().History); saveErr != nil {
				opts.logger.Error("could not save search history", "err", saveErr.Error())
			}
			if err != nil {
				return err
			}

			if note, ok := application.Journal.Note(selected); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", note.Title, note.Preview(2000))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while browsing")
	return cmd
}
