package cli

import (
	"context"

	"github.com/meghashyamc/notesapp/app"
	"github.com/meghashyamc/notesapp/config"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	env      string
	logLevel string
	cfg      *config.Config
	logger   logger.Logger
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "notesapp",
		Short:         "Search and serve your notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.env)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logger.New(opts.level())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.env, "env", "", "config environment (default $ENV or local)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (default from config)")

	root.AddCommand(
		serveCMD(opts),
		searchCMD(opts),
		keywordsCMD(opts),
		importCMD(opts),
		browseCMD(opts),
	)
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (o *rootOptions) openApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, o.cfg, o.logger)
}

func (o *rootOptions) level() string {
	if o.logLevel != "" {
		return o.logLevel
	}
	return o.cfg.GetLogLevel()
}
