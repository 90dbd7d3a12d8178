package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/dshills/calltip/internal/app"
	"github.com/dshills/calltip/internal/config"
	"github.com/dshills/calltip/internal/host/term"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		text     string
		language string
		logFile  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a terminal editor with calltips enabled",
		Long: `Open a small terminal editor. Type a function name followed by a space
to see its calltip, click the arrows to cycle overloads, press Esc to hide
the tip and Ctrl-Q to quit.

Logs go to a file so they do not disturb the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if logFile == "" {
				p, err := xdg.StateFile(filepath.Join(config.AppName, "calltip.log"))
				if err != nil {
					return fmt.Errorf("log file: %w", err)
				}
				logFile = p
			}
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()

			if !cmd.Flags().Changed("language") {
				language = opts.cfg.Language
			}
			logger := opts.logger(f)
			editor, err := term.New(nil,
				term.WithLanguage(language),
				term.WithText(text),
				term.WithLogger(logger.WithComponent("term")),
			)
			if err != nil {
				return err
			}
			defer editor.Close()

			application, err := app.New(editor, app.Options{Config: opts.cfg, Logger: logger})
			if err != nil {
				return err
			}
			if err := application.Start(); err != nil {
				return err
			}
			defer func() { _ = application.Shutdown() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return editor.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "initial buffer contents")
	cmd.Flags().StringVar(&language, "language", "", "document language (default from config)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file (default under the XDG state directory)")
	return cmd
}
