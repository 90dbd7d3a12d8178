package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/calltip/internal/app"
	"github.com/dshills/calltip/internal/dispatcher"
	"github.com/dshills/calltip/internal/event"
	"github.com/dshills/calltip/internal/host"
	"github.com/dshills/calltip/internal/overload"
)

func newTypeCmd(opts *rootOptions) *cobra.Command {
	var (
		clicks []string
		raw    bool
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "type TEXT",
		Short: "Type text into an in-memory editor and print the resulting calltip",
		Long: `Type TEXT one character at a time into an in-memory editor with
calltips enabled, then apply each --click (prev, next or neutral) to the
visible tip and print it. With --stats, also print how many notifications
the dispatcher handled.`,
		Example: `  calltip type "bar "
  calltip type "bar " --click next --click next`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			regions := make([]overload.Region, 0, len(clicks))
			for _, c := range clicks {
				r, err := overload.ParseRegion(strings.ToLower(c))
				if err != nil {
					return err
				}
				regions = append(regions, r)
			}

			cfg := *opts.cfg
			cfg.WatchColors = false

			logger := opts.logger(cmd.ErrOrStderr())
			buf := host.NewBuffer(host.WithLanguage(cfg.Language), host.WithLogger(logger.WithComponent("host")))
			defer buf.Close()

			application, err := app.New(buf, app.Options{Config: &cfg, Logger: logger})
			if err != nil {
				return err
			}
			if err := application.Start(); err != nil {
				return err
			}
			defer func() { _ = application.Shutdown() }()

			if err := buf.Type(args[0]); err != nil {
				return err
			}
			for _, r := range regions {
				if err := buf.Click(r); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if tip := buf.Tip(); tip.Visible {
				printTip(out, tip.Text, tip.Colors, raw)
			} else {
				fmt.Fprintln(out, "(no calltip)")
			}
			if stats {
				printStats(out, application.Dispatcher().Metrics(), buf.Stats())
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&clicks, "click", nil, "click a calltip region after typing (repeatable)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print plain text")
	cmd.Flags().BoolVar(&stats, "stats", false, "print dispatcher and event counters")
	return cmd
}

func printStats(w io.Writer, m *dispatcher.Metrics, bus event.Stats) {
	s := m.Snapshot()
	fmt.Fprintf(w, "notifications: %d handled, %d errors, average %s\n", s.Total, s.Errors, s.AverageDuration)
	for _, km := range m.Kinds() {
		fmt.Fprintf(w, "  %-6s %d %v\n", km.Kind, km.Count, km.Outcomes)
	}
	fmt.Fprintf(w, "events: %d published, %d delivered, %d failed, %d panicked\n",
		bus.Published, bus.Delivered, bus.HandlerErrors, bus.HandlerPanics)
}
