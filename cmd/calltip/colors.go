package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/calltip/internal/colors"
	"github.com/dshills/calltip/internal/configure"
	"github.com/dshills/calltip/internal/host"
)

func newColorsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "colors",
		Short: "Show or change the calltip colours",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current colours",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store := opts.store(cmd.ErrOrStderr())
				printColors(cmd.OutOrStdout(), store.Path(), store.Load())
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default colours",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store := opts.store(cmd.ErrOrStderr())
				c, err := store.Reset()
				if err != nil {
					return err
				}
				printColors(cmd.OutOrStdout(), store.Path(), c)
				return nil
			},
		},
		&cobra.Command{
			Use:   "configure",
			Short: "Run the colour script once, as typing the trigger word does",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var extra []configure.Option
				if opts.cfg.ConfigureScript != "" {
					extra = append(extra, configure.WithScriptFile(opts.cfg.ConfigureScript))
				}
				return runScript(cmd, opts, extra...)
			},
		},
		&cobra.Command{
			Use:   "eval CODE",
			Short: "Run a Lua snippet against the colour settings",
			Example: `  calltip colors eval 'calltip.background("#202020")'
  calltip colors eval 'calltip.text(220, 220, 220)'`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runScript(cmd, opts, configure.WithSource(args[0]))
			},
		},
	)
	return cmd
}

func runScript(cmd *cobra.Command, opts *rootOptions, extra ...configure.Option) error {
	store := opts.store(cmd.ErrOrStderr())
	logger := opts.logger(cmd.ErrOrStderr()).WithComponent("configure")

	lua := configure.New(store, append([]configure.Option{configure.WithLogger(logger)}, extra...)...)
	changed, err := lua.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !changed {
		fmt.Fprintln(out, "colours unchanged")
	}
	printColors(out, store.Path(), store.Load())
	return nil
}

func printColors(w io.Writer, path string, c colors.Colors) {
	fmt.Fprintf(w, "file:       %s\n", path)
	fmt.Fprintf(w, "background: %s %v\n", c.Background.Hex(), c.Background.Ints())
	fmt.Fprintf(w, "text:       %s %v\n", c.Text.Hex(), c.Text.Ints())
	if isTerminal(w) {
		fmt.Fprintln(w, host.Print("int sample (int x)", c))
	}
}
