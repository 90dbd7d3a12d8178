package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/calltip/internal/calltip"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		index int
		width int
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "render WORD",
		Short: "Print the calltip for one overload of a keyword",
		Long: `Print the calltip text exactly as the editor would show it for
overload --index (starting at 1) of WORD. The overload marker is drawn as
arrows. Output to a terminal uses the configured colours unless --raw is
given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			kw, err := findKeyword(cat, args[0])
			if err != nil {
				return err
			}

			count := len(kw.Overloads)
			if index < 1 || index > count {
				return fmt.Errorf("index %d out of range: %s has %d overload(s)", index, kw.Name, count)
			}
			if !cmd.Flags().Changed("width") {
				width = opts.cfg.WrapWidth
			}

			f := calltip.NewFormatter(calltip.WithWidth(width))
			text := f.Render(kw.Name, kw.Overloads[index-1], index-1, count)

			printTip(cmd.OutOrStdout(), text, opts.store(cmd.ErrOrStderr()).Load(), raw)
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 1, "overload to render, starting at 1")
	cmd.Flags().IntVarP(&width, "width", "w", calltip.DefaultWidth, "wrap column (default from config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print plain text")
	return cmd
}
