package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/calltip/internal/catalog"
)

var errUnknownKeyword = errors.New("unknown keyword")

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "lookup [WORD]",
		Short: "Print the overloads of a keyword",
		Long: `Print every overload of WORD from the catalog. Lookup is
case-insensitive. With --list, print all keyword names instead.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				for _, name := range cat.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			kw, err := findKeyword(cat, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d overload(s)\n", kw.Name, len(kw.Overloads))
			for i, ov := range kw.Overloads {
				fmt.Fprintf(out, "  %d. %s %s %s\n", i+1, ov.ReturnType, kw.Name, ov.Params)
				for _, line := range ov.DescriptionLines() {
					fmt.Fprintf(out, "       %s\n", line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list all keyword names")
	return cmd
}

// findKeyword looks word up and, on a miss, names close matches in the
// error.
func findKeyword(cat *catalog.Catalog, word string) (*catalog.Keyword, error) {
	if kw, ok := cat.Lookup(word); ok {
		return kw, nil
	}
	if s := cat.Suggest(word, 3); len(s) > 0 {
		return nil, fmt.Errorf("%w %q (did you mean %s?)", errUnknownKeyword, word, strings.Join(s, ", "))
	}
	return nil, fmt.Errorf("%w %q", errUnknownKeyword, word)
}
