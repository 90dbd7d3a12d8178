package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/calltip/internal/app"
	"github.com/dshills/calltip/internal/catalog"
	"github.com/dshills/calltip/internal/colors"
	"github.com/dshills/calltip/internal/config"
	"github.com/dshills/calltip/internal/host"
)

// rootOptions holds the persistent flags and the configuration they
// produce.
type rootOptions struct {
	configPath string
	catalog    string
	colors     string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "calltip",
		Short: "Function calltips from Notepad++ AutoComplete catalogs",
		Long: `calltip shows the signature and description of a function when its
name is followed by a space, and lets you cycle through overloads with the
calltip arrows.

Keywords come from a Notepad++ AutoComplete XML file. Display colours are kept
in a JSON file and can be changed by typing the trigger word.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.load()
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("calltip %s (commit %s, built %s)\n", version, commit, date))

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.catalog, "catalog", "", "AutoComplete XML catalog")
	flags.StringVar(&opts.colors, "colors", "", "JSON colour settings file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRunCmd(opts),
		newLookupCmd(opts),
		newRenderCmd(opts),
		newTypeCmd(opts),
		newColorsCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// load reads the config file and applies flag overrides.
func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if o.catalog != "" {
		cfg.Catalog = o.catalog
	}
	if o.colors != "" {
		cfg.Colors = o.colors
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	return nil
}

func (o *rootOptions) logger(w io.Writer) *app.Logger {
	lc := app.DefaultLoggerConfig()
	lc.Level = app.ParseLogLevel(o.cfg.LogLevel)
	lc.Output = w
	return app.NewLogger(lc)
}

func (o *rootOptions) loadCatalog() (*catalog.Catalog, error) {
	return catalog.LoadFile(o.cfg.Catalog)
}

func (o *rootOptions) store(w io.Writer) *colors.FileStore {
	return colors.NewFileStore(o.cfg.Colors,
		colors.WithLogger(o.logger(w).WithComponent("colors")))
}

// printTip writes a calltip to w, coloured when w is a terminal.
func printTip(w io.Writer, text string, c colors.Colors, raw bool) {
	if raw || !isTerminal(w) {
		fmt.Fprintln(w, host.DisplayText(text))
		return
	}
	fmt.Fprintln(w, host.Print(text, c))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
