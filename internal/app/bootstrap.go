package app

import (
	"github.com/dshills/calltip/internal/calltip"
	"github.com/dshills/calltip/internal/catalog"
	"github.com/dshills/calltip/internal/colors"
	"github.com/dshills/calltip/internal/configure"
	"github.com/dshills/calltip/internal/dispatcher"
	"github.com/dshills/calltip/internal/host"
)

// wordCharSetter is implemented by hosts whose word rules can follow the
// catalog's Environment.
type wordCharSetter interface {
	SetWordChars(host.WordChars)
}

// bootstrapper builds the components in dependency order.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		initOrder: make([]string, 0, 4),
	}
}

func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"catalog", b.initCatalog},
		{"colors", b.initColors},
		{"configure", b.initConfigurator},
		{"dispatcher", b.initDispatcher},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return err
		}
		b.initOrder = append(b.initOrder, s.name)
	}
	b.app.logger.Debug("initialized %v", b.initOrder)
	return nil
}

// initCatalog loads the keyword catalog. Failure is fatal.
func (b *bootstrapper) initCatalog() error {
	log := b.app.logger.WithComponent("catalog")

	cat, err := catalog.LoadFile(b.app.cfg.Catalog)
	if err != nil {
		return &InitError{Component: "catalog", Err: err}
	}

	if dups := cat.Duplicates(); len(dups) > 0 {
		log.Warn("ignoring %d duplicate keywords: %v", len(dups), dups)
	}
	if n := cat.Skipped(); n > 0 {
		log.Debug("skipped %d keywords without overloads", n)
	}
	log.Info("loaded %d keywords for %s from %s", cat.Len(), cat.Language(), b.app.cfg.Catalog)

	if extra := cat.Environment().AdditionalWordChar; extra != "" {
		if ws, ok := b.app.host.(wordCharSetter); ok {
			ws.SetWordChars(host.WordChars{Additional: extra})
			log.Debug("additional word characters %q", extra)
		}
	}

	b.app.catalog = cat
	return nil
}

// initColors opens the colour store, writing defaults if the file is
// missing or unreadable.
func (b *bootstrapper) initColors() error {
	store := colors.NewFileStore(b.app.cfg.Colors,
		colors.WithLogger(b.app.logger.WithComponent("colors")))
	c := store.Load()
	b.app.logger.WithComponent("colors").Debug("background %s text %s", c.Background, c.Text)

	b.app.store = store
	return nil
}

func (b *bootstrapper) initConfigurator() error {
	opts := []configure.Option{
		configure.WithLogger(b.app.logger.WithComponent("configure")),
	}
	if script := b.app.cfg.ConfigureScript; script != "" {
		opts = append(opts, configure.WithScriptFile(script))
	}
	b.app.configurator = configure.New(b.app.store, opts...)
	return nil
}

func (b *bootstrapper) initDispatcher() error {
	b.app.dispatcher = dispatcher.New(b.app.host, b.app.catalog,
		dispatcher.WithFormatter(calltip.NewFormatter(calltip.WithWidth(b.app.cfg.WrapWidth))),
		dispatcher.WithColors(b.app.store),
		dispatcher.WithConfigurator(b.app.configurator),
		dispatcher.WithTrigger(b.app.cfg.Trigger),
		dispatcher.WithLogger(b.app.logger.WithComponent("dispatcher")),
	)
	return nil
}
