package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"showcase-cli/internal/model"
	"showcase-cli/internal/store"
	"showcase-cli/internal/tui"
)

func runTUI(cmd *cobra.Command, app *App, theme string) error {
	sel, err := app.selection()
	if err != nil {
		return writeErr(cmd, err)
	}
	log, err := app.logger(true)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	loader := app.loader(log)
	st := store.New(loader.Load(ctx), model.DefaultState())

	p := tui.NewProgram(ctx, tui.Options{
		Store:   st,
		Loader:  &loader,
		Link:    sel,
		PageURL: app.pageURL(),
		Logger:  log,
		Theme:   theme,
	})

	if app.Watch {
		w, err := store.NewWatcher(loader, func(c model.Catalog) {
			p.Send(tui.ReloadedMsg{Catalog: c})
		})
		if err != nil {
			return writeErr(cmd, err)
		}
		defer w.Close()
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Warn("catalog watcher stopped", zap.Error(err))
			}
		}()
	}

	return tui.Run(p)
}
