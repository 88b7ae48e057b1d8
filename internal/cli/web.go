package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"showcase-cli/internal/model"
	"showcase-cli/internal/store"
	"showcase-cli/internal/web"
)

const shutdownTimeout = 5 * time.Second

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the showcase page (server-rendered, patched live with Datastar)",
		Long: strings.TrimSpace(`
Serve the showcase page from a local HTTP server.

The page is rendered on the server and every control (search, tag, edition,
previews, guided path) round-trips as a Datastar request answered with DOM
patches. With --watch, edits to a local catalog file are pushed to open pages.
`),
		Example: strings.TrimSpace(`
# Serve on localhost and open the browser
showcase web --addr 127.0.0.1:3335

# Serve a remote catalog without opening a browser
showcase --data https://example.com/slides.json web --open=false
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}
			log, err := app.logger(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loader := app.loader(log)
			st := store.New(loader.Load(ctx), model.DefaultState())

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			// Copied links are built from the address each page was loaded with.
			srv, err := web.NewServer(web.ServerConfig{Addr: actualAddr, Logger: log}, st)
			if err != nil {
				_ = ln.Close()
				return writeErr(cmd, err)
			}
			defer srv.Close()

			opened := false
			openErr := ""
			if open {
				if err := openBrowser(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}
			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}
			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"source":    app.Data,
					"watch":     app.Watch,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Showcase web running at %s\n", url)

			g, gctx := errgroup.WithContext(ctx)
			httpSrv := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				// Cancels the /events streams on shutdown.
				BaseContext: func(net.Listener) context.Context { return gctx },
			}
			g.Go(func() error {
				if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return httpSrv.Shutdown(sctx)
			})
			if app.Watch {
				w, err := store.NewWatcher(loader, srv.Reload)
				if err != nil {
					stop()
					_ = g.Wait()
					return writeErr(cmd, err)
				}
				g.Go(func() error {
					<-gctx.Done()
					return w.Close()
				})
				g.Go(func() error { return w.Run(gctx) })
			}

			if err := g.Wait(); err != nil {
				log.Error("web server stopped", zap.Error(err))
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Config.Addr, "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", true, "Open the page in your default browser")
	return cmd
}

func openBrowser(u string) error {
	u = strings.TrimSpace(u)
	if u == "" {
		return errors.New("empty url")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", u).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", u).Run()
	default:
		return exec.Command("xdg-open", u).Run()
	}
}
