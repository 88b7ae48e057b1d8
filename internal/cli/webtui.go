package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"showcase-cli/internal/webtui"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the terminal browser in a web page (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Run the terminal browser over the web via a server-side PTY and a browser
terminal emulator.

Notes:
- No auth; bind to localhost.
- Each browser tab starts a TUI subprocess on the server.
- ?p=<id>&e=express|full on the page URL is passed to the TUI as --link.
`),
		Example: strings.TrimSpace(`
showcase webtui --addr 127.0.0.1:3334
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.logger(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = log.Sync() }()

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:    strings.TrimSpace(addr),
				BaseURL: app.BaseURL,
				Args:    app.childArgs(),
				Logger:  log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}
			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      ln.Addr().String(),
					"source":    app.Data,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"open http://" + ln.Addr().String(),
				},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Showcase webtui running at http://%s\n", ln.Addr().String())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-ctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = httpSrv.Shutdown(sctx)
			}()
			if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Config.TUIAddr, "Bind address (host:port or :port)")
	return cmd
}

// childArgs are the persistent flags every browser-hosted TUI inherits.
func (app *App) childArgs() []string {
	args := []string{"--data", app.Data, "--base-url", app.BaseURL}
	if app.Watch {
		args = append(args, "--watch")
	}
	if strings.TrimSpace(app.LogFile) != "" {
		args = append(args, "--log-file", app.LogFile)
	}
	return args
}
