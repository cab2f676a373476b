package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vestadash/vesta/internal/api"
	"github.com/vestadash/vesta/internal/config"
	"github.com/vestadash/vesta/internal/metrics"
	"github.com/vestadash/vesta/internal/store"
	"github.com/vestadash/vesta/internal/watch"
	"github.com/vestadash/vesta/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the server config file")
	uiDir := flag.String("ui-dir", "", "serve the dashboard UI static files from this directory (e.g. ui/dist); leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("vesta starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"dashboard", cfg.Dashboard.Path,
		"watch", cfg.Dashboard.Watch,
		"debounce", cfg.Dashboard.Debounce(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()

	// The dashboard document must load at startup; without it there is
	// nothing to serve.
	st, err := store.New(cfg.Dashboard.Path)
	if err != nil {
		slog.Error("failed to load dashboard document",
			"path", cfg.Dashboard.Path, "err", err)
		os.Exit(1)
	}
	snap := st.Current()
	stats := snap.Doc.Stats()
	slog.Info("dashboard document loaded",
		"snapshot", snap.ID,
		"groups", stats.Groups,
		"services", stats.Services,
	)

	// Hot reload: the watcher drives store reloads; a malformed edit is
	// logged and the previous document stays live.
	if cfg.Dashboard.Watch {
		go func() {
			err := watch.Watch(ctx, cfg.Dashboard.Path, cfg.Dashboard.Debounce(), func() {
				err := st.Reload()
				m.ObserveReload(err)
				if err != nil {
					slog.Error("config reload failed, keeping previous document", "err", err)
					return
				}
				cur := st.Current()
				slog.Info("config reloaded", "snapshot", cur.ID)
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	// WebSocket hub pushes the redacted document to open dashboards
	// on every reload.
	hub := ws.New(st, m)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(st, m, cfg.Widgets))
	httpMux.Handle("/ws/config", hub)
	httpMux.Handle("/metrics", m.Handler())

	// Optional: serve the pre-built dashboard UI from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fs := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// SPA fallback: if the requested file doesn't exist, serve index.html.
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("vesta shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
