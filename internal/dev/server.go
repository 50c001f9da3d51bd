package dev

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ranrar/CarlsCalendar-sub000/internal/config"
)

// shellPage is the single HTML page the SPA boots from. Every path
// serves it; the client-side route table takes over from there.
const shellPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<div id="root"></div>
<script>
  (function () {
    var ws = new WebSocket("ws://" + location.host + "/__reload");
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "reload") location.reload();
      if (msg.type === "error") console.error(msg.error);
    };
  })();
</script>
</body>
</html>
`

// Server is the development asset server.
type Server struct {
	cfg    config.Config
	logger *slog.Logger
	hub    *ReloadHub
	http   *http.Server
}

// NewServer builds the dev server for cfg.
func NewServer(cfg config.Config, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		hub:    NewReloadHub(),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/__reload", s.hub.ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/assets/*", http.StripPrefix("/assets/",
		http.FileServer(http.Dir(cfg.Dev.AssetsDir))))

	// Everything else is the shell page: deep links must boot the SPA.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, shellPage, cfg.AppName)
	})

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Hub returns the reload hub, for build tooling to push notifications.
func (s *Server) Hub() *ReloadHub {
	return s.hub
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("dev server listening", "addr", s.cfg.Addr())
		errc <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
