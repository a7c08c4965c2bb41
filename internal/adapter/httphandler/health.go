package httphandler

import (
	"context"
	"log/slog"
	"net/http"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterHealth reports whether the record storage is reachable.
func RegisterHealth(mux *http.ServeMux, p Pinger) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		const op = "HealthHandler"

		if err := p.Ping(r.Context()); err != nil {
			slog.Warn("storage is unreachable", "op", op, "err", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
}
