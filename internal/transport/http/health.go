package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

type healthResponse struct {
	Status       string `json:"status"`
	ActiveMounts int    `json:"active_mounts"`
}

// HealthHandler reports liveness and the number of open quiz mounts.
func HealthHandler(registry MountRegistry, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		active, err := registry.Active(r.Context())
		if err != nil {
			log.Warn().Err(err).Msg("count active mounts")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(healthResponse{Status: "degraded"})
			return
		}
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", ActiveMounts: active})
	}
}

// NewMux routes the websocket host and its health check.
func NewMux(ws *WSHandler, registry MountRegistry, log zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.ServeWS)
	mux.HandleFunc("/healthz", HealthHandler(registry, log))
	return mux
}
