package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mvillareal/gamenight/internal/tracker"
	"github.com/mvillareal/gamenight/internal/ws"
)

func SetupRoutes(t *tracker.Tracker, accessCodes []string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(t, log))

	// Everything behind the access gate
	r.Route("/api", func(r chi.Router) {
		r.Use(AccessGate(accessCodes))
		r.Get("/state", GetState(t))
		r.Get("/rankings", GetRankings(t))
		r.Post("/sessions", CreateSession(t))
		r.Put("/sessions/current", SelectSession(t))
		r.Delete("/sessions/{id}", DeleteSession(t))
		r.Post("/players", AddPlayer(t))
		r.Delete("/players/{name}", RemovePlayer(t))
		r.Post("/games", RecordGame(t))
		r.Delete("/games/{id}", DeleteGame(t))
	})
	return r
}
