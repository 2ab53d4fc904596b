package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wfclan/generals-lfg-bot/internal/hub"
)

func SetupRoutes(h *hub.Hub) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/lobbies", ListLobbies(h))
	return r
}
