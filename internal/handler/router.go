package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	catalogHandler "github.com/MIGUELNINOSILVA/makers/internal/handler/catalog"
	chatHandler "github.com/MIGUELNINOSILVA/makers/internal/handler/chat"
	catalogService "github.com/MIGUELNINOSILVA/makers/internal/service/catalog"
	chatService "github.com/MIGUELNINOSILVA/makers/internal/service/chat"
	"github.com/MIGUELNINOSILVA/makers/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(allowedOrigin string, chatSvc *chatService.Service, subs chatHandler.Subscriber, catalogSvc *catalogService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(api chi.Router) {
		chatHandler.New(chatSvc, subs).RegisterRoutes(api)
		catalogHandler.New(catalogSvc).RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
