package http

import (
	wsDelivery "chatwire/internal/delivery/websocket"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func MapHttpRoutes(
	r *chi.Mux,
	httpHandler *HttpHandler,
	mediaHandler *MediaHandler,
	healthHandler *HealthHandler,
	websocketHandler *wsDelivery.WebsocketHandler,
	authMiddleware *AuthMiddleware,
) {
	r.Get("/healthz", http.HandlerFunc(healthHandler.Healthz))
	r.Handle("/metrics", promhttp.Handler())

	r.With(authMiddleware.AuthenticateHandshake).Get("/ws", http.HandlerFunc(websocketHandler.HandleWebSocket))

	r.Route("/api", func(r chi.Router) {
		// Image URLs are embedded in messages and loaded by <img> tags.
		r.Get("/media/{id}", http.HandlerFunc(mediaHandler.GetImage))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/groups", func(r chi.Router) {
				r.Post("/create", http.HandlerFunc(httpHandler.CreateGroup))
				r.Get("/user-groups", http.HandlerFunc(httpHandler.GetUserGroups))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/users", http.HandlerFunc(httpHandler.GetUsersForSidebar))
				r.Get("/group/{groupId}", http.HandlerFunc(httpHandler.GetGroupMessages))
				r.Post("/group/send/{groupId}", http.HandlerFunc(httpHandler.SendGroupMessage))
				r.Post("/send/{id}", http.HandlerFunc(httpHandler.SendMessage))
				r.Get("/{id}", http.HandlerFunc(httpHandler.GetMessages))
			})
		})
	})
}
