package websocket

import (
	"chatwire/infrastructure/ws"
	"chatwire/internal/repository"
	"chatwire/internal/usecase"
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// UserIdFunc extracts the authenticated user id from a request context.
type UserIdFunc func(ctx context.Context) (string, bool)

type WebsocketHandler struct {
	hub      ws.IHub
	userUc   usecase.UserUsecase
	userId   UserIdFunc
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebsocketHandler builds the handshake handler. allowedOrigin empty
// accepts any origin.
func NewWebsocketHandler(hub ws.IHub, userUc usecase.UserUsecase, userId UserIdFunc, allowedOrigin string, logger *zap.Logger) *WebsocketHandler {
	return &WebsocketHandler{
		hub:    hub,
		userUc: userUc,
		userId: userId,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades an authenticated request and registers the
// connection as the user's realtime client.
func (h *WebsocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.userId(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userUc.Get(r.Context(), userId)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.Error("get user", zap.String("user_id", userId), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.String("user_id", userId), zap.Error(err))
		return
	}

	client := ws.NewClient(user.Id, h.hub, conn)
	h.hub.RegisterClient(client)

	go client.WritePump()
	client.ReadPump(func(data []byte) {
		h.logger.Debug("ignoring inbound frame", zap.String("user_id", client.UserId), zap.Int("bytes", len(data)))
	})
}

// HandleUnregisterClient is installed as the hub's unregister callback.
func (h *WebsocketHandler) HandleUnregisterClient(client *ws.UserClient) error {
	h.logger.Debug("user offline", zap.String("user_id", client.UserId))
	return nil
}
