package ws

import (
	"chatwire/internal/observability"
	"sync"

	"go.uber.org/zap"
)

type Hub struct {
	clients            map[string]*UserClient
	register           chan *UserClient
	unregister         chan *UserClient
	stop               chan struct{}
	done               chan struct{}
	stopOnce           sync.Once
	mu                 sync.RWMutex
	onClientUnregister func(client *UserClient) error
	logger             *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*UserClient),
		register:   make(chan *UserClient),
		unregister: make(chan *UserClient),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns every mutation of the client map. It returns after Stop.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case <-h.stop:
			h.mu.Lock()
			for userId, client := range h.clients {
				close(client.send)
				delete(h.clients, userId)
			}
			h.mu.Unlock()
			observability.SetWSActive(0)
			return
		}
	}
}

func (h *Hub) addClient(client *UserClient) {
	h.mu.Lock()
	if previous, ok := h.clients[client.UserId]; ok && previous != client {
		// one endpoint per user: the newer connection wins
		close(previous.send)
		h.logger.Info("websocket client replaced", zap.String("user_id", client.UserId))
	}
	h.clients[client.UserId] = client
	count := len(h.clients)
	h.mu.Unlock()

	observability.SetWSActive(count)
	h.logger.Info("websocket client connected", zap.String("user_id", client.UserId), zap.Int("clients", count))
}

func (h *Hub) removeClient(client *UserClient) {
	h.mu.Lock()
	current, ok := h.clients[client.UserId]
	if !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.UserId)
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()

	observability.SetWSActive(count)
	h.logger.Info("websocket client disconnected", zap.String("user_id", client.UserId), zap.Int("clients", count))

	if h.onClientUnregister != nil {
		if err := h.onClientUnregister(client); err != nil {
			h.logger.Error("on client unregister", zap.String("user_id", client.UserId), zap.Error(err))
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	<-h.done
}

func (h *Hub) RegisterClient(client *UserClient) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) UnregisterClient(client *UserClient) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToUser queues message for the user's live client. It never blocks and
// reports false when the user is offline or the client is not draining.
func (h *Hub) SendToUser(userId string, message []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[userId]
	if !exists {
		return false
	}

	select {
	case client.send <- message:
		return true
	default:
		h.logger.Warn("websocket send buffer full", zap.String("user_id", userId))
		return false
	}
}

func (h *Hub) IsOnline(userId string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userId]
	return ok
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) SetOnClientUnregister(callback func(client *UserClient) error) {
	h.onClientUnregister = callback
}
