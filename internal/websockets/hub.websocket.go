package websockets

import (
	"sync"

	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED int32 = iota
	STATUS_AUTHENTICATED
)

// Hub tracks connected clients. Sends and closes of a client's queue happen
// under the hub lock so a message is never queued on a closed channel.
type Hub struct {
	clients map[string]*Client
	mutex   sync.RWMutex
}

func newHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) register(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client.ID] = client
}

func (h *Hub) unregister(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if client.closed {
		return
	}

	client.closed = true
	close(client.send)
	delete(h.clients, client.ID)
}

// enqueue drops the message when the client's queue is full or closed.
func (h *Hub) enqueue(client *Client, message Message) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return h.trySend(client, message)
}

func (h *Hub) trySend(client *Client, message Message) bool {
	if client.closed {
		return false
	}

	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

func (h *Hub) count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

// SendMessageToUser delivers to every authenticated connection of the user.
func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) int {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent, connections := 0, 0
	for _, client := range m.hub.clients {
		if client.Status() != STATUS_AUTHENTICATED || client.UserID != userID {
			continue
		}

		connections++
		if m.hub.trySend(client, message) {
			sent++
		} else {
			log.Warn("Client send queue full, dropping message", "clientID", client.ID, "userID", userID)
		}
	}

	if connections == 0 {
		log.Debug("No connections found for user", "userID", userID)
	}

	return sent
}

func (m *Manager) sendToAuthenticatedClients(message Message) int {
	log := m.log.Function("sendToAuthenticatedClients")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.clients {
		if client.Status() != STATUS_AUTHENTICATED {
			continue
		}

		if m.hub.trySend(client, message) {
			sent++
		} else {
			log.Warn("Client send queue full, dropping message", "clientID", client.ID)
		}
	}

	log.Debug("Message sent to authenticated clients", "messageID", message.ID, "clientCount", sent)
	return sent
}
