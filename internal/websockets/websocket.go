package websockets

import (
	"context"
	"sync/atomic"
	"time"

	"hotelparadise/internal/events"
	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	PING_INTERVAL          = 30 * time.Second
	PONG_TIMEOUT           = 60 * time.Second
	WRITE_TIMEOUT          = 10 * time.Second
	AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second
	MAX_MESSAGE_SIZE       = 64 * 1024
	SEND_CHANNEL_SIZE      = 64

	SYSTEM_CHANNEL = "system"
)

type Message struct {
	ID        string             `json:"id"`
	Type      events.MessageType `json:"type"`
	Channel   string             `json:"channel,omitempty"`
	Action    string             `json:"action,omitempty"`
	UserID    string             `json:"userId,omitempty"`
	Data      map[string]any     `json:"data,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Authenticator resolves an access token presented over the socket.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string, tokenType TokenType) (*User, error)
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	status     atomic.Int32
	closed     bool
	send       chan Message
}

func (c *Client) Status() int32 {
	return c.status.Load()
}

type Manager struct {
	hub           *Hub
	authenticator Authenticator
	eventBus      *events.EventBus
	log           logger.Logger
}

func New(eventBus *events.EventBus, authenticator Authenticator) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub:           newHub(),
		authenticator: authenticator,
		eventBus:      eventBus,
		log:           log,
	}

	if err := manager.subscribeToNotifications(); err != nil {
		return nil, err
	}
	if err := manager.subscribeToRoomStatus(); err != nil {
		return nil, err
	}

	log.Function("New").Info("Websocket manager started")
	return manager, nil
}

func newMessage(messageType events.MessageType, action string, data map[string]any) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      messageType,
		Channel:   SYSTEM_CHANNEL,
		Action:    action,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		UserID:     uuid.Nil,
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}
	client.status.Store(STATUS_UNAUTHENTICATED)

	if err := c.WriteJSON(newMessage(events.AUTH_REQUEST, "authenticate", nil)); err != nil {
		log.Er("failed to send auth request", err)
		_ = c.Close()
		return
	}

	m.hub.register(client)
	defer func() {
		m.hub.unregister(client)
		_ = c.Close()
		log.Info("Client disconnected", "clientID", client.ID, "userID", client.UserID)
	}()

	client.startAuthTimeout()

	go client.readPump()
	client.writePump()
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister(c)
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == events.AUTH_RESPONSE {
		c.handleAuthResponse(message)
		return
	}

	if c.Status() != STATUS_AUTHENTICATED {
		log.Warn("Blocking message from unauthenticated client", "clientID", c.ID, "type", message.Type)
		c.Manager.hub.enqueue(c, newMessage(
			events.AUTH_FAILURE,
			"authentication_required",
			map[string]any{"reason": "Authentication required"},
		))
		return
	}

	switch message.Type {
	case events.PING:
		c.Manager.hub.enqueue(c, newMessage(events.PONG, "pong", nil))
	default:
		log.Debug("Ignoring client message", "clientID", c.ID, "type", message.Type)
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID, "messageID", message.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) subscribeToNotifications() error {
	log := m.log.Function("subscribeToNotifications")

	return m.eventBus.Subscribe(events.NOTIFICATION_CHANNEL, func(event events.Event) error {
		if event.UserID == nil {
			log.Warn("Notification event without user", "eventID", event.ID)
			return nil
		}

		m.SendMessageToUser(*event.UserID, Message{
			ID:        event.ID,
			Type:      events.NOTIFICATION,
			Channel:   events.NOTIFICATION_CHANNEL.String(),
			Action:    "created",
			UserID:    event.UserID.String(),
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		return nil
	})
}

func (m *Manager) subscribeToRoomStatus() error {
	return m.eventBus.Subscribe(events.ROOM_STATUS_CHANNEL, func(event events.Event) error {
		m.sendToAuthenticatedClients(Message{
			ID:        event.ID,
			Type:      events.ROOM_STATUS,
			Channel:   events.ROOM_STATUS_CHANNEL.String(),
			Action:    "changed",
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		return nil
	})
}
