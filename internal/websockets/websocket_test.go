package websockets

import (
	"context"
	"testing"

	"hotelparadise/config"
	"hotelparadise/internal/events"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	users map[string]*User
}

func (s *stubAuthenticator) Authenticate(
	ctx context.Context,
	raw string,
	tokenType TokenType,
) (*User, error) {
	if tokenType != TokenTypeAccess {
		return nil, types.NewAuthenticationError("wrong type")
	}
	user, ok := s.users[raw]
	if !ok {
		return nil, types.NewAuthenticationError("unknown token")
	}
	return user, nil
}

func setupManager(t *testing.T, users map[string]*User) (*Manager, *events.EventBus) {
	bus := events.New(nil, config.Config{})
	t.Cleanup(func() { _ = bus.Close() })

	manager, err := New(bus, &stubAuthenticator{users: users})
	require.NoError(t, err)
	return manager, bus
}

func newTestClient(manager *Manager, userID uuid.UUID, status int32) *Client {
	client := &Client{
		ID:      uuid.NewString(),
		UserID:  userID,
		Manager: manager,
		send:    make(chan Message, SEND_CHANNEL_SIZE),
	}
	client.status.Store(status)
	manager.hub.register(client)
	return client
}

func drain(client *Client) []Message {
	var messages []Message
	for {
		select {
		case msg, ok := <-client.send:
			if !ok {
				return messages
			}
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}

func TestSendMessageToUser(t *testing.T) {
	manager, _ := setupManager(t, nil)

	userID := uuid.New()
	first := newTestClient(manager, userID, STATUS_AUTHENTICATED)
	second := newTestClient(manager, userID, STATUS_AUTHENTICATED)
	other := newTestClient(manager, uuid.New(), STATUS_AUTHENTICATED)
	pending := newTestClient(manager, userID, STATUS_UNAUTHENTICATED)

	sent := manager.SendMessageToUser(userID, newMessage(events.NOTIFICATION, "created", nil))

	assert.Equal(t, 2, sent)
	assert.Len(t, drain(first), 1)
	assert.Len(t, drain(second), 1)
	assert.Empty(t, drain(other))
	assert.Empty(t, drain(pending))
}

func TestEventBusDelivery(t *testing.T) {
	manager, bus := setupManager(t, nil)

	userID := uuid.New()
	target := newTestClient(manager, userID, STATUS_AUTHENTICATED)
	bystander := newTestClient(manager, uuid.New(), STATUS_AUTHENTICATED)

	require.NoError(t, bus.Publish(events.NOTIFICATION_CHANNEL, events.Event{
		Type:   events.NOTIFICATION,
		UserID: &userID,
		Data:   map[string]any{"title": "Nueva asignación"},
	}))

	targetMessages := drain(target)
	require.Len(t, targetMessages, 1)
	assert.Equal(t, events.NOTIFICATION, targetMessages[0].Type)
	assert.Equal(t, "Nueva asignación", targetMessages[0].Data["title"])
	assert.Empty(t, drain(bystander))

	require.NoError(t, bus.Publish(events.ROOM_STATUS_CHANNEL, events.Event{
		Type: events.ROOM_STATUS,
		Data: map[string]any{"status": string(RoomStatusClean)},
	}))

	assert.Len(t, drain(target), 1)
	assert.Len(t, drain(bystander), 1)
}

func TestHandleAuthResponse(t *testing.T) {
	user := &User{Name: "Camarera", Email: "camarera@hotel.com", Role: RoleHousekeeper}
	user.ID = uuid.New()

	tests := []struct {
		name       string
		data       map[string]any
		wantStatus int32
		wantType   events.MessageType
	}{
		{
			name:       "valid token",
			data:       map[string]any{"token": "good"},
			wantStatus: STATUS_AUTHENTICATED,
			wantType:   events.AUTH_SUCCESS,
		},
		{
			name:       "unknown token",
			data:       map[string]any{"token": "bad"},
			wantStatus: STATUS_UNAUTHENTICATED,
			wantType:   events.AUTH_FAILURE,
		},
		{
			name:       "missing token",
			data:       map[string]any{},
			wantStatus: STATUS_UNAUTHENTICATED,
			wantType:   events.AUTH_FAILURE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, _ := setupManager(t, map[string]*User{"good": user})
			client := newTestClient(manager, uuid.Nil, STATUS_UNAUTHENTICATED)

			client.routeMessage(Message{Type: events.AUTH_RESPONSE, Data: tt.data})

			assert.Equal(t, tt.wantStatus, client.Status())
			messages := drain(client)
			require.Len(t, messages, 1)
			assert.Equal(t, tt.wantType, messages[0].Type)
			if tt.wantStatus == STATUS_AUTHENTICATED {
				assert.Equal(t, user.ID, client.UserID)
				assert.Equal(t, ClientRoleUser, messages[0].Data["rol"])
			}
		})
	}
}

func TestRouteMessage_RequiresAuthentication(t *testing.T) {
	manager, _ := setupManager(t, nil)
	client := newTestClient(manager, uuid.Nil, STATUS_UNAUTHENTICATED)

	client.routeMessage(Message{Type: events.PING})

	messages := drain(client)
	require.Len(t, messages, 1)
	assert.Equal(t, events.AUTH_FAILURE, messages[0].Type)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	manager, _ := setupManager(t, nil)
	client := newTestClient(manager, uuid.New(), STATUS_AUTHENTICATED)

	manager.hub.unregister(client)
	manager.hub.unregister(client)

	assert.Equal(t, 0, manager.hub.count())
	assert.False(t, manager.hub.enqueue(client, newMessage(events.PONG, "pong", nil)))
}
