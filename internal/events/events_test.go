package events

import (
	"errors"
	"testing"

	"hotelparadise/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_LocalDelivery(t *testing.T) {
	bus := New(nil, config.Config{})
	defer bus.Close()

	var received []Event
	require.NoError(t, bus.Subscribe(ROOM_STATUS_CHANNEL, func(event Event) error {
		received = append(received, event)
		return nil
	}))
	require.NoError(t, bus.Subscribe(ROOM_STATUS_CHANNEL, func(event Event) error {
		return errors.New("second handler fails")
	}))

	err := bus.Publish(ROOM_STATUS_CHANNEL, Event{
		Type: ROOM_STATUS,
		Data: map[string]any{"roomNumber": "305"},
	})

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
	assert.Equal(t, ROOM_STATUS_CHANNEL, received[0].Channel)
	assert.Equal(t, "305", received[0].Data["roomNumber"])
}

func TestEventBus_ChannelsAreIsolated(t *testing.T) {
	bus := New(nil, config.Config{})
	defer bus.Close()

	calls := 0
	require.NoError(t, bus.Subscribe(NOTIFICATION_CHANNEL, func(event Event) error {
		calls++
		return nil
	}))

	userID := uuid.New()
	require.NoError(t, bus.Publish(ROOM_STATUS_CHANNEL, Event{Type: ROOM_STATUS}))
	require.NoError(t, bus.Publish(NOTIFICATION_CHANNEL, Event{Type: NOTIFICATION, UserID: &userID}))

	assert.Equal(t, 1, calls)
}
