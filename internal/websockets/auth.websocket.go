package websockets

import (
	"context"
	"time"

	"hotelparadise/internal/events"
	. "hotelparadise/internal/models"
)

func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	time.AfterFunc(AUTH_HANDSHAKE_TIMEOUT, func() {
		if c.Status() == STATUS_AUTHENTICATED {
			return
		}

		log.Warn("Client failed to authenticate within timeout", "clientID", c.ID)
		c.Manager.hub.enqueue(c, newMessage(
			events.AUTH_FAILURE,
			"authentication_timeout",
			map[string]any{"reason": "Authentication timeout"},
		))
		c.closeSoon()
	})
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status() == STATUS_AUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		c.sendAuthFailure("Invalid token format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), WRITE_TIMEOUT)
	defer cancel()

	user, err := c.Manager.authenticator.Authenticate(ctx, token, TokenTypeAccess)
	if err != nil {
		log.Info("WebSocket token rejected", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	c.UserID = user.ID
	c.status.Store(STATUS_AUTHENTICATED)

	log.Info("WebSocket client authenticated", "clientID", c.ID, "userID", user.ID)

	success := newMessage(events.AUTH_SUCCESS, "authenticated", map[string]any{
		"userId": user.ID.String(),
		"rol":    user.Role.ClientRole(),
	})
	success.UserID = user.ID.String()
	c.Manager.hub.enqueue(c, success)
}

func (c *Client) sendAuthFailure(reason string) {
	c.Manager.hub.enqueue(c, newMessage(
		events.AUTH_FAILURE,
		"authentication_failed",
		map[string]any{"reason": reason},
	))
	c.closeSoon()
}

// closeSoon gives the write pump a moment to flush the last message.
func (c *Client) closeSoon() {
	if c.Connection == nil {
		return
	}
	time.AfterFunc(100*time.Millisecond, func() {
		_ = c.Connection.Close()
	})
}
