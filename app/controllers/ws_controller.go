package controllers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/inkpress/inkpress/internal/pkg/realtime"
	"github.com/inkpress/inkpress/internal/pkg/usercontext"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	liveUserLocal = "LIVE_USER"
)

// liveCommand is what subscribers send over the socket. Snapshots flow the
// other way only; clients never push data.
type liveCommand struct {
	Action string `json:"action"` // "subscribe" or "unsubscribe"
	Topic  string `json:"topic"`
}

// HandleLiveUpgrade gates the live endpoint to real websocket upgrades and
// carries the resolved identity into the upgraded handler.
func HandleLiveUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals(liveUserLocal, usercontext.GetUserContext(c))
	return c.Next()
}

// HandleLiveSocket serves one live subscription connection. Anonymous viewers
// may subscribe; they receive snapshots but never appear in presence rosters.
var HandleLiveSocket = websocket.New(func(conn *websocket.Conn) {
	user, _ := conn.Locals(liveUserLocal).(usercontext.UserContext)

	client := realtime.NewClient(user.UserID, user.Username)
	appHub.Register(client)

	go writePump(conn, client)
	readPump(conn, client)
})

// readPump consumes subscribe/unsubscribe commands until the peer goes away.
// It owns connection teardown: its deferred unregister closes the send channel,
// which in turn stops the write pump.
func readPump(conn *websocket.Conn, client *realtime.Client) {
	defer func() {
		appHub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd liveCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}
		topic := strings.TrimSpace(cmd.Topic)
		if !realtime.IsKnownTopic(topic) {
			continue
		}
		// comment reads are auth-gated; anonymous viewers only get the
		// post listing and presence rosters
		if strings.HasPrefix(topic, "comments:") && client.UserID == 0 {
			continue
		}

		switch cmd.Action {
		case "subscribe":
			appHub.Subscribe(client, topic)
		case "unsubscribe":
			appHub.Unsubscribe(client, topic)
		}
	}
}

// writePump forwards hub payloads to the peer and keeps the connection alive
// with pings. Returns when the client's send channel is closed.
func writePump(conn *websocket.Conn, client *realtime.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
