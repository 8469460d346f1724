package notify

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/liarsdice-go/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 25 * time.Second

	// Time allowed to read the next pong from a websocket peer
	pongWait = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

const (
	transportSSE       = "sse"
	transportWebSocket = "websocket"
)

// Client is one open connection for a player
type Client struct {
	hub         *Hub
	playerID    model.PlayerID
	transport   string
	send        chan Message
	connectedAt time.Time
}

// NewClient creates a client attached to a hub
func NewClient(hub *Hub, playerID model.PlayerID, transport string) *Client {
	return &Client{
		hub:         hub,
		playerID:    playerID,
		transport:   transport,
		send:        make(chan Message, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE streams the hub's messages as Server-Sent Events until the
// request ends
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub, playerID, transportSSE)
	if !hub.Register(client) {
		http.Error(w, "notification hub closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	_, _ = w.Write(formatSSEMessage("connected", `{"status":"connected"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(formatSSEMessage(message.Event, string(message.Data))); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// ServeWebSocket upgrades the request and pushes the hub's messages as JSON
// text frames until either side goes away. Inbound frames are discarded.
func ServeWebSocket(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader, hub *Hub, playerID model.PlayerID) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	client := NewClient(hub, playerID, transportWebSocket)
	if !hub.Register(client) {
		return nil
	}
	defer hub.Unregister(client)

	// The read loop only exists to process pongs and notice a close
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, wsFrame(message)); err != nil {
				return nil
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}

		case <-readDone:
			return nil

		case <-r.Context().Done():
			return nil
		}
	}
}

// wsFrame wraps an event as {"event":...,"data":...}. Data is already JSON.
func wsFrame(message Message) []byte {
	data := message.Data
	if len(data) == 0 {
		data = []byte("null")
	}
	frame := make([]byte, 0, len(data)+len(message.Event)+20)
	frame = append(frame, `{"event":"`...)
	frame = append(frame, message.Event...)
	frame = append(frame, `","data":`...)
	frame = append(frame, data...)
	frame = append(frame, '}')
	return frame
}
