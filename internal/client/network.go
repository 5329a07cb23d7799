// Package client implements the mapforge map viewer.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"mapforge/internal/mapgen"
	"mapforge/internal/protocol"

	"github.com/coder/websocket"
)

// maxMessageSize bounds a single server message. A 200x100 map with its
// continent grid fits well within it.
const maxMessageSize = 4 << 20

// ErrNotConnected is returned by requests made without a live connection.
var ErrNotConnected = errors.New("not connected to server")

// NetworkClient handles WebSocket communication with the map server.
type NetworkClient struct {
	conn     *websocket.Conn
	sendChan chan *protocol.Message
	done     chan struct{}
	mu       sync.Mutex

	// Callbacks
	OnMessage    func(*protocol.Message)
	OnConnect    func()
	OnDisconnect func(error)

	connected bool
}

// NewNetworkClient creates a new network client.
func NewNetworkClient() *NetworkClient {
	return &NetworkClient{
		sendChan: make(chan *protocol.Message, 64),
		done:     make(chan struct{}),
	}
}

// websocketURL turns a host[:port] or ws(s):// address into the /ws url.
func websocketURL(serverAddr string) string {
	switch {
	case strings.HasPrefix(serverAddr, "ws://"), strings.HasPrefix(serverAddr, "wss://"):
		return strings.TrimSuffix(serverAddr, "/") + "/ws"
	case strings.HasPrefix(serverAddr, "https://"):
		return "wss://" + strings.TrimSuffix(strings.TrimPrefix(serverAddr, "https://"), "/") + "/ws"
	case strings.HasPrefix(serverAddr, "http://"):
		return "ws://" + strings.TrimSuffix(strings.TrimPrefix(serverAddr, "http://"), "/") + "/ws"
	default:
		return "ws://" + serverAddr + "/ws"
	}
}

// Connect establishes a connection to the server.
func (c *NetworkClient) Connect(serverAddr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	url := websocketURL(serverAddr)
	log.Printf("Connecting to %s", url)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		log.Printf("WebSocket dial failed: %v", err)
		return err
	}

	conn.SetReadLimit(maxMessageSize)
	c.conn = conn
	c.connected = true
	c.done = make(chan struct{})

	go c.readPump(conn)
	go c.writePump(conn)

	if c.OnConnect != nil {
		c.OnConnect()
	}

	return nil
}

// Disconnect closes the connection.
func (c *NetworkClient) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return
	}

	c.connected = false
	close(c.done)

	if c.conn != nil {
		c.conn.Close(websocket.StatusNormalClosure, "")
		c.conn = nil
	}
}

// IsConnected returns true if connected to server.
func (c *NetworkClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Send queues a message to be sent to the server.
func (c *NetworkClient) Send(msg *protocol.Message) {
	select {
	case c.sendChan <- msg:
	default:
		log.Println("Send channel full, dropping message")
	}
}

// SendPayload creates and sends a message with the given type and payload.
func (c *NetworkClient) SendPayload(msgType protocol.MessageType, payload interface{}) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	c.Send(msg)
	return nil
}

// RequestMap asks the server to generate a map.
func (c *NetworkClient) RequestMap(p mapgen.Params, save bool) error {
	return c.SendPayload(protocol.TypeGenerateMap, protocol.GenerateMapPayload{
		Params: p,
		Save:   save,
	})
}

// RequestList asks for the stored maps.
func (c *NetworkClient) RequestList() error {
	return c.SendPayload(protocol.TypeListMaps, struct{}{})
}

// RequestStored fetches one stored map.
func (c *NetworkClient) RequestStored(id string) error {
	return c.SendPayload(protocol.TypeGetMap, protocol.GetMapPayload{ID: id})
}

// readPump reads messages from the WebSocket.
func (c *NetworkClient) readPump(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		wasConnected := c.connected
		c.connected = false
		c.mu.Unlock()

		if wasConnected && c.OnDisconnect != nil {
			c.OnDisconnect(nil)
		}
	}()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		// No read timeout; the write pump's pings detect dead peers.
		msgType, data, err := conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		if msgType != websocket.MessageText {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			continue
		}

		if c.OnMessage != nil {
			c.OnMessage(&msg)
		}
	}
}

// writePump writes messages to the WebSocket.
func (c *NetworkClient) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case msg := <-c.sendChan:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to marshal message: %v", err)
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
