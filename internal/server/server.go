// Package server implements the map generation service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"mapforge/internal/database"
	"mapforge/internal/protocol"
	"mapforge/internal/rng"
)

// Version is reported to clients in the welcome message.
const Version = "0.1.0"

// Server is the map generation server.
type Server struct {
	db     *database.DB
	hub    *Hub
	addr   string
	server *http.Server

	// seeds hands out fresh seeds for requests that do not pick one
	seedMu  sync.Mutex
	seeds   *rng.RNG
	verbose bool
}

// Config holds server configuration.
type Config struct {
	Addr string
	// DBPath enables map storage. Without it maps are only generated.
	DBPath string
	Seed   uint64
	// Verbose passes generation logging through to the server log.
	Verbose bool
}

// New creates a new server.
func New(cfg Config) (*Server, error) {
	s := &Server{
		addr:    cfg.Addr,
		seeds:   rng.New(cfg.Seed),
		verbose: cfg.Verbose,
	}
	if cfg.DBPath != "" {
		db, err := database.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		log.Printf("Map store %s at schema version %d", cfg.DBPath, db.Version())
		s.db = db
	}
	s.hub = NewHub(s)
	return s, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// API endpoints for stored maps
	mux.HandleFunc("/api/maps", s.handleListMaps)
	mux.HandleFunc("/api/maps/{id}", s.handleGetMap)
	return mux
}

// Start starts the server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	log.Printf("Mapforge Server")
	log.Printf("  Address: http://localhost%s", s.addr)
	if s.db != nil {
		log.Printf("  Storage: enabled")
	} else {
		log.Printf("  Storage: disabled")
	}
	log.Printf("  WebSocket: ws://localhost%s/ws", s.addr)
	log.Printf("")
	log.Printf("Press Ctrl+C to stop")

	go s.hub.Run()

	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.hub.Stop()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// nextSeed draws a seed for a request that left it at 0.
func (s *Server) nextSeed() uint64 {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	return s.seeds.Uint64() | 1
}

// handleWebSocket accepts WebSocket connections.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow all origins for now
	})
	if err != nil {
		log.Printf("WebSocket accept failed: %v", err)
		return
	}

	client := NewClient(s.hub, conn)
	s.hub.Register(client)

	// The request context ends when this handler returns, so the pumps get
	// their own.
	ctx, cancel := context.WithCancel(context.Background())
	go client.WritePump(ctx)
	client.ReadPump(ctx)
	cancel()
}

// handleListMaps returns the stored maps.
func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.db == nil {
		http.Error(w, "Storage disabled", http.StatusNotFound)
		return
	}

	list, err := s.db.ListMaps()
	if err != nil {
		http.Error(w, "Failed to list maps", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*database.MapInfo{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Health is the body of the /health endpoint.
type Health struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
	Storage bool   `json:"storage"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Health{
		Status:  "ok",
		Clients: s.hub.ClientCount(),
		Storage: s.db != nil,
	})
}

// handleGetMap returns one stored map in the export format.
func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.db == nil {
		http.Error(w, "Storage disabled", http.StatusNotFound)
		return
	}

	sm, err := s.db.GetMap(r.PathValue("id"))
	if errors.Is(err, database.ErrMapNotFound) {
		http.Error(w, "Map not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load map", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(protocol.MapDataPayload{Map: sm.Map.ToRaw(), Params: sm.Params})
}

// Hub maintains the set of active clients.
type Hub struct {
	server *Server

	// Registered clients
	clients map[*Client]bool

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Inbound messages from clients
	inbound chan *ClientMessage

	done chan struct{}
	once sync.Once
	mu   sync.RWMutex
}

// ClientMessage wraps a message with its source client.
type ClientMessage struct {
	Client  *Client
	Message *protocol.Message
}

// NewHub creates a new Hub.
func NewHub(server *Server) *Hub {
	return &Hub{
		server:     server,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *ClientMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

			// Send welcome message
			h.sendWelcome(client)

		case client := <-h.unregister:
			h.handleDisconnect(client)

		case msg := <-h.inbound:
			// Generation is slow, so it must not block the hub
			go h.handleMessage(msg)

		case <-h.done:
			return
		}
	}
}

// Stop ends the hub loop.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Dispatch queues a message from a client for handling.
func (h *Hub) Dispatch(client *Client, msg *protocol.Message) {
	select {
	case h.inbound <- &ClientMessage{Client: client, Message: msg}:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// sendWelcome sends a welcome message to a new client.
func (h *Hub) sendWelcome(client *Client) {
	payload := protocol.WelcomePayload{
		ServerVersion: Version,
		Storage:       h.server.db != nil,
	}
	msg, _ := protocol.NewMessage(protocol.TypeWelcome, payload)
	client.Send(msg)
}

// handleDisconnect handles a client disconnecting.
func (h *Hub) handleDisconnect(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.closeSend()
}

// handleMessage routes incoming messages.
func (h *Hub) handleMessage(cm *ClientMessage) {
	handlers := NewHandlers(h.server)
	handlers.Handle(cm.Client, cm.Message)
}

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *protocol.Message

	mu     sync.Mutex
	closed bool
}

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 65536
)

// NewClient creates a new client.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan *protocol.Message, 256),
	}
}

// Send queues a message to be sent to the client.
func (c *Client) Send(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		// Channel full, client too slow
		go c.hub.Unregister(c)
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump pumps messages from the WebSocket to the hub.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		msgType, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Invalid message: %v", err)
			continue
		}

		c.hub.Dispatch(c, &msg)
	}
}

// WritePump pumps messages from the hub to the WebSocket.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "")
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to marshal message: %v", err)
				continue
			}

			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err = c.conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
