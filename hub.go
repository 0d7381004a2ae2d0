package main

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub manages all connected clients and routes them to rooms
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	rooms      *RoomManager
	auth       *Auth
	metrics    *Metrics
	log        zerolog.Logger
	baseURL    string
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a new Hub
func NewHub(rooms *RoomManager, auth *Auth, metrics *Metrics, baseURL string, log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		rooms:      rooms,
		auth:       auth,
		metrics:    metrics,
		log:        log,
		baseURL:    baseURL,
		ipConns:    make(map[string]int),
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
	h.metrics.SetPeers(h.totalConns)
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
	h.metrics.SetPeers(h.totalConns)
}

// Run processes register/unregister events until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			client.detach()

		case <-ctx.Done():
			return
		}
	}
}

// ControllerURL is the address a phone opens to pair with roomID
func (h *Hub) ControllerURL(roomID, token string) string {
	q := url.Values{}
	q.Set("room", roomID)
	q.Set("token", token)
	return fmt.Sprintf("%s/controller?%s", h.baseURL, q.Encode())
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
