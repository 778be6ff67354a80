package services

import (
	"encoding/json"
	"sync"
	"time"

	"fitquest/observability"

	"github.com/gorilla/websocket"
)

// DefaultWriteWait bounds one websocket write. Store mutations publish synchronously, so a
// stalled peer must not hold them longer than this.
const DefaultWriteWait = 10 * time.Second

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type WSClient struct {
	Identity string
	Conn     Conn
	// WriteWait overrides DefaultWriteWait when set.
	WriteWait time.Duration

	// gorilla connections allow one concurrent writer.
	writeMu sync.Mutex
}

func (c *WSClient) Write(messageType int, data []byte) error {
	wait := c.WriteWait
	if wait <= 0 {
		wait = DefaultWriteWait
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.Conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(messageType, data)
}

// RealtimeHub tracks the open websocket sessions of every identity.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.Identity] == nil {
		h.clients[c.Identity] = make(map[*WSClient]struct{})
	}
	h.clients[c.Identity][c] = struct{}{}
	h.mu.Unlock()
	observability.RealtimeConnections.Inc()
}

// Unregister removes c and closes its connection. Calling it twice is harmless.
func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	removed := false
	if set := h.clients[c.Identity]; set != nil {
		if _, ok := set[c]; ok {
			delete(set, c)
			removed = true
		}
		if len(set) == 0 {
			delete(h.clients, c.Identity)
		}
	}
	h.mu.Unlock()
	if removed {
		observability.RealtimeConnections.Dec()
		_ = c.Conn.Close()
	}
}

// Connections returns how many sessions identity has open.
func (h *RealtimeHub) Connections(identity string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[identity])
}

// Broadcast sends payload as JSON to every session of identity.
func (h *RealtimeHub) Broadcast(identity string, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[identity]))
	for c := range h.clients[identity] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.Write(websocket.TextMessage, msg); err != nil {
			h.Unregister(c)
		}
	}
}
