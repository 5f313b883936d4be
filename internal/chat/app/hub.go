package app

import (
	"context"
	"sync"

	"chatterbox_service/internal/chat/domain"
	"chatterbox_service/pkg/logger"
)

// Hub tracks connected clients, room membership and presence.
// All maps are guarded by mu, fanout never blocks on a slow client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[domain.RoomID]map[*Client]struct{}
	// online connection count per member, presence events fire on 0<->1
	online map[string]int
}

// NewHub create an empty Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[domain.RoomID]map[*Client]struct{}),
		online:  make(map[string]int),
	}
}

// Run block until ctx is done, then disconnect every client
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
	logger.Log.Info("hub stopped")
}

// Register add a client and announce userOnline on its first connection
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.online[c.MemberID]++
	first := h.online[c.MemberID] == 1
	h.mu.Unlock()

	if first {
		h.BroadcastOthers(c, domain.WSEvent{
			Event:   domain.EventUserOnline,
			Payload: domain.PresencePayload{UserID: c.MemberID},
		})
	}
	logger.Log.Debugf("client registered: %s", c.MemberID)
}

// Unregister drop a client from every room and announce userOffline
// when its last connection is gone
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.detachLocked(c, room)
	}
	h.online[c.MemberID]--
	last := h.online[c.MemberID] == 0
	if last {
		delete(h.online, c.MemberID)
	}
	h.mu.Unlock()

	c.Close()
	if last {
		h.BroadcastOthers(c, domain.WSEvent{
			Event:   domain.EventUserOffline,
			Payload: domain.PresencePayload{UserID: c.MemberID},
		})
	}
	logger.Log.Debugf("client unregistered: %s", c.MemberID)
}

// Join subscribe the client to a room
func (h *Hub) Join(c *Client, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}
}

// Leave unsubscribe the client from a room
func (h *Hub) Leave(c *Client, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c, room)
}

// InRoom report whether the client currently subscribes to the room
func (h *Hub) InRoom(c *Client, room domain.RoomID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := c.rooms[room]
	return ok
}

// IsOnline report whether the member has at least one live connection
func (h *Hub) IsOnline(memberID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.online[memberID] > 0
}

// BroadcastRoom deliver an event to every client in the room
func (h *Hub) BroadcastRoom(room domain.RoomID, evt domain.WSEvent) {
	h.fanout(room, nil, evt)
}

// BroadcastRoomExcept deliver an event to every client in the room but one
func (h *Hub) BroadcastRoomExcept(room domain.RoomID, except *Client, evt domain.WSEvent) {
	h.fanout(room, except, evt)
}

// BroadcastOthers deliver an event to every connected client but one
func (h *Hub) BroadcastOthers(except *Client, evt domain.WSEvent) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c != except {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Enqueue(evt)
	}
}

func (h *Hub) fanout(room domain.RoomID, except *Client, evt domain.WSEvent) {
	h.mu.RLock()
	members := h.rooms[room]
	targets := make([]*Client, 0, len(members))
	for c := range members {
		if c != except {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Enqueue(evt)
	}
}

// detachLocked caller must hold mu
func (h *Hub) detachLocked(c *Client, room domain.RoomID) {
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}
