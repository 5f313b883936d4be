package app

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"chatterbox_service/internal/chat/domain"
	"chatterbox_service/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// sendBuffer outbound queue per client, events are dropped when full
	sendBuffer = 64
)

// wsConn the subset of *websocket.Conn the client needs, mockable in tests
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

// Client one live websocket connection of a member
type Client struct {
	MemberID string

	conn wsConn
	send chan domain.WSEvent
	// rooms this client joined, guarded by the hub mutex
	rooms map[domain.RoomID]struct{}

	once sync.Once
	done chan struct{}
}

// NewClient wrap an accepted connection
func NewClient(memberID string, conn wsConn) *Client {
	return &Client{
		MemberID: memberID,
		conn:     conn,
		send:     make(chan domain.WSEvent, sendBuffer),
		rooms:    make(map[domain.RoomID]struct{}),
		done:     make(chan struct{}),
	}
}

// Enqueue queue an event for delivery without blocking the caller.
// A client that cannot drain its buffer loses events rather than
// stalling the fanout.
func (c *Client) Enqueue(evt domain.WSEvent) {
	select {
	case c.send <- evt:
	case <-c.done:
	default:
		logger.Log.Warnf("send buffer full, dropping %s event for %s", evt.Event, c.MemberID)
	}
}

// Close terminate the connection, safe to call more than once
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		if err := c.conn.Close(); err != nil {
			logger.Log.Debugf("close connection for %s: %v", c.MemberID, err)
		}
	})
}

// writePump drain the send queue onto the wire and keep the
// connection alive with pings, one goroutine per client
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case evt := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(evt); err != nil {
				logger.Log.Debugf("write to %s failed: %v", c.MemberID, err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
