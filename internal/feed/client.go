package feed

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client bridges one hub subscription onto a websocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	subID  uint64
	events <-chan Event
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	subID, events := hub.Subscribe()
	return &Client{
		hub:    hub,
		conn:   conn,
		subID:  subID,
		events: events,
	}
}

// Run pumps events to the peer until the subscription or the connection
// ends. It blocks, so callers usually invoke it on its own goroutine.
func (c *Client) Run() {
	go c.readPump()
	c.writePump()
}

// writePump serializes hub events onto the connection and keeps the peer
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.Unsubscribe(c.subID)
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.events:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub dropped us
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				log.Printf("feed: write error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the feed is one-way. It exists to
// process pongs and to notice the peer going away.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unsubscribe(c.subID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
