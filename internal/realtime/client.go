package realtime

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	// feedQueueSize bounds the per-dashboard backlog; Publish drops entries
	// for a dashboard whose queue is full rather than stalling the webhook
	// path that produces them.
	feedQueueSize = 16

	keepAliveInterval = 30 * time.Second
	entryWriteTimeout = 5 * time.Second

	// The feed is one-way; anything a dashboard sends beyond control frames
	// is noise, so cap inbound frames tightly.
	maxInboundBytes = 512
)

// Client is one admin dashboard subscribed to the feed.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, feedQueueSize),
	}
}

// Run subscribes the dashboard and serves feed entries until it disconnects
// or ctx ends, then unsubscribes.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Inbound frames must still be serviced for the library to answer
	// pings and observe the close handshake; a read error ends the feed.
	go func() {
		defer cancel()
		c.conn.SetReadLimit(maxInboundBytes)
		for {
			if _, _, err := c.conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	c.serveFeed(ctx)
}

// serveFeed drains the queue onto the wire. Each entry gets its own write
// deadline so one wedged dashboard cannot hold the goroutine forever, and
// idle stretches are bridged with pings to detect half-open connections.
func (c *Client) serveFeed(ctx context.Context) {
	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case entry, ok := <-c.send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, entryWriteTimeout)
			err := c.conn.Write(wctx, ws.MessageText, entry)
			cancel()
			if err != nil {
				return
			}
		case <-keepAlive.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
