package transport

import (
	"bufio"
	"net"
	"sync"
)

// State is a transport client's position in the handshake/command
// lifecycle of spec §4.5.
type State int

const (
	StateAuthenticating State = iota
	StateReady
	StateClosing
)

// writeQueueSize bounds the per-client pending-outbound queue. A client
// that cannot keep up is torn down rather than let broadcast block on it
// (spec §4.5: "broadcast writes never block command processing").
const writeQueueSize = 256

// Client is one accepted control-plane connection: a duplex byte stream,
// a parsed-inbound reader and a single-flight outbound write queue (spec
// §3 "Transport client").
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	server *Server

	mu    sync.Mutex
	state State

	writeCh   chan writeItem
	closeOnce sync.Once
	done      chan struct{}
}

// writeItem is one entry of the outbound queue: a framed payload to
// write, optionally followed by a close once it has been flushed (used
// to guarantee an error reply reaches the peer before the socket closes).
type writeItem struct {
	payload    []byte
	closeAfter bool
}

func newClient(conn net.Conn, server *Server) *Client {
	c := &Client{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		server:  server,
		state:   StateAuthenticating,
		writeCh: make(chan writeItem, writeQueueSize),
		done:    make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// State returns the client's current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(st State) {
	c.mu.Lock()
	c.state = st
	c.mu.Unlock()
}

// enqueue appends payload to the outbound queue. If the queue is full the
// client is torn down instead of blocking the caller (spec §4.5
// back-pressure policy). writeCh is never closed, so this never races
// with writeLoop on a closed-channel send; done is the sole shutdown signal.
func (c *Client) enqueue(payload []byte) {
	c.push(writeItem{payload: frame(payload)})
}

// closeAfterFlush queues a close that only takes effect once every prior
// write has gone out, so an error reply is guaranteed to reach the peer
// before the socket is torn down (spec §8 scenario 6).
func (c *Client) closeAfterFlush() {
	c.push(writeItem{closeAfter: true})
}

func (c *Client) push(item writeItem) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.writeCh <- item:
	case <-c.done:
	default:
		c.Close()
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case item := <-c.writeCh:
			if len(item.payload) > 0 {
				if _, err := c.conn.Write(item.payload); err != nil {
					c.Close()
					return
				}
			}
			if item.closeAfter {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close tears the client down idempotently: its state becomes closing and
// it is removed from its parent server's client set. Already-queued
// writes may or may not reach the peer (spec §5).
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.setState(StateClosing)
		close(c.done)
		c.conn.Close()
		if c.server != nil {
			c.server.remove(c)
		}
	})
}
