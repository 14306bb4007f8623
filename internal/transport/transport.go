// Package transport implements the control-plane acceptor of spec §4.5:
// it wraps a TCP, TLS-on-TCP or Unix-socket listener, greets each client,
// runs the optional password handshake, and frames the JSON
// request/response and broadcast protocol of spec §6.1. Command execution
// itself is delegated to a Handler supplied by the embedder (the bot
// glue), so this package never imports the registries it serves.
package transport

import (
	"encoding/json"
	"log"
	"net"
	"sync"

	"github.com/dalnet/irccd/internal/ircerr"
)

// Greeting is the server-initiated handshake object, always sent first
// (spec §6.1).
type Greeting struct {
	Program    string `json:"program"`
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	Patch      int    `json:"patch"`
	Javascript bool   `json:"javascript"`
	SSL        bool   `json:"ssl"`
}

// Handler executes one parsed command for client and returns the reply
// body (without the "command" field, which Server fills in) or a typed
// error to be serialised back to the requester.
type Handler interface {
	Handle(client *Client, command string, req map[string]interface{}) (map[string]interface{}, error)
}

// Server accepts connections on a single listener and manages their
// client lifecycle (spec §4.5).
type Server struct {
	Listener net.Listener
	Password string
	Greeting Greeting
	Handler  Handler
	Logger   *log.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// New constructs a Server around an already-bound listener.
func New(listener net.Listener, password string, greeting Greeting, handler Handler, logger *log.Logger) *Server {
	return &Server{
		Listener: listener,
		Password: password,
		Greeting: greeting,
		Handler:  handler,
		Logger:   logger,
		clients:  make(map[*Client]struct{}),
	}
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.Listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	client := newClient(conn, s)

	greeting, err := json.Marshal(s.Greeting)
	if err != nil {
		client.Close()
		return
	}
	client.enqueue(greeting)

	if s.Password == "" {
		client.setState(StateReady)
	}

	s.add(client)

	for {
		raw, err := readFrame(client.reader)
		if err != nil {
			client.Close()
			return
		}
		if !s.handleFrame(client, raw) {
			client.closeAfterFlush()
			return
		}
	}
}

// handleFrame processes one inbound frame and reports whether the
// connection should stay open.
func (s *Server) handleFrame(client *Client, raw []byte) bool {
	var req map[string]interface{}
	if err := json.Unmarshal(raw, &req); err != nil {
		s.replyError(client, "", ircerr.InvalidMessage())
		return true
	}

	name, _ := req["command"].(string)
	if name == "" {
		s.replyError(client, "", ircerr.InvalidMessage())
		return true
	}

	if client.State() == StateAuthenticating {
		return s.handleAuth(client, name, req)
	}

	return s.handleCommand(client, name, req)
}

func (s *Server) handleAuth(client *Client, name string, req map[string]interface{}) bool {
	if name != "auth" {
		s.replyError(client, name, ircerr.TransportAuthRequired())
		return false
	}
	password, _ := req["password"].(string)
	if password != s.Password {
		s.replyError(client, "auth", ircerr.TransportInvalidAuth())
		return false
	}
	client.setState(StateReady)
	s.reply(client, "auth", nil)
	return true
}

func (s *Server) handleCommand(client *Client, name string, req map[string]interface{}) bool {
	if s.Handler == nil {
		s.replyError(client, name, ircerr.InvalidCommand(name))
		return true
	}
	body, err := s.Handler.Handle(client, name, req)
	if err != nil {
		s.replyError(client, name, err)
		return true
	}
	s.reply(client, name, body)
	return true
}

func (s *Server) reply(client *Client, command string, body map[string]interface{}) {
	out := map[string]interface{}{"command": command}
	for k, v := range body {
		out[k] = v
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return
	}
	client.enqueue(payload)
}

func (s *Server) replyError(client *Client, command string, err error) {
	out := map[string]interface{}{"command": command}
	if ie, ok := err.(*ircerr.Error); ok {
		out["error"] = ie.Code
		out["errorCategory"] = string(ie.Category)
		out["errorMessage"] = ie.Message
	} else {
		out["error"] = -1
		out["errorCategory"] = "transport"
		out["errorMessage"] = err.Error()
	}
	payload, jerr := json.Marshal(out)
	if jerr != nil {
		return
	}
	client.enqueue(payload)
}

func (s *Server) add(c *Client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) remove(c *Client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

// Broadcast delivers payload to every client currently in state ready. It
// satisfies dispatch.Broadcaster and never blocks on a slow client (spec
// §4.5: a client that cannot accept writes is torn down instead).
func (s *Server) Broadcast(payload []byte) {
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if c.State() == StateReady {
			c.enqueue(payload)
		}
	}
}
