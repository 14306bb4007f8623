// Package ircsession implements the per-network state machine of spec
// §4.2: one goroutine owns a server's connection end to end (connect,
// identify, pump the outbound queue, classify inbound messages) and every
// mutation of its state happens on that goroutine, reached only through
// submitted closures or the timer/recv channels it selects on.
package ircsession

import (
	"context"
	"crypto/tls"
	"log"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/dalnet/irccd/internal/event"
	"github.com/dalnet/irccd/internal/ircconn"
	"github.com/dalnet/irccd/internal/ircerr"
	"github.com/dalnet/irccd/internal/ircwire"
)

// State is one phase of the per-server lifecycle of spec §4.2.
type State int

const (
	Disconnected State = iota
	Connecting
	Identifying
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Identifying:
		return "identifying"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// ChannelRequest is stable across reconnects so rejoin after identify is
// automatic (spec §3 "Channel request").
type ChannelRequest struct {
	Name     string
	Password string
}

// Options are the server option flags of spec §3. At least one of
// IPv4/IPv6 must be set.
type Options struct {
	IPv4          bool
	IPv6          bool
	TLS           bool
	AutoRejoin    bool
	AutoReconnect bool
	JoinInvite    bool
}

// Config is the static attribute set of spec §3 "Server".
type Config struct {
	ID             string
	Hostname       string
	Port           int
	Password       string
	Nickname       string
	Username       string
	Realname       string
	CTCPVersion    string
	CommandChar    string
	ReconnectDelay time.Duration
	PingTimeout    time.Duration
	Options        Options
	TLSConfig      *tls.Config
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate enforces the attribute invariants of spec §3 and §8, returning
// the first violation as a typed server error.
func (c Config) Validate() error {
	if c.ID == "" || !identifierPattern.MatchString(c.ID) {
		return ircerr.ServerInvalidIdentifier(c.ID)
	}
	if c.Hostname == "" {
		return ircerr.ServerInvalidHostname()
	}
	if c.Port < 1 || c.Port > 65535 {
		return ircerr.ServerInvalidPort()
	}
	if c.Nickname == "" {
		return ircerr.ServerInvalidNickname()
	}
	if c.Username == "" {
		return ircerr.ServerInvalidUsername()
	}
	if c.Realname == "" {
		return ircerr.ServerInvalidRealname()
	}
	if c.CommandChar == "" {
		return ircerr.ServerInvalidCommandChar()
	}
	if c.ReconnectDelay <= 0 {
		return ircerr.ServerInvalidReconnectDelay()
	}
	if c.PingTimeout <= 0 {
		return ircerr.ServerInvalidPingTimeout()
	}
	if !c.Options.IPv4 && !c.Options.IPv6 {
		return ircerr.ServerInvalidFamily()
	}
	return nil
}

type whoisAccumulator struct {
	Nickname string
	Username string
	Hostname string
	Realname string
	Channels []string
}

// Info is a read-only snapshot of a server's runtime state, safe to read
// concurrently with the session goroutine (spec §5 shared-resource
// policy: snapshot before exposing, never hand out live internals).
type Info struct {
	ID          string
	State       State
	Nickname    string
	Requested   []ChannelRequest
	Joined      []string
	Hostname    string
	Port        int
	CommandChar string
	Options     Options
}

type opRequest struct {
	fn     func() error
	result chan error
}

type recvResult struct {
	msg ircwire.Message
	err error
}

type timerEvent int

const (
	timerPing timerEvent = iota
	timerReconnect
)

// Server drives one network's connection lifecycle.
type Server struct {
	cfg    Config
	sink   func(event.Event)
	logger *log.Logger

	actions chan opRequest
	timers  chan timerEvent
	stopped chan struct{}

	snapshot atomic.Value // Info

	// Touched only by the run() goroutine.
	state      State
	nickname   string
	requested  []ChannelRequest
	joined     map[string]bool
	prefixes   map[byte]byte
	prefixSeq  []byte
	queue      []ircwire.Message
	namesAcc   map[string][]string
	whoisAcc   map[string]*whoisAccumulator
	conn       *ircconn.Conn
	pingTimer  *time.Timer
	forceReconnect bool
	cancelRun  context.CancelFunc

	// userQuit is read from run() and written from Stop(), which must
	// never route through submit (a dial in flight has nothing reading
	// actions yet), so it is the one piece of session state touched from
	// both sides without going through the actor loop.
	userQuit atomic.Bool
}

// New constructs a Server bound to cfg. sink receives every event this
// server emits; logger receives informational/warning lines in the
// teacher's plain *log.Logger idiom.
func New(cfg Config, sink func(event.Event), logger *log.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		sink:     sink,
		logger:   logger,
		actions:  make(chan opRequest),
		timers:   make(chan timerEvent, 1),
		stopped:  make(chan struct{}),
		nickname: cfg.Nickname,
		joined:   make(map[string]bool),
		namesAcc: make(map[string][]string),
		whoisAcc: make(map[string]*whoisAccumulator),
	}
	s.publishSnapshot()
	return s
}

// Start launches the connection goroutine. It returns immediately; the
// server begins in state connecting.
func (s *Server) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelRun = cancel
	go s.run(runCtx)
}

// Stop disconnects the server and prevents any further reconnect. Per the
// documented asymmetry of spec §9 Open Question (a), no onDisconnect is
// emitted for this explicit, user-initiated path.
func (s *Server) Stop() {
	s.userQuit.Store(true)
	// Cancel first: a dial in flight has no reader on actions yet, so
	// submit would block until either this context is canceled (unblocking
	// doConnect) or run() has already wound down. Canceling up front makes
	// both paths terminate promptly; submit itself degrades gracefully via
	// its <-s.stopped branch either way.
	if s.cancelRun != nil {
		s.cancelRun()
	}
	_ = s.submit(func() error {
		if s.conn != nil {
			s.conn.Disconnect()
		}
		return nil
	})
	<-s.stopped
}

// ID returns the server's configured identifier.
func (s *Server) ID() string { return s.cfg.ID }

// CommandChar returns the server's configured plugin-command prefix
// character, immutable for the session's lifetime.
func (s *Server) CommandChar() string { return s.cfg.CommandChar }

// Snapshot returns the server's current read-only state.
func (s *Server) Snapshot() Info {
	return s.snapshot.Load().(Info)
}

func (s *Server) publishSnapshot() {
	joined := make([]string, 0, len(s.joined))
	for c := range s.joined {
		joined = append(joined, c)
	}
	requested := make([]ChannelRequest, len(s.requested))
	copy(requested, s.requested)
	s.snapshot.Store(Info{
		ID:          s.cfg.ID,
		State:       s.state,
		Nickname:    s.nickname,
		Requested:   requested,
		Joined:      joined,
		Hostname:    s.cfg.Hostname,
		Port:        s.cfg.Port,
		CommandChar: s.cfg.CommandChar,
		Options:     s.cfg.Options,
	})
}

// submit runs fn on the session goroutine and waits for its result. It is
// the only way code outside run() touches session-owned state.
func (s *Server) submit(fn func() error) error {
	req := opRequest{fn: fn, result: make(chan error, 1)}
	select {
	case s.actions <- req:
	case <-s.stopped:
		return ircerr.ServerNotConnected(s.cfg.ID)
	}
	select {
	case err := <-req.result:
		return err
	case <-s.stopped:
		return ircerr.ServerNotConnected(s.cfg.ID)
	}
}

func (s *Server) setState(st State) {
	s.state = st
	s.publishSnapshot()
}

func (s *Server) emit(e event.Event) {
	if s.sink != nil {
		s.sink(e)
	}
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf("server %s: "+format, append([]interface{}{s.cfg.ID}, args...)...)
	}
}

func (s *Server) run(ctx context.Context) {
	defer close(s.stopped)
	for {
		if ctx.Err() != nil {
			return
		}

		s.setState(Connecting)
		conn, err := s.doConnect(ctx)
		if err != nil {
			s.logf("connect failed: %v", err)
			s.setState(Disconnected)
			if !s.waitReconnect(ctx) {
				return
			}
			continue
		}

		s.conn = conn
		s.setState(Identifying)
		s.prependIdentifyLines()
		s.startPingTimer()

		recvCh := s.startRecv(conn)
		s.serve(ctx, recvCh)

		s.stopPingTimer()
		conn.Disconnect()
		s.conn = nil
		s.setState(Disconnected)

		quit := s.drainActionsUntilIdle()
		if !s.userQuit.Load() {
			s.emit(event.Event{Kind: event.KindDisconnect, Server: s.cfg.ID})
		}
		forced := s.forceReconnect
		s.forceReconnect = false
		if quit || s.userQuit.Load() || (!s.cfg.Options.AutoReconnect && !forced) {
			return
		}
		if forced {
			continue
		}
		if !s.waitReconnect(ctx) {
			return
		}
	}
}

// drainActionsUntilIdle services any op requests queued up while the
// connection was tearing down, so callers of submit never block forever
// across a reconnect boundary. It returns true if the run loop was asked
// to stop while doing so.
func (s *Server) drainActionsUntilIdle() bool {
	for {
		select {
		case req := <-s.actions:
			req.result <- req.fn()
			if s.userQuit.Load() {
				return true
			}
		default:
			return false
		}
	}
}

func (s *Server) doConnect(ctx context.Context) (*ircconn.Conn, error) {
	opts := ircconn.Options{
		TLS:       s.cfg.Options.TLS,
		TLSConfig: s.cfg.TLSConfig,
		Family:    ircconn.Family{IPv4: s.cfg.Options.IPv4, IPv6: s.cfg.Options.IPv6},
	}
	conn := ircconn.New(opts)
	if err := conn.Connect(ctx, s.cfg.Hostname, s.cfg.Port); err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *Server) startRecv(conn *ircconn.Conn) <-chan recvResult {
	ch := make(chan recvResult, 64)
	go func() {
		defer close(ch)
		for {
			msg, err := conn.Recv()
			ch <- recvResult{msg: msg, err: err}
			if err != nil {
				if ce, ok := err.(*ircconn.Error); ok && ce.Kind == ircconn.ErrDecodeError {
					continue
				}
				return
			}
		}
	}()
	return ch
}

// serve is the main select loop for one live connection: it drains the
// outbound queue, classifies inbound messages, and watches the ping
// deadline. It returns once the connection is judged dead.
func (s *Server) serve(ctx context.Context, recvCh <-chan recvResult) {
	for {
		if s.flushOne() {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case req := <-s.actions:
			req.result <- req.fn()
		case r, ok := <-recvCh:
			if !ok {
				return
			}
			if r.err != nil {
				s.logf("recv error: %v", r.err)
				return
			}
			s.handleMessage(r.msg)
		case k := <-s.timers:
			if k == timerPing {
				s.logf("ping timeout")
				return
			}
		}
	}
}

// flushOne sends the next queued line if the state allows draining (spec
// §4.2: "queue is drained only in identifying/connected") and reports
// whether it sent anything.
func (s *Server) flushOne() bool {
	if s.state != Identifying && s.state != Connected {
		return false
	}
	if len(s.queue) == 0 {
		return false
	}
	msg := s.queue[0]
	s.queue = s.queue[1:]
	if err := s.conn.Send(msg); err != nil {
		s.logf("send error: %v", err)
		s.queue = nil
		return false
	}
	return true
}

func (s *Server) enqueue(msg ircwire.Message) {
	s.queue = append(s.queue, msg)
}

func (s *Server) prepend(msgs ...ircwire.Message) {
	s.queue = append(msgs, s.queue...)
}

func (s *Server) prependIdentifyLines() {
	var lines []ircwire.Message
	if s.cfg.Password != "" {
		lines = append(lines, ircwire.Message{Command: "PASS", Params: []string{s.cfg.Password}})
	}
	lines = append(lines,
		ircwire.Message{Command: "NICK", Params: []string{s.nickname}},
		ircwire.Message{Command: "USER", Params: []string{s.cfg.Username, "unknown", "unknown", s.cfg.Realname}},
	)
	s.prepend(lines...)
}

func (s *Server) startPingTimer() {
	s.stopPingTimer()
	s.pingTimer = time.AfterFunc(s.cfg.PingTimeout, func() {
		select {
		case s.timers <- timerPing:
		case <-s.stopped:
		}
	})
}

func (s *Server) stopPingTimer() {
	if s.pingTimer != nil {
		s.pingTimer.Stop()
		s.pingTimer = nil
	}
}

// waitReconnect sleeps for the configured delay on a cancelable timer; it
// returns false if the context was canceled or Stop() was called first,
// in which case run() must return without reconnecting.
func (s *Server) waitReconnect(ctx context.Context) bool {
	if !s.cfg.Options.AutoReconnect {
		return false
	}
	timer := time.NewTimer(s.cfg.ReconnectDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return !s.userQuit.Load()
		case req := <-s.actions:
			req.result <- req.fn()
			if s.userQuit.Load() {
				return false
			}
		}
	}
}
