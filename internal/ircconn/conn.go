// Package ircconn implements the framed IRC transport of spec §4.1: a
// socket that speaks CRLF-terminated lines over plain TCP or TLS-on-TCP,
// selectable over IPv4/IPv6, with exactly one in-flight recv and one
// in-flight send.
package ircconn

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/dalnet/irccd/internal/ircwire"
)

// ErrorKind classifies a connection failure the way spec §4.1 names them.
type ErrorKind string

const (
	ErrResolveFailed ErrorKind = "resolve_failed"
	ErrConnectFailed ErrorKind = "connect_failed"
	ErrTLSFailed     ErrorKind = "tls_failed"
	ErrTimeout       ErrorKind = "timeout"
	ErrClosed        ErrorKind = "closed"
	ErrOversizeLine  ErrorKind = "oversize_line"
	ErrDecodeError   ErrorKind = "decode_error"
	ErrIOError       ErrorKind = "io_error"
)

// Error wraps a connection failure with its kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// maxLineLength bounds a single incoming line; anything longer is reported
// as ErrOversizeLine and the connection is treated as dead.
const maxLineLength = 8192

// Family selects which IP address families connect() may use. At least one
// must be set; server.invalid_family (spec §7) is enforced by the caller.
type Family struct {
	IPv4 bool
	IPv6 bool
}

func (f Family) network() string {
	switch {
	case f.IPv4 && f.IPv6:
		return "tcp"
	case f.IPv4:
		return "tcp4"
	case f.IPv6:
		return "tcp6"
	default:
		return "tcp"
	}
}

// Options configures a Conn before Connect is called.
type Options struct {
	TLS       bool
	TLSConfig *tls.Config
	Family    Family
}

// Conn is a single framed IRC socket. It enforces at most one in-flight
// recv and one in-flight send via dedicated mutexes, matching the "owns
// exactly one connection at a time" invariant from spec §3.
type Conn struct {
	opts Options

	raw    net.Conn
	reader *bufio.Reader

	sendMu sync.Mutex
	recvMu sync.Mutex

	closeOnce sync.Once
}

func New(opts Options) *Conn {
	return &Conn{opts: opts}
}

// Connect dials host:port, optionally performing a TLS client handshake.
func (c *Conn) Connect(ctx context.Context, host string, port int) error {
	dialer := &net.Dialer{}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	raw, err := dialer.DialContext(ctx, c.opts.Family.network(), addr)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Error{Kind: ErrTimeout, Err: err}
		}
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return &Error{Kind: ErrResolveFailed, Err: err}
		}
		return &Error{Kind: ErrConnectFailed, Err: err}
	}

	if c.opts.TLS {
		tlsConf := c.opts.TLSConfig
		if tlsConf == nil {
			tlsConf = &tls.Config{}
		}
		tlsConn := tls.Client(raw, tlsConf)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			raw.Close()
			return &Error{Kind: ErrTLSFailed, Err: err}
		}
		raw = tlsConn
	}

	c.raw = raw
	// Sized one byte past maxLineLength so an oversize line fills the
	// buffer without reaching it -- Recv's own length check must be what
	// catches ErrOversizeLine, not bufio.ErrBufferFull.
	c.reader = bufio.NewReaderSize(raw, maxLineLength+1)
	return nil
}

// Recv reads and decodes the next line. A decode_error means only this one
// message is bad; the caller may call Recv again on the same connection.
func (c *Conn) Recv() (ircwire.Message, error) {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	if c.reader == nil {
		return ircwire.Message{}, &Error{Kind: ErrClosed}
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ircwire.Message{}, &Error{Kind: ErrClosed, Err: err}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			return ircwire.Message{}, &Error{Kind: ErrOversizeLine, Err: err}
		}
		return ircwire.Message{}, &Error{Kind: ErrIOError, Err: err}
	}

	line = strings.TrimRight(line, "\r\n")
	if len(line) > maxLineLength {
		return ircwire.Message{}, &Error{Kind: ErrOversizeLine}
	}

	msg, err := ircwire.Parse(line)
	if err != nil {
		return ircwire.Message{}, &Error{Kind: ErrDecodeError, Err: err}
	}
	return msg, nil
}

// Send encodes and writes a single message, appending CRLF.
func (c *Conn) Send(msg ircwire.Message) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.raw == nil {
		return &Error{Kind: ErrClosed}
	}

	line, err := msg.Encode()
	if err != nil {
		return &Error{Kind: ErrIOError, Err: err}
	}
	if _, err := io.WriteString(c.raw, line); err != nil {
		return &Error{Kind: ErrIOError, Err: err}
	}
	return nil
}

// Disconnect closes the socket. It is idempotent.
func (c *Conn) Disconnect() error {
	c.closeOnce.Do(func() {
		if c.raw != nil {
			c.raw.Close()
		}
	})
	return nil
}
