package ircconn

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"testing"
)

func pipedConn() (*Conn, net.Conn) {
	client, server := net.Pipe()
	c := &Conn{raw: client, reader: bufio.NewReaderSize(client, maxLineLength+1)}
	return c, server
}

func TestRecvOversizeLineReportsOversizeLine(t *testing.T) {
	c, server := pipedConn()
	defer server.Close()
	defer c.Disconnect()

	line := strings.Repeat("a", maxLineLength+1) + "\r\n"
	go server.Write([]byte(line))

	_, err := c.Recv()
	if err == nil {
		t.Fatal("expected an error for an oversize line")
	}
	var connErr *Error
	if !errors.As(err, &connErr) || connErr.Kind != ErrOversizeLine {
		t.Fatalf("expected ErrOversizeLine, got %v", err)
	}
}

func TestRecvOrdinaryLineRoundTrips(t *testing.T) {
	c, server := pipedConn()
	defer server.Close()
	defer c.Disconnect()

	go server.Write([]byte("PING :token\r\n"))

	msg, err := c.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if msg.Command != "PING" {
		t.Fatalf("expected PING, got %q", msg.Command)
	}
}
