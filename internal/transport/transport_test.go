package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"
)

type echoHandler struct{}

func (echoHandler) Handle(client *Client, command string, req map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{"ok": true}, nil
}

func writeFrame(w io.Writer, obj map[string]interface{}) error {
	payload, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = w.Write(append(payload, frameDelimiter...))
	return err
}

func readOneFrame(t *testing.T, r *bufio.Reader) map[string]interface{} {
	t.Helper()
	raw, err := readFrame(r)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return obj
}

// Scenario 6 (spec §8): an unauthenticated command on a password-protected
// server gets a transport/authentication-required error and the
// connection is closed once that reply is flushed.
func TestControlPlaneAuthRequired(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()

	srv := New(nil, "x", Greeting{Program: "irccd", Major: 2}, echoHandler{}, nil)
	go srv.handleConn(serverConn)

	clientReader := bufio.NewReader(clientConn)

	// Greeting first.
	_ = readOneFrame(t, clientReader)

	if err := writeFrame(clientConn, map[string]interface{}{"command": "server-list"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	reply := readOneFrame(t, clientReader)
	if reply["command"] != "server-list" {
		t.Errorf("expected command echoed back, got %v", reply["command"])
	}
	if reply["errorCategory"] != "transport" {
		t.Errorf("expected errorCategory transport, got %v", reply["errorCategory"])
	}
	if reply["errorMessage"] != "authentication required" {
		t.Errorf("expected 'authentication required', got %v", reply["errorMessage"])
	}

	clientConn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 16)
	if _, err := clientConn.Read(buf); err != io.EOF && !isClosedErr(err) {
		t.Errorf("expected connection closed after error reply, got err=%v", err)
	}
}

func isClosedErr(err error) bool {
	return err != nil && bytes.Contains([]byte(err.Error()), []byte("closed"))
}

// With no server password, a client goes straight to ready after the
// greeting and its first command is handled normally.
func TestNoPasswordSkipsAuth(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	srv := New(nil, "", Greeting{Program: "irccd"}, echoHandler{}, nil)
	go srv.handleConn(serverConn)

	clientReader := bufio.NewReader(clientConn)
	_ = readOneFrame(t, clientReader)

	if err := writeFrame(clientConn, map[string]interface{}{"command": "server-list"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	reply := readOneFrame(t, clientReader)
	if reply["command"] != "server-list" || reply["ok"] != true {
		t.Errorf("expected successful echo reply, got %v", reply)
	}
}
