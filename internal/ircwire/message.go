// Package ircwire wraps the ergochat/irc-go message codec with the small
// surface irccd needs: a Message type keyed by prefix/command/params, CTCP
// unwrapping, and numeric-command comparison that tolerates leading zeros.
package ircwire

import (
	"strconv"
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// Message is a decoded IRC line: "[:prefix] command params...".
type Message struct {
	Prefix  string
	Command string
	Params  []string
}

// Parse decodes a single IRC line (without its trailing CRLF).
func Parse(line string) (Message, error) {
	raw, err := ircmsg.ParseLine(line)
	if err != nil {
		return Message{}, err
	}
	return Message{Prefix: raw.Source, Command: raw.Command, Params: raw.Params}, nil
}

// Encode renders m back onto the wire, CRLF-terminated.
func (m Message) Encode() (string, error) {
	raw := ircmsg.MakeMessage(nil, m.Prefix, m.Command, m.Params...)
	line, err := raw.Line()
	if err != nil {
		return "", err
	}
	return line, nil
}

// NickFromPrefix extracts the nickname component of a "nick!user@host"
// message prefix, or returns the prefix unchanged if it carries no userhost.
func NickFromPrefix(prefix string) string {
	if i := strings.IndexByte(prefix, '!'); i >= 0 {
		return prefix[:i]
	}
	return prefix
}

// SplitUserhost splits a full "nick!user@host" prefix into its parts.
func SplitUserhost(prefix string) (nick, user, host string) {
	nick = prefix
	rest, hasBang := cut(prefix, '!')
	if hasBang {
		nick = prefix[:len(prefix)-len(rest)-1]
		if u, h, ok := cutAt(rest); ok {
			user, host = u, h
		} else {
			user = rest
		}
	}
	return
}

func cut(s string, b byte) (string, bool) {
	i := strings.IndexByte(s, b)
	if i < 0 {
		return "", false
	}
	return s[i+1:], true
}

func cutAt(s string) (string, string, bool) {
	i := strings.IndexByte(s, '@')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// NumericCode reports whether command is a three-digit numeric reply and,
// if so, its integer value -- tolerant of the usual zero-padded form.
func NumericCode(command string) (int, bool) {
	if len(command) != 3 {
		return 0, false
	}
	for i := 0; i < 3; i++ {
		if command[i] < '0' || command[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(command)
	if err != nil {
		return 0, false
	}
	return n, true
}

const ctcpDelim = '\x01'

// ParseCTCP reports whether s is a CTCP-wrapped trailing argument
// (\x01TAG payload\x01) and, if so, its tag and payload.
func ParseCTCP(s string) (tag, payload string, ok bool) {
	if len(s) < 2 || s[0] != ctcpDelim || s[len(s)-1] != ctcpDelim {
		return "", "", false
	}
	inner := s[1 : len(s)-1]
	if i := strings.IndexByte(inner, ' '); i >= 0 {
		return inner[:i], inner[i+1:], true
	}
	return inner, "", true
}

// EncodeCTCP wraps tag/payload into a CTCP trailing argument.
func EncodeCTCP(tag, payload string) string {
	if payload == "" {
		return string(ctcpDelim) + tag + string(ctcpDelim)
	}
	return string(ctcpDelim) + tag + " " + payload + string(ctcpDelim)
}
