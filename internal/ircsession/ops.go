package ircsession

import (
	"github.com/dalnet/irccd/internal/ircerr"
	"github.com/dalnet/irccd/internal/ircwire"
)

// Each public operation validates its arguments, builds the corresponding
// IRC line and submits a closure that appends it to the outbound queue
// (spec §4.2: "each maps to one queued IRC line, validated before
// enqueuing"). Validation happens before submit so a rejected call never
// touches the session goroutine.

func (s *Server) Invite(target, channel string) error {
	if target == "" {
		return ircerr.ServerInvalidNickname()
	}
	if channel == "" {
		return ircerr.ServerInvalidChannel()
	}
	return s.submit(func() error {
		s.enqueue(ircwire.Message{Command: "INVITE", Params: []string{target, channel}})
		return nil
	})
}

func (s *Server) Join(channel, password string) error {
	if channel == "" {
		return ircerr.ServerInvalidChannel()
	}
	return s.submit(func() error {
		req := ChannelRequest{Name: channel, Password: password}
		found := false
		for i, r := range s.requested {
			if r.Name == channel {
				s.requested[i] = req
				found = true
				break
			}
		}
		if !found {
			s.requested = append(s.requested, req)
		}
		s.publishSnapshot()
		s.enqueue(joinMessage(req))
		return nil
	})
}

func (s *Server) Kick(target, channel, reason string) error {
	if target == "" {
		return ircerr.ServerInvalidNickname()
	}
	if channel == "" {
		return ircerr.ServerInvalidChannel()
	}
	return s.submit(func() error {
		params := []string{channel, target}
		if reason != "" {
			params = append(params, reason)
		}
		s.enqueue(ircwire.Message{Command: "KICK", Params: params})
		return nil
	})
}

func (s *Server) Me(target, message string) error {
	if target == "" {
		return ircerr.ServerInvalidNickname()
	}
	if message == "" {
		return ircerr.ServerInvalidMessage()
	}
	return s.submit(func() error {
		s.enqueue(ircwire.Message{Command: "PRIVMSG", Params: []string{target, ircwire.EncodeCTCP("ACTION", message)}})
		return nil
	})
}

func (s *Server) Message(target, message string) error {
	if target == "" {
		return ircerr.ServerInvalidNickname()
	}
	if message == "" {
		return ircerr.ServerInvalidMessage()
	}
	return s.submit(func() error {
		s.enqueue(ircwire.Message{Command: "PRIVMSG", Params: []string{target, message}})
		return nil
	})
}

// Mode emits only non-empty trailing tokens after mode, per spec §4.2.
func (s *Server) Mode(channel, mode, limit, user, mask string) error {
	if channel == "" {
		return ircerr.ServerInvalidChannel()
	}
	if mode == "" {
		return ircerr.ServerInvalidMode()
	}
	return s.submit(func() error {
		params := []string{channel, mode}
		for _, v := range []string{limit, user, mask} {
			if v != "" {
				params = append(params, v)
			}
		}
		s.enqueue(ircwire.Message{Command: "MODE", Params: params})
		return nil
	})
}

func (s *Server) Names(channel string) error {
	if channel == "" {
		return ircerr.ServerInvalidChannel()
	}
	return s.submit(func() error {
		s.enqueue(ircwire.Message{Command: "NAMES", Params: []string{channel}})
		return nil
	})
}

func (s *Server) Notice(target, message string) error {
	if target == "" {
		return ircerr.ServerInvalidNickname()
	}
	if message == "" {
		return ircerr.ServerInvalidMessage()
	}
	return s.submit(func() error {
		s.enqueue(ircwire.Message{Command: "NOTICE", Params: []string{target, message}})
		return nil
	})
}

func (s *Server) Part(channel, reason string) error {
	if channel == "" {
		return ircerr.ServerInvalidChannel()
	}
	return s.submit(func() error {
		params := []string{channel}
		if reason != "" {
			params = append(params, reason)
		}
		for i, r := range s.requested {
			if r.Name == channel {
				s.requested = append(s.requested[:i], s.requested[i+1:]...)
				break
			}
		}
		s.publishSnapshot()
		s.enqueue(ircwire.Message{Command: "PART", Params: params})
		return nil
	})
}

func (s *Server) Topic(channel, topic string) error {
	if channel == "" {
		return ircerr.ServerInvalidChannel()
	}
	return s.submit(func() error {
		s.enqueue(ircwire.Message{Command: "TOPIC", Params: []string{channel, topic}})
		return nil
	})
}

func (s *Server) Whois(target string) error {
	if target == "" {
		return ircerr.ServerInvalidNickname()
	}
	return s.submit(func() error {
		s.enqueue(ircwire.Message{Command: "WHOIS", Params: []string{target}})
		return nil
	})
}

// Send queues a raw, already-formed IRC line, bypassing per-command
// validation -- the escape hatch spec §4.2 reserves for callers that build
// their own message.
func (s *Server) Send(raw ircwire.Message) error {
	return s.submit(func() error {
		s.enqueue(raw)
		return nil
	})
}

// SetNickname changes the nickname. While identifying or connected this
// enqueues a NICK command; otherwise it updates the stored value directly
// so the next identify uses it (spec §4.2).
func (s *Server) SetNickname(nick string) error {
	if nick == "" {
		return ircerr.ServerInvalidNickname()
	}
	return s.submit(func() error {
		if s.state == Connected || s.state == Identifying {
			s.enqueue(ircwire.Message{Command: "NICK", Params: []string{nick}})
		} else {
			s.nickname = nick
			s.publishSnapshot()
		}
		return nil
	})
}

// Reconnect forces an immediate reconnect cycle regardless of the
// auto_reconnect flag, used by the server-reconnect control command.
func (s *Server) Reconnect() error {
	return s.submit(func() error {
		s.forceReconnect = true
		if s.conn != nil {
			s.conn.Disconnect()
		}
		return nil
	})
}
