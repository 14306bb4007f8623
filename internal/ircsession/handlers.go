package ircsession

import (
	"strings"

	"github.com/dalnet/irccd/internal/event"
	"github.com/dalnet/irccd/internal/ircwire"
)

const (
	rplISupport     = 5
	rplNamReply     = 353
	rplEndOfNames   = 366
	rplWhoisUser    = 311
	rplWhoisChannel = 319
	rplEndOfWhois   = 318
	rplEndOfMotd    = 376
	rplNoMotd       = 422
)

// handleMessage classifies one inbound message and applies the mandatory
// behaviors of spec §4.2. It runs on the session goroutine.
func (s *Server) handleMessage(m ircwire.Message) {
	if n, ok := ircwire.NumericCode(m.Command); ok {
		s.handleNumeric(n, m)
		return
	}

	switch m.Command {
	case "PING":
		s.handlePing(m)
	case "JOIN":
		s.handleJoin(m)
	case "PART":
		s.handlePart(m)
	case "KICK":
		s.handleKick(m)
	case "NICK":
		s.handleNick(m)
	case "INVITE":
		s.handleInvite(m)
	case "PRIVMSG":
		s.handlePrivmsg(m)
	case "NOTICE":
		s.handleNotice(m)
	case "MODE":
		s.handleMode(m)
	case "TOPIC":
		s.handleTopic(m)
	}
}

func (s *Server) handleNumeric(n int, m ircwire.Message) {
	switch n {
	case rplISupport:
		s.parseISupport(m.Params)
	case rplNamReply:
		s.handleNamReply(m)
	case rplEndOfNames:
		s.handleEndOfNames(m)
	case rplWhoisUser:
		s.handleWhoisUser(m)
	case rplWhoisChannel:
		s.handleWhoisChannel(m)
	case rplEndOfWhois:
		s.handleEndOfWhois(m)
	case rplEndOfMotd, rplNoMotd:
		s.handleRegistered()
	}
}

func (s *Server) handlePing(m ircwire.Message) {
	arg := ""
	if len(m.Params) > 0 {
		arg = m.Params[0]
	}
	s.enqueue(ircwire.Message{Command: "PONG", Params: []string{arg}})
	s.startPingTimer()
}

// handleRegistered transitions identifying -> connected and rejoins every
// requested channel, so reconnects restore the prior channel set (spec §8
// round-trip property).
func (s *Server) handleRegistered() {
	if s.state == Connected {
		return
	}
	s.setState(Connected)
	s.emit(event.Event{Kind: event.KindConnect, Server: s.cfg.ID})
	for _, r := range s.requested {
		s.enqueue(joinMessage(r))
	}
}

func joinMessage(r ChannelRequest) ircwire.Message {
	params := []string{r.Name}
	if r.Password != "" {
		params = append(params, r.Password)
	}
	return ircwire.Message{Command: "JOIN", Params: params}
}

func (s *Server) isSelf(prefix string) bool {
	return ircwire.NickFromPrefix(prefix) == s.nickname
}

func (s *Server) handleJoin(m ircwire.Message) {
	if len(m.Params) == 0 {
		return
	}
	channel := m.Params[0]
	origin := ircwire.NickFromPrefix(m.Prefix)
	if s.isSelf(m.Prefix) {
		s.joined[channel] = true
		s.publishSnapshot()
	}
	s.emit(event.Event{Kind: event.KindJoin, Server: s.cfg.ID, Origin: origin, Channel: channel})
}

func (s *Server) handlePart(m ircwire.Message) {
	if len(m.Params) == 0 {
		return
	}
	channel := m.Params[0]
	origin := ircwire.NickFromPrefix(m.Prefix)
	reason := ""
	if len(m.Params) > 1 {
		reason = m.Params[1]
	}
	if s.isSelf(m.Prefix) {
		delete(s.joined, channel)
		s.publishSnapshot()
	}
	s.emit(event.Event{Kind: event.KindPart, Server: s.cfg.ID, Origin: origin, Channel: channel, Reason: reason})
}

func (s *Server) handleKick(m ircwire.Message) {
	if len(m.Params) < 2 {
		return
	}
	channel := m.Params[0]
	target := m.Params[1]
	reason := ""
	if len(m.Params) > 2 {
		reason = m.Params[2]
	}
	origin := ircwire.NickFromPrefix(m.Prefix)

	if target == s.nickname {
		var rejoin *ChannelRequest
		for _, r := range s.requested {
			if r.Name == channel {
				rc := r
				rejoin = &rc
				break
			}
		}
		delete(s.joined, channel)
		s.publishSnapshot()
		if s.cfg.Options.AutoRejoin {
			req := ChannelRequest{Name: channel}
			if rejoin != nil {
				req.Password = rejoin.Password
			}
			s.enqueue(joinMessage(req))
		}
	}
	s.emit(event.Event{Kind: event.KindKick, Server: s.cfg.ID, Origin: origin, Channel: channel, Target: target, Reason: reason})
}

func (s *Server) handleNick(m ircwire.Message) {
	if len(m.Params) == 0 {
		return
	}
	newNick := m.Params[0]
	origin := ircwire.NickFromPrefix(m.Prefix)
	if s.isSelf(m.Prefix) {
		s.nickname = newNick
		s.publishSnapshot()
	}
	s.emit(event.Event{Kind: event.KindNick, Server: s.cfg.ID, Origin: origin, Nickname: newNick})
}

func (s *Server) handleInvite(m ircwire.Message) {
	if len(m.Params) < 2 {
		return
	}
	target := m.Params[0]
	channel := m.Params[1]
	origin := ircwire.NickFromPrefix(m.Prefix)
	if target == s.nickname && s.cfg.Options.JoinInvite {
		s.enqueue(joinMessage(ChannelRequest{Name: channel}))
	}
	s.emit(event.Event{Kind: event.KindInvite, Server: s.cfg.ID, Origin: origin, Channel: channel})
}

func (s *Server) handlePrivmsg(m ircwire.Message) {
	if len(m.Params) < 2 {
		return
	}
	target := m.Params[0]
	text := m.Params[1]
	origin := ircwire.NickFromPrefix(m.Prefix)

	if tag, payload, ok := ircwire.ParseCTCP(text); ok {
		switch strings.ToUpper(tag) {
		case "ACTION":
			s.emit(event.Event{Kind: event.KindMe, Server: s.cfg.ID, Origin: origin, Target: target, Message: payload})
		case "VERSION":
			if s.cfg.CTCPVersion != "" {
				s.enqueue(ircwire.Message{
					Command: "NOTICE",
					Params:  []string{origin, ircwire.EncodeCTCP("VERSION", s.cfg.CTCPVersion)},
				})
			}
		}
		return
	}

	s.emit(event.Event{Kind: event.KindMessage, Server: s.cfg.ID, Origin: origin, Channel: target, Message: text})
}

func (s *Server) handleNotice(m ircwire.Message) {
	if len(m.Params) < 2 {
		return
	}
	origin := ircwire.NickFromPrefix(m.Prefix)
	s.emit(event.Event{Kind: event.KindNotice, Server: s.cfg.ID, Origin: origin, Channel: m.Params[0], Message: m.Params[1]})
}

func (s *Server) handleMode(m ircwire.Message) {
	if len(m.Params) == 0 {
		return
	}
	origin := ircwire.NickFromPrefix(m.Prefix)
	channel := m.Params[0]
	mode := ""
	var args []string
	if len(m.Params) > 1 {
		mode = m.Params[1]
		args = m.Params[2:]
	}
	limit, user, mask := modeArgs(mode, args)
	s.emit(event.Event{
		Kind: event.KindMode, Server: s.cfg.ID, Origin: origin, Channel: channel,
		Mode: mode, Limit: limit, User: user, Mask: mask,
	})
}

func (s *Server) handleTopic(m ircwire.Message) {
	if len(m.Params) < 2 {
		return
	}
	origin := ircwire.NickFromPrefix(m.Prefix)
	s.emit(event.Event{Kind: event.KindTopic, Server: s.cfg.ID, Origin: origin, Channel: m.Params[0], Topic: m.Params[1]})
}

func (s *Server) handleNamReply(m ircwire.Message) {
	if len(m.Params) < 2 {
		return
	}
	channel := m.Params[len(m.Params)-2]
	names := strings.Fields(m.Params[len(m.Params)-1])
	for _, n := range names {
		s.namesAcc[channel] = append(s.namesAcc[channel], s.stripModePrefix(n))
	}
}

func (s *Server) handleEndOfNames(m ircwire.Message) {
	if len(m.Params) < 2 {
		return
	}
	channel := m.Params[len(m.Params)-2]
	names := s.namesAcc[channel]
	delete(s.namesAcc, channel)
	s.emit(event.Event{Kind: event.KindNames, Server: s.cfg.ID, Channel: channel, Names: names})
}

func (s *Server) handleWhoisUser(m ircwire.Message) {
	if len(m.Params) < 4 {
		return
	}
	nick := m.Params[1]
	s.whoisAcc[nick] = &whoisAccumulator{
		Nickname: nick,
		Username: m.Params[2],
		Hostname: m.Params[3],
		Realname: m.Params[len(m.Params)-1],
	}
}

func (s *Server) handleWhoisChannel(m ircwire.Message) {
	if len(m.Params) < 3 {
		return
	}
	nick := m.Params[1]
	acc, ok := s.whoisAcc[nick]
	if !ok {
		return
	}
	for _, c := range strings.Fields(m.Params[len(m.Params)-1]) {
		acc.Channels = append(acc.Channels, s.stripModePrefix(c))
	}
}

func (s *Server) handleEndOfWhois(m ircwire.Message) {
	if len(m.Params) < 2 {
		return
	}
	nick := m.Params[1]
	acc, ok := s.whoisAcc[nick]
	delete(s.whoisAcc, nick)
	if !ok {
		acc = &whoisAccumulator{Nickname: nick}
	}
	s.emit(event.Event{
		Kind: event.KindWhois, Server: s.cfg.ID,
		Nickname: acc.Nickname, Username: acc.Username, Hostname: acc.Hostname, Realname: acc.Realname,
	})
}
