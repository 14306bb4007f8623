package ircsession

import (
	"log"
	"testing"
	"time"

	"github.com/dalnet/irccd/internal/event"
	"github.com/dalnet/irccd/internal/ircwire"
)

func testConfig() Config {
	return Config{
		ID:             "s1",
		Hostname:       "irc.example",
		Port:           6667,
		Nickname:       "me",
		Username:       "u",
		Realname:       "r",
		CommandChar:    "!",
		ReconnectDelay: time.Second,
		PingTimeout:    time.Hour,
		Options:        Options{IPv4: true},
	}
}

func newTestServer(sink func(event.Event)) *Server {
	return New(testConfig(), sink, log.New(log.Writer(), "", 0))
}

// Scenario 1 (spec §8): incoming PING produces PONG as the next queued
// outbound line and emits no event.
func TestPingProducesImmediatePong(t *testing.T) {
	var got []event.Event
	s := newTestServer(func(e event.Event) { got = append(got, e) })
	s.state = Connected

	s.handleMessage(ircwire.Message{Command: "PING", Params: []string{"irc.example"}})

	if len(s.queue) != 1 {
		t.Fatalf("expected 1 queued line, got %d", len(s.queue))
	}
	if s.queue[0].Command != "PONG" || s.queue[0].Params[0] != "irc.example" {
		t.Errorf("expected PONG irc.example, got %+v", s.queue[0])
	}
	if len(got) != 0 {
		t.Errorf("expected no event emitted for PING, got %v", got)
	}
}

// Scenario 2 (spec §8): NAMREPLY lines accumulate, stripped of mode
// prefixes, and a single onNames event fires at ENDOFNAMES.
func TestNamesAggregation(t *testing.T) {
	var got []event.Event
	s := newTestServer(func(e event.Event) { got = append(got, e) })
	s.state = Connected
	s.parseISupport([]string{"PREFIX=(ov)@+"})

	s.handleMessage(ircwire.Message{Command: "353", Params: []string{"me", "=", "#c", "@alice +bob carol"}})
	s.handleMessage(ircwire.Message{Command: "353", Params: []string{"me", "=", "#c", "dave"}})
	s.handleMessage(ircwire.Message{Command: "366", Params: []string{"me", "#c", "End of /NAMES list"}})

	if len(got) != 1 || got[0].Kind != event.KindNames {
		t.Fatalf("expected exactly one onNames event, got %v", got)
	}
	want := map[string]bool{"alice": true, "bob": true, "carol": true, "dave": true}
	if len(got[0].Names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), got[0].Names)
	}
	for _, n := range got[0].Names {
		if !want[n] {
			t.Errorf("unexpected name %q", n)
		}
	}
	if _, stillPending := s.namesAcc["#c"]; stillPending {
		t.Errorf("names accumulator for #c should have been cleared")
	}
}

// Scenario 3 (spec §8): self-kick with auto_rejoin removes the channel
// from joined, re-enqueues a JOIN and still emits onKick.
func TestSelfKickWithAutoRejoin(t *testing.T) {
	var got []event.Event
	s := newTestServer(func(e event.Event) { got = append(got, e) })
	s.state = Connected
	s.cfg.Options.AutoRejoin = true
	s.joined["#x"] = true
	s.requested = []ChannelRequest{{Name: "#x"}}

	s.handleMessage(ircwire.Message{
		Prefix:  "op!o@host",
		Command: "KICK",
		Params:  []string{"#x", "me", "go"},
	})

	if s.joined["#x"] {
		t.Errorf("expected #x removed from joined set")
	}
	if len(s.queue) != 1 || s.queue[0].Command != "JOIN" || s.queue[0].Params[0] != "#x" {
		t.Fatalf("expected JOIN #x queued, got %+v", s.queue)
	}
	if len(got) != 1 || got[0].Kind != event.KindKick {
		t.Fatalf("expected onKick event, got %v", got)
	}
	if got[0].Target != "me" || got[0].Origin != "op" || got[0].Reason != "go" {
		t.Errorf("unexpected onKick payload: %+v", got[0])
	}
}

func TestConfigValidateRejectsBadPort(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid_port error")
	}
}

func TestConfigValidateRequiresFamily(t *testing.T) {
	cfg := testConfig()
	cfg.Options.IPv4 = false
	cfg.Options.IPv6 = false
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid_family error")
	}
}
