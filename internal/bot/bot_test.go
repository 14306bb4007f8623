package bot

import (
	"context"
	"testing"

	"github.com/dalnet/irccd/internal/ircsession"
	"github.com/dalnet/irccd/internal/plugin"
)

func testConfig(id string) ircsession.Config {
	return ircsession.Config{
		ID:             id,
		Hostname:       "irc.example.org",
		Port:           6667,
		Nickname:       "bot",
		Username:       "bot",
		Realname:       "bot",
		CommandChar:    "!",
		ReconnectDelay: 1,
		PingTimeout:    1,
		Options:        ircsession.Options{IPv4: true, AutoReconnect: false},
	}
}

func TestAddServerRejectsDuplicateID(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	if _, err := b.AddServer(testConfig("net1")); err != nil {
		t.Fatalf("first AddServer: %v", err)
	}
	if _, err := b.AddServer(testConfig("net1")); err == nil {
		t.Fatal("expected already_exists error for duplicate server id")
	}
}

func TestServerLookupThroughPluginBotInterface(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	if _, err := b.AddServer(testConfig("net1")); err != nil {
		t.Fatalf("AddServer: %v", err)
	}

	var pb plugin.Bot = b
	s, ok := pb.Server("net1")
	if !ok {
		t.Fatal("expected net1 to be reachable through plugin.Bot")
	}
	if s.ID() != "net1" {
		t.Errorf("got id %q", s.ID())
	}
	if _, ok := pb.Server("missing"); ok {
		t.Error("expected missing server to report not found")
	}
}

// Scenario-adjacent: server-disconnect without a server id clears every
// registered server, and a subsequent server-list is empty (spec §6.3).
func TestDisconnectAllClearsRegistry(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	if _, err := b.AddServer(testConfig("a")); err != nil {
		t.Fatalf("AddServer a: %v", err)
	}
	if _, err := b.AddServer(testConfig("b")); err != nil {
		t.Fatalf("AddServer b: %v", err)
	}

	b.DisconnectAll()

	if got := b.ServerList(); len(got) != 0 {
		t.Errorf("expected empty server list after DisconnectAll, got %d entries", len(got))
	}
	if _, err := b.GetServer("a"); err == nil {
		t.Error("expected server a to be gone after DisconnectAll")
	}
}

func TestLoadPluginWithoutLoaderReportsNotFound(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	if err := b.LoadPlugin("ask"); err == nil {
		t.Fatal("expected plugin.not_found when no loader is configured")
	}
}

func TestLoadUnloadPluginRoundTrip(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	loaded := false
	unloaded := false
	p := &recordingLifecyclePlugin{id: "ask", onLoad: func() { loaded = true }, onUnload: func() { unloaded = true }}
	b.RegisterNativePlugin("ask", func() plugin.Handlers { return p })

	if err := b.LoadPlugin("ask"); err != nil {
		t.Fatalf("LoadPlugin: %v", err)
	}
	if !loaded {
		t.Error("expected HandleLoad to run")
	}
	if _, ok := b.Plugins.Get("ask"); !ok {
		t.Error("expected ask to be registered after load")
	}

	if err := b.UnloadPlugin("ask"); err != nil {
		t.Fatalf("UnloadPlugin: %v", err)
	}
	if !unloaded {
		t.Error("expected HandleUnload to run")
	}
	if _, ok := b.Plugins.Get("ask"); ok {
		t.Error("expected ask to be gone after unload")
	}
}

type recordingLifecyclePlugin struct {
	plugin.Base
	id       string
	onLoad   func()
	onUnload func()
}

func (p *recordingLifecyclePlugin) ID() string { return p.id }

func (p *recordingLifecyclePlugin) HandleLoad(plugin.Context) error {
	if p.onLoad != nil {
		p.onLoad()
	}
	return nil
}

func (p *recordingLifecyclePlugin) HandleUnload(plugin.Context) error {
	if p.onUnload != nil {
		p.onUnload()
	}
	return nil
}
