package dispatch

import (
	"testing"

	"github.com/dalnet/irccd/internal/event"
	"github.com/dalnet/irccd/internal/hook"
	"github.com/dalnet/irccd/internal/plugin"
	"github.com/dalnet/irccd/internal/rule"
)

type fakeBroadcaster struct {
	payloads [][]byte
}

func (b *fakeBroadcaster) Broadcast(payload []byte) {
	b.payloads = append(b.payloads, payload)
}

type recordingPlugin struct {
	plugin.Base
	id       string
	commands []string
	messages []string
}

func newRecordingPlugin(id string) *recordingPlugin {
	p := &recordingPlugin{id: id}
	p.PluginID = id
	return p
}

func (p *recordingPlugin) ID() string { return p.id }

func (p *recordingPlugin) HandleCommand(ctx plugin.Context, origin, channel, command string) error {
	p.commands = append(p.commands, command)
	return nil
}

func (p *recordingPlugin) HandleMessage(ctx plugin.Context, origin, channel, message string) error {
	p.messages = append(p.messages, message)
	return nil
}

// Scenario 5 (spec §8): "!ask hello" routes to plugin "ask" as onCommand
// with message stripped to "hello"; the same input with plugin id "reply"
// (no "!reply " prefix) stays onMessage with the verbatim message.
func TestCommandRoutingScenario(t *testing.T) {
	ask := newRecordingPlugin("ask")
	reply := newRecordingPlugin("reply")

	plugins := plugin.NewRegistry()
	plugins.Add(ask)
	plugins.Add(reply)

	d := &Dispatcher{
		Rules:       rule.NewEngine(),
		Plugins:     plugins,
		Hooks:       hook.NewRegistry(),
		Broadcaster: &fakeBroadcaster{},
		CommandChar: func(string) string { return "!" },
	}

	d.Dispatch(event.Event{Kind: event.KindMessage, Server: "s", Origin: "u", Channel: "#c", Message: "!ask hello"})

	if len(ask.commands) != 1 || ask.commands[0] != "hello" {
		t.Fatalf("expected ask to receive command %q, got %v", "hello", ask.commands)
	}
	if len(ask.messages) != 0 {
		t.Errorf("ask should not have received a plain message, got %v", ask.messages)
	}
	if len(reply.commands) != 0 {
		t.Errorf("reply should not have matched the !ask prefix, got %v", reply.commands)
	}
	if len(reply.messages) != 1 || reply.messages[0] != "!ask hello" {
		t.Fatalf("expected reply to receive verbatim message, got %v", reply.messages)
	}
}

// Broadcast must precede plugin dispatch for every event (spec §8
// universal invariant).
func TestBroadcastPrecedesPlugins(t *testing.T) {
	var order []string

	p := &orderTrackingPlugin{order: &order}
	p.PluginID = "p"
	plugins := plugin.NewRegistry()
	plugins.Add(p)

	bc := &orderTrackingBroadcaster{order: &order}

	d := &Dispatcher{
		Rules:       rule.NewEngine(),
		Plugins:     plugins,
		Hooks:       hook.NewRegistry(),
		Broadcaster: bc,
		CommandChar: func(string) string { return "!" },
	}

	d.Dispatch(event.Event{Kind: event.KindJoin, Server: "s", Origin: "u", Channel: "#c"})

	if len(order) != 2 || order[0] != "broadcast" || order[1] != "plugin" {
		t.Fatalf("expected broadcast to run before the plugin handler, got %v", order)
	}
}

type orderTrackingBroadcaster struct {
	order *[]string
}

func (b *orderTrackingBroadcaster) Broadcast(payload []byte) {
	*b.order = append(*b.order, "broadcast")
}

type orderTrackingPlugin struct {
	plugin.Base
	order *[]string
}

func (p *orderTrackingPlugin) HandleJoin(plugin.Context, string, string) error {
	*p.order = append(*p.order, "plugin")
	return nil
}

// Rule drop suppresses a plugin's handler call entirely.
func TestRuleDropSuppressesPlugin(t *testing.T) {
	p := newRecordingPlugin("ask")
	plugins := plugin.NewRegistry()
	plugins.Add(p)

	engine := rule.NewEngine()
	drop := rule.New()
	drop.Plugins = rule.NewSet([]string{"ask"})
	drop.Action = rule.Drop
	engine.Append(drop)

	d := &Dispatcher{
		Rules:       engine,
		Plugins:     plugins,
		Hooks:       hook.NewRegistry(),
		Broadcaster: &fakeBroadcaster{},
		CommandChar: func(string) string { return "!" },
	}

	d.Dispatch(event.Event{Kind: event.KindMessage, Server: "s", Origin: "u", Channel: "#c", Message: "hello"})

	if len(p.messages) != 0 {
		t.Errorf("expected dropped plugin to receive nothing, got %v", p.messages)
	}
}
