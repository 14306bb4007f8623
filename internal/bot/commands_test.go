package bot

import (
	"context"
	"testing"

	"github.com/dalnet/irccd/internal/ircerr"
)

func TestServerConnectValidatesPort(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	req := map[string]interface{}{
		"server":   "net1",
		"hostname": "irc.example.org",
		"port":     float64(99999),
		"nickname": "bot",
		"username": "bot",
		"realname": "bot",
		"ipv4":     true,
	}
	_, err := cmdServerConnect(b, req)
	if err == nil {
		t.Fatal("expected invalid_port error for out-of-range port")
	}
	ie, ok := err.(*ircerr.Error)
	if !ok || ie.Category != ircerr.CategoryServer {
		t.Fatalf("expected server category error, got %v", err)
	}
}

func TestServerConnectRejectsMissingFamily(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	req := map[string]interface{}{
		"server":   "net1",
		"hostname": "irc.example.org",
		"port":     float64(6667),
		"nickname": "bot",
		"username": "bot",
		"realname": "bot",
	}
	_, err := cmdServerConnect(b, req)
	if err == nil {
		t.Fatal("expected invalid_family error when neither ipv4 nor ipv6 is set")
	}
	ie, ok := err.(*ircerr.Error)
	if !ok || ie.Category != ircerr.CategoryServer {
		t.Fatalf("expected server category error, got %v", err)
	}
}

func TestServerConnectThenListRoundTrip(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	req := map[string]interface{}{
		"server":   "net1",
		"hostname": "irc.example.org",
		"port":     float64(6667),
		"nickname": "bot",
		"username": "bot",
		"realname": "bot",
		"ipv4":     true,
	}
	if _, err := cmdServerConnect(b, req); err != nil {
		t.Fatalf("server-connect: %v", err)
	}

	reply, err := cmdServerList(b, map[string]interface{}{})
	if err != nil {
		t.Fatalf("server-list: %v", err)
	}
	list, ok := reply["list"].([]map[string]interface{})
	if !ok || len(list) != 1 {
		t.Fatalf("expected one server in list, got %v", reply["list"])
	}
	if list[0]["name"] != "net1" {
		t.Errorf("expected name net1, got %v", list[0]["name"])
	}
}

// server-disconnect without a server field clears the whole registry
// (spec §6.3), exercised through the command-table path rather than the
// Bot method directly.
func TestServerDisconnectAllThroughCommandTable(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	for _, id := range []string{"a", "b"} {
		req := map[string]interface{}{
			"server":   id,
			"hostname": "irc.example.org",
			"port":     float64(6667),
			"nickname": "bot",
			"username": "bot",
			"realname": "bot",
			"ipv4":     true,
		}
		if _, err := cmdServerConnect(b, req); err != nil {
			t.Fatalf("server-connect %s: %v", id, err)
		}
	}

	if _, err := cmdServerDisconnect(b, map[string]interface{}{}); err != nil {
		t.Fatalf("server-disconnect: %v", err)
	}

	reply, err := cmdServerList(b, map[string]interface{}{})
	if err != nil {
		t.Fatalf("server-list: %v", err)
	}
	if list := reply["list"].([]map[string]interface{}); len(list) != 0 {
		t.Errorf("expected empty list after disconnect-all, got %d", len(list))
	}
}

func TestRuleAddListRemoveRoundTrip(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	addReply, err := cmdRuleAdd(b, map[string]interface{}{
		"servers": []interface{}{"net1"},
		"events":  []interface{}{"onMessage"},
		"action":  "drop",
	})
	if err != nil {
		t.Fatalf("rule-add: %v", err)
	}
	if addReply["index"] != 0 {
		t.Errorf("expected first rule at index 0, got %v", addReply["index"])
	}

	listReply, err := cmdRuleList(b, map[string]interface{}{})
	if err != nil {
		t.Fatalf("rule-list: %v", err)
	}
	list := listReply["list"].([]map[string]interface{})
	if len(list) != 1 || list[0]["action"] != "drop" {
		t.Fatalf("unexpected rule-list contents: %v", list)
	}

	if _, err := cmdRuleRemove(b, map[string]interface{}{"index": float64(0)}); err != nil {
		t.Fatalf("rule-remove: %v", err)
	}
	listReply, _ = cmdRuleList(b, map[string]interface{}{})
	if list := listReply["list"].([]map[string]interface{}); len(list) != 0 {
		t.Errorf("expected empty rule list after remove, got %d", len(list))
	}
}

// rule-move with from == to is a documented no-op (spec §8 boundary
// behavior): the sequence order must be unchanged.
func TestRuleMoveNoOpWhenFromEqualsTo(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	cmdRuleAdd(b, map[string]interface{}{"action": "accept"})
	cmdRuleAdd(b, map[string]interface{}{"action": "drop"})

	if _, err := cmdRuleMove(b, map[string]interface{}{"from": float64(1), "to": float64(1)}); err != nil {
		t.Fatalf("rule-move: %v", err)
	}

	listReply, _ := cmdRuleList(b, map[string]interface{}{})
	list := listReply["list"].([]map[string]interface{})
	if list[0]["action"] != "accept" || list[1]["action"] != "drop" {
		t.Errorf("expected order unchanged after from==to move, got %v", list)
	}
}

func TestRuleEditInvalidActionRejected(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	cmdRuleAdd(b, map[string]interface{}{})
	_, err := cmdRuleEdit(b, map[string]interface{}{"index": float64(0), "action": "maybe"})
	if err == nil {
		t.Fatal("expected invalid_action error")
	}
}

func TestPluginCommandsReportNotFound(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	if _, err := cmdPluginInfo(b, map[string]interface{}{"id": "missing"}); err == nil {
		t.Fatal("expected not_found for unknown plugin")
	}
	if _, err := cmdPluginLoad(b, map[string]interface{}{"id": "missing"}); err == nil {
		t.Fatal("expected not_found when no loader resolves the id")
	}
}

func TestUnknownCommandIsInvalidCommand(t *testing.T) {
	b := New(context.Background(), nil)
	defer b.Shutdown()

	_, err := b.Handle(nil, "server-frobnicate", map[string]interface{}{})
	if err == nil {
		t.Fatal("expected invalid_command error")
	}
	ie, ok := err.(*ircerr.Error)
	if !ok || ie.Category != ircerr.CategoryBot {
		t.Fatalf("expected bot category error, got %v", err)
	}
}
