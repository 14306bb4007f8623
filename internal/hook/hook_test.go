package hook

import (
	"testing"

	"github.com/dalnet/irccd/internal/event"
)

func TestNewRejectsEmptyPath(t *testing.T) {
	if _, err := New("notify", ""); err == nil {
		t.Fatalf("expected invalid_path error")
	}
}

func TestNewRejectsBadIdentifier(t *testing.T) {
	if _, err := New("not an id", "/bin/true"); err == nil {
		t.Fatalf("expected invalid_identifier error")
	}
}

func TestArgvJoin(t *testing.T) {
	e := event.Event{Kind: event.KindJoin, Server: "srv", Origin: "alice", Channel: "#c"}
	got := Argv(e)
	want := []string{"onJoin", "srv", "alice", "#c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestArgvKickIncludesReason(t *testing.T) {
	e := event.Event{Kind: event.KindKick, Server: "srv", Origin: "op", Channel: "#c", Target: "bob", Reason: "bye"}
	got := Argv(e)
	want := []string{"onKick", "srv", "op", "#c", "bob", "bye"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestArgvMeIncludesTarget(t *testing.T) {
	e := event.Event{Kind: event.KindMe, Server: "srv", Origin: "alice", Target: "#c", Message: "waves"}
	got := Argv(e)
	want := []string{"onMe", "srv", "alice", "#c", "waves"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got[3] != "#c" {
		t.Fatalf("expected target in argv[3], got %q", got[3])
	}
}

func TestRegistryOrderAndDuplicate(t *testing.T) {
	r := NewRegistry()
	a, _ := New("a", "/bin/true")
	b, _ := New("b", "/bin/true")
	if err := r.Add(a); err != nil {
		t.Fatalf("Add a: %v", err)
	}
	if err := r.Add(b); err != nil {
		t.Fatalf("Add b: %v", err)
	}
	if err := r.Add(a); err == nil {
		t.Fatalf("expected already_exists on duplicate add")
	}
	list := r.List()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("expected registration order [a b], got %v", list)
	}
}
