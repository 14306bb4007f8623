package rule

import "testing"

func TestResolveDefaultAccept(t *testing.T) {
	e := NewEngine()
	if got := e.Resolve("s", "#c", "nick", "p", "onMessage"); got != Accept {
		t.Errorf("got %v, want Accept", got)
	}
}

func TestResolveLastMatchWins(t *testing.T) {
	e := NewEngine()

	accept := New()
	accept.Events = NewEventSet([]string{"onMessage"})
	accept.Action = Accept
	e.Append(accept)

	drop := New()
	drop.Channels = NewSet([]string{"#nope"})
	drop.Action = Drop
	e.Append(drop)

	if got := e.Resolve("s", "#nope", "o", "p", "onMessage"); got != Drop {
		t.Errorf("got %v, want Drop", got)
	}

	// Swap order: now drop is evaluated first, accept last -> accept wins.
	e2 := NewEngine()
	e2.Append(drop)
	e2.Append(accept)
	if got := e2.Resolve("s", "#nope", "o", "p", "onMessage"); got != Accept {
		t.Errorf("got %v, want Accept", got)
	}
}

func TestMoveNoOp(t *testing.T) {
	e := NewEngine()
	e.Append(New())
	e.Append(New())
	if err := e.Move(1, 1); err != nil {
		t.Fatalf("Move(1,1) failed: %v", err)
	}
	if len(e.List()) != 2 {
		t.Errorf("expected 2 rules after no-op move")
	}
}

func TestMoveToHugeIndexClampsToEnd(t *testing.T) {
	e := NewEngine()
	a := New()
	a.Servers = NewSet([]string{"first"})
	e.Append(a)
	e.Append(New())
	e.Append(New())

	if err := e.Move(0, 1000); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	list := e.List()
	last := list[len(list)-1]
	if _, ok := last.Servers["first"]; !ok {
		t.Errorf("expected moved rule to land at the end")
	}
}

func TestInvalidIndex(t *testing.T) {
	e := NewEngine()
	if err := e.Remove(0); err == nil {
		t.Errorf("expected invalid_index error")
	}
	if _, err := e.Get(0); err == nil {
		t.Errorf("expected invalid_index error")
	}
}

func TestEditAppliesRemovalBeforeAddition(t *testing.T) {
	e := NewEngine()
	r := New()
	r.Channels = NewSet([]string{"#old"})
	e.Append(r)

	err := e.Edit(0, Edit{
		RemoveChannels: []string{"#old"},
		AddChannels:    []string{"#new"},
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	got, _ := e.Get(0)
	if _, ok := got.Channels["#old"]; ok {
		t.Errorf("#old should have been removed")
	}
	if _, ok := got.Channels["#new"]; !ok {
		t.Errorf("#new should have been added")
	}
}

func TestEditInvalidActionLeavesRuleUnchanged(t *testing.T) {
	e := NewEngine()
	r := New()
	r.Channels = NewSet([]string{"#c"})
	e.Append(r)

	bogus := "maybe"
	err := e.Edit(0, Edit{AddChannels: []string{"#added"}, Action: &bogus})
	if err == nil {
		t.Fatalf("expected invalid_action error")
	}

	got, _ := e.Get(0)
	if _, ok := got.Channels["#added"]; ok {
		t.Errorf("partial edit must not be committed on failure")
	}
}
