package rule

import (
	"strings"
	"sync"

	"github.com/dalnet/irccd/internal/ircerr"
)

// Engine owns the ordered rule sequence and resolves (server, channel,
// origin, plugin, event) probes against it. Resolution is a pure function
// of the sequence and the probe (spec §8): the last matching rule wins,
// and an empty/no-match sequence resolves to Accept.
type Engine struct {
	mu    sync.Mutex
	rules []Rule
}

func NewEngine() *Engine {
	return &Engine{}
}

// Resolve returns the action of the last rule matching the probe, or
// Accept if none match.
func (e *Engine) Resolve(server, channel, origin, plugin, ev string) Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	action := Accept
	for _, r := range e.rules {
		if r.Match(server, channel, origin, plugin, ev) {
			action = r.Action
		}
	}
	return action
}

// List returns a snapshot copy of the rule sequence, safe to iterate while
// the engine is mutated concurrently (spec §5 shared-resource policy).
func (e *Engine) List() []Rule {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Append adds r at the end of the sequence.
func (e *Engine) Append(r Rule) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules = append(e.rules, r)
	return len(e.rules) - 1
}

// Insert places r at index, shifting subsequent rules back.
func (e *Engine) Insert(index int, r Rule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index > len(e.rules) {
		return ircerr.RuleInvalidIndex()
	}
	e.rules = append(e.rules, Rule{})
	copy(e.rules[index+1:], e.rules[index:])
	e.rules[index] = r
	return nil
}

// Remove deletes the rule at index.
func (e *Engine) Remove(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.rules) {
		return ircerr.RuleInvalidIndex()
	}
	e.rules = append(e.rules[:index], e.rules[index+1:]...)
	return nil
}

// Get returns the rule at index.
func (e *Engine) Get(index int) (Rule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.rules) {
		return Rule{}, ircerr.RuleInvalidIndex()
	}
	return e.rules[index], nil
}

// Move removes the rule at from and reinserts it at min(to, size_after_remove),
// per spec §4.3. from must be in range; to is clamped rather than rejected so
// "move to a huge index" means "move to the end".
func (e *Engine) Move(from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if from < 0 || from >= len(e.rules) || to < 0 {
		return ircerr.RuleInvalidIndex()
	}

	r := e.rules[from]
	e.rules = append(e.rules[:from], e.rules[from+1:]...)

	dest := to
	if dest > len(e.rules) {
		dest = len(e.rules)
	}

	e.rules = append(e.rules, Rule{})
	copy(e.rules[dest+1:], e.rules[dest:])
	e.rules[dest] = r
	return nil
}

// Edit applies a removal set then an addition set per criterion to the
// rule at index, and optionally changes its action. The edit is built on
// a private copy and only committed if every step succeeds (spec §4.3):
// no partial edit is ever visible.
type Edit struct {
	AddServers, RemoveServers   []string
	AddChannels, RemoveChannels []string
	AddOrigins, RemoveOrigins   []string
	AddPlugins, RemovePlugins   []string
	AddEvents, RemoveEvents     []string
	Action                      *string
}

func (e *Engine) Edit(index int, edit Edit) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.rules) {
		return ircerr.RuleInvalidIndex()
	}

	working := e.rules[index].clone()

	applyCriterion(working.Servers, edit.RemoveServers, edit.AddServers, true)
	applyCriterion(working.Channels, edit.RemoveChannels, edit.AddChannels, true)
	applyCriterion(working.Origins, edit.RemoveOrigins, edit.AddOrigins, true)
	applyCriterion(working.Plugins, edit.RemovePlugins, edit.AddPlugins, true)
	applyCriterion(working.Events, edit.RemoveEvents, edit.AddEvents, false)

	if edit.Action != nil {
		action, ok := ParseAction(*edit.Action)
		if !ok {
			return ircerr.RuleInvalidAction(*edit.Action)
		}
		working.Action = action
	}

	e.rules[index] = working
	return nil
}

func applyCriterion(set Set, remove, add []string, lower bool) {
	for _, v := range remove {
		if lower {
			v = strings.ToLower(v)
		}
		delete(set, v)
	}
	for _, v := range add {
		if lower {
			v = strings.ToLower(v)
		}
		set[v] = struct{}{}
	}
}
