// Package rule implements the ordered allow/drop filter of spec §4.3,
// grounded directly on rule.cpp/rule_service.cpp of the original irccd
// daemon: match_set's empty-means-any semantics and match's
// case-(in)sensitivity are carried over field-for-field.
package rule

import "strings"

// Action is the resolved disposition of a rule or probe.
type Action int

const (
	Accept Action = iota
	Drop
)

func (a Action) String() string {
	if a == Drop {
		return "drop"
	}
	return "accept"
}

// ParseAction converts the wire string ("accept"/"drop") into an Action.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "accept":
		return Accept, true
	case "drop":
		return Drop, true
	default:
		return Action(0), false
	}
}

// Set is a criteria set. An empty set matches anything (spec §4.3).
type Set map[string]struct{}

// NewSet builds a Set from a slice, lower-casing every member -- callers
// for the one case-sensitive criterion (events) must not use this helper.
func NewSet(values []string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[strings.ToLower(v)] = struct{}{}
	}
	return s
}

// NewEventSet builds a Set from event names verbatim (case-sensitive).
func NewEventSet(values []string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s Set) match(v string) bool {
	return len(s) == 0 || s.has(v)
}

// List returns the set's members in no particular order.
func (s Set) List() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Rule is one entry of the ordered rule list (spec §3 "Rule").
type Rule struct {
	Servers  Set
	Channels Set
	Origins  Set
	Plugins  Set
	Events   Set
	Action   Action
}

func New() Rule {
	return Rule{
		Servers:  Set{},
		Channels: Set{},
		Origins:  Set{},
		Plugins:  Set{},
		Events:   Set{},
		Action:   Accept,
	}
}

// Match reports whether this rule applies to the given probe. The four
// identifier criteria compare case-insensitively; events compare verbatim.
func (r Rule) Match(server, channel, origin, plugin, ev string) bool {
	return r.Servers.match(strings.ToLower(server)) &&
		r.Channels.match(strings.ToLower(channel)) &&
		r.Origins.match(strings.ToLower(origin)) &&
		r.Plugins.match(strings.ToLower(plugin)) &&
		r.Events.match(ev)
}

func (r Rule) clone() Rule {
	return Rule{
		Servers:  r.Servers.clone(),
		Channels: r.Channels.clone(),
		Origins:  r.Origins.clone(),
		Plugins:  r.Plugins.clone(),
		Events:   r.Events.clone(),
		Action:   r.Action,
	}
}
