// Package event defines the server-originated event variant of spec §3
// and its broadcast JSON encoding (spec §6.2).
package event

// Kind names one of the event variants. Comparisons against rule criteria
// are case-sensitive since these are fixed-enum identifiers (spec §4.3).
type Kind string

const (
	KindConnect    Kind = "onConnect"
	KindDisconnect Kind = "onDisconnect"
	KindInvite     Kind = "onInvite"
	KindJoin       Kind = "onJoin"
	KindKick       Kind = "onKick"
	KindMessage    Kind = "onMessage"
	KindMe         Kind = "onMe"
	KindMode       Kind = "onMode"
	KindNames      Kind = "onNames"
	KindNick       Kind = "onNick"
	KindNotice     Kind = "onNotice"
	KindPart       Kind = "onPart"
	KindTopic      Kind = "onTopic"
	KindWhois      Kind = "onWhois"

	// KindCommand is never broadcast (spec §6.2 has no onCommand shape); it
	// exists only as the rule-engine/plugin-dispatch event name substituted
	// for KindMessage when a message is routed as a plugin command (spec
	// §4.4 point 2).
	KindCommand Kind = "onCommand"
)

// Event is a tagged variant: every field beyond Kind/Server is populated
// according to the table in spec §6.2, the rest left zero-valued.
type Event struct {
	Kind   Kind
	Server string

	Origin   string
	Channel  string
	Target   string
	Reason   string
	Message  string
	Mode     string
	Limit    string
	User     string
	Mask     string
	Names    []string
	Nickname string
	Topic    string

	// WHOIS payload.
	Username string
	Hostname string
	Realname string
}
