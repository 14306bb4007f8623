// Package ircdlog standardizes the informally-prefixed *log.Logger idiom
// the teacher uses ("Warning: ...", "Error: ...") into a small set of
// categorized loggers, each a plain *log.Logger sharing the root's output
// stream, so every package that already takes a bare *log.Logger (nothing
// here introduces structured logging the teacher itself never uses) gets
// a consistent bracketed prefix per subsystem (SPEC_FULL.md §4.2).
package ircdlog

import (
	"log"
	"os"
)

// New builds the root logger the way the teacher's main does: stderr,
// standard date/time flags, no prefix of its own.
func New() *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

func derive(root *log.Logger, prefix string) *log.Logger {
	if root == nil {
		return nil
	}
	return log.New(root.Writer(), prefix, root.Flags())
}

// ForServer returns a logger prefixed for one server session.
func ForServer(root *log.Logger, id string) *log.Logger {
	return derive(root, "[server:"+id+"] ")
}

// ForTransport returns a logger prefixed for the control-plane acceptor.
func ForTransport(root *log.Logger) *log.Logger {
	return derive(root, "[transport] ")
}

// ForPlugin returns a logger prefixed for one plugin's handler invocations.
func ForPlugin(root *log.Logger, id string) *log.Logger {
	return derive(root, "[plugin:"+id+"] ")
}

// ForHook returns a logger prefixed for one hook's stdout capture.
func ForHook(root *log.Logger, id string) *log.Logger {
	return derive(root, "[hook:"+id+"] ")
}

// ForBot returns a logger prefixed for bot-level lifecycle messages.
func ForBot(root *log.Logger) *log.Logger {
	return derive(root, "[bot] ")
}
