// Package dispatch implements the per-event fan-out of spec §4.4:
// broadcast to ready transport clients, then rule-filtered plugins in
// registration order, then hooks in registration order. A handler's
// error or panic is caught and logged; it never stops dispatch to the
// remaining plugins or hooks, and it never stops the next event.
package dispatch

import (
	"fmt"
	"log"
	"strings"

	"github.com/dalnet/irccd/internal/event"
	"github.com/dalnet/irccd/internal/hook"
	"github.com/dalnet/irccd/internal/ircdlog"
	"github.com/dalnet/irccd/internal/plugin"
	"github.com/dalnet/irccd/internal/rule"
)

// Broadcaster is the subset of the transport server a dispatcher needs:
// deliver a JSON event payload to every ready client.
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Dispatcher wires the rule engine, plugin registry, hook registry and
// transport broadcaster together (spec §4.4).
type Dispatcher struct {
	Rules       *rule.Engine
	Plugins     *plugin.Registry
	Hooks       *hook.Registry
	Broadcaster Broadcaster
	Bot         plugin.Bot
	CommandChar func(serverID string) string
	Logger      *log.Logger
}

// Dispatch runs the full pipeline for one event, in the mandatory order:
// broadcast first, then plugins, then hooks (spec §4.4, §8 universal
// invariant "broadcast precedes all plugin handler calls").
func (d *Dispatcher) Dispatch(e event.Event) {
	d.broadcast(e)
	d.dispatchPlugins(e)
	d.dispatchHooks(e)
}

func (d *Dispatcher) broadcast(e event.Event) {
	if d.Broadcaster == nil {
		return
	}
	payload, err := e.Broadcast()
	if err != nil {
		d.logf("failed to encode %s for broadcast: %v", e.Kind, err)
		return
	}
	d.Broadcaster.Broadcast(payload)
}

func (d *Dispatcher) dispatchPlugins(e event.Event) {
	commandChar := "!"
	if d.CommandChar != nil {
		if c := d.CommandChar(e.Server); c != "" {
			commandChar = c
		}
	}

	for _, p := range d.Plugins.List() {
		evName, message, isCommand := route(e, p, commandChar)
		action := d.Rules.Resolve(e.Server, e.Channel, e.Origin, p.ID(), evName)
		if action != rule.Accept {
			continue
		}
		d.invoke(p, e, isCommand, message)
	}
}

func (d *Dispatcher) dispatchHooks(e event.Event) {
	if e.Kind == event.KindCommand {
		return
	}
	for _, h := range d.Hooks.List() {
		if err := hook.Run(h, e, ircdlog.ForHook(d.Logger, h.ID)); err != nil {
			d.logf("hook %s failed: %v", h.ID, err)
		}
	}
}

// route decides, for message events only, whether the message is a
// command addressed to p (spec §4.4 point 2: "<command_char><plugin.id>
// followed by end-of-string or a space"). The rule-engine event name used
// for filtering reflects the choice.
func route(e event.Event, p plugin.Handlers, commandChar string) (evName, message string, isCommand bool) {
	if e.Kind != event.KindMessage {
		return string(e.Kind), e.Message, false
	}

	prefix := commandChar + p.ID()
	msg := e.Message
	if strings.HasPrefix(msg, prefix) {
		rest := msg[len(prefix):]
		if rest == "" {
			return string(event.KindCommand), "", true
		}
		if strings.HasPrefix(rest, " ") {
			return string(event.KindCommand), strings.TrimPrefix(rest, " "), true
		}
	}
	return string(event.KindMessage), msg, false
}

func (d *Dispatcher) invoke(p plugin.Handlers, e event.Event, isCommand bool, message string) {
	defer func() {
		if r := recover(); r != nil {
			d.logf("plugin %s panicked handling %s: %v", p.ID(), e.Kind, r)
		}
	}()

	ctx := plugin.Context{Bot: d.Bot, Server: e.Server}
	var err error

	switch {
	case isCommand:
		err = p.HandleCommand(ctx, e.Origin, e.Channel, message)
	case e.Kind == event.KindConnect:
		err = p.HandleConnect(ctx)
	case e.Kind == event.KindDisconnect:
		err = p.HandleDisconnect(ctx)
	case e.Kind == event.KindInvite:
		err = p.HandleInvite(ctx, e.Origin, e.Channel)
	case e.Kind == event.KindJoin:
		err = p.HandleJoin(ctx, e.Origin, e.Channel)
	case e.Kind == event.KindKick:
		err = p.HandleKick(ctx, e.Origin, e.Channel, e.Target, e.Reason)
	case e.Kind == event.KindMessage:
		err = p.HandleMessage(ctx, e.Origin, e.Channel, message)
	case e.Kind == event.KindMe:
		err = p.HandleMe(ctx, e.Origin, e.Target, e.Message)
	case e.Kind == event.KindMode:
		err = p.HandleMode(ctx, e.Origin, e.Channel, e.Mode, e.Limit, e.User, e.Mask)
	case e.Kind == event.KindNames:
		err = p.HandleNames(ctx, e.Channel, e.Names)
	case e.Kind == event.KindNick:
		err = p.HandleNick(ctx, e.Origin, e.Nickname)
	case e.Kind == event.KindNotice:
		err = p.HandleNotice(ctx, e.Origin, e.Channel, e.Message)
	case e.Kind == event.KindPart:
		err = p.HandlePart(ctx, e.Origin, e.Channel, e.Reason)
	case e.Kind == event.KindTopic:
		err = p.HandleTopic(ctx, e.Origin, e.Channel, e.Topic)
	case e.Kind == event.KindWhois:
		err = p.HandleWhois(ctx, plugin.WhoisInfoFromEvent(e))
	}

	if err != nil {
		d.logf("plugin %s: %s handler: %v", p.ID(), e.Kind, err)
	}
}

func (d *Dispatcher) logf(format string, args ...interface{}) {
	if d.Logger == nil {
		return
	}
	d.Logger.Print(fmt.Sprintf(format, args...))
}
