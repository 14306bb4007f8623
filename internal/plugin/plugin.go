// Package plugin defines the in-process plugin collaborator interface of
// spec §6.4. The plugin runtime itself is explicitly out of scope (spec
// §1): this package only fixes the handler set, metadata shape, registry
// and loader-chain contract a runtime must honor.
package plugin

import "github.com/dalnet/irccd/internal/event"

// Metadata describes a plugin's static identity (spec §3 "Plugin").
type Metadata struct {
	Name    string
	Author  string
	License string
	Summary string
	Version string
}

// Server is the subset of server-session operations a plugin handler may
// call back into (spec §3: "events carry shared references to the server
// so handlers may call back"). It is satisfied by *ircsession.Server; it
// lives here, not there, so this package never imports ircsession.
type Server interface {
	ID() string
	Invite(target, channel string) error
	Join(channel, password string) error
	Kick(target, channel, reason string) error
	Me(target, message string) error
	Message(target, message string) error
	Mode(channel, mode, limit, user, mask string) error
	Names(channel string) error
	Notice(target, message string) error
	Part(channel, reason string) error
	Topic(channel, topic string) error
	Whois(target string) error
}

// Bot is the subset of the bot glue a plugin may reach through its
// Context, modeled the same way (no import of the bot package).
type Bot interface {
	Server(id string) (Server, bool)
}

// Context is passed to every handler invocation.
type Context struct {
	Bot    Bot
	Server string
}

// WhoisInfo mirrors event.Event's WHOIS payload for handler callers that
// don't want to depend on the whole Event shape.
type WhoisInfo struct {
	Nickname string
	Username string
	Hostname string
	Realname string
	Channels []string
}

// Handlers is the full handler set of spec §6.4. Implementations receive
// the bot reference via ctx.Bot and the event payload as positional
// arguments; options/formats/paths are plain string maps.
type Handlers interface {
	ID() string
	Metadata() Metadata
	Options() map[string]string
	Formats() map[string]string
	Paths() map[string]string

	HandleCommand(ctx Context, origin, channel, command string) error
	HandleConnect(ctx Context) error
	HandleDisconnect(ctx Context) error
	HandleInvite(ctx Context, origin, channel string) error
	HandleJoin(ctx Context, origin, channel string) error
	HandleKick(ctx Context, origin, channel, target, reason string) error
	HandleLoad(ctx Context) error
	HandleMessage(ctx Context, origin, channel, message string) error
	HandleMe(ctx Context, origin, channel, message string) error
	HandleMode(ctx Context, origin, channel, mode, limit, user, mask string) error
	HandleNames(ctx Context, channel string, names []string) error
	HandleNick(ctx Context, origin, nickname string) error
	HandleNotice(ctx Context, origin, channel, message string) error
	HandlePart(ctx Context, origin, channel, reason string) error
	HandleReload(ctx Context) error
	HandleTopic(ctx Context, origin, channel, topic string) error
	HandleUnload(ctx Context) error
	HandleWhois(ctx Context, info WhoisInfo) error
}

// WhoisInfoFromEvent adapts an onWhois Event into a WhoisInfo.
func WhoisInfoFromEvent(e event.Event) WhoisInfo {
	return WhoisInfo{
		Nickname: e.Nickname,
		Username: e.Username,
		Hostname: e.Hostname,
		Realname: e.Realname,
	}
}

// Base is an embeddable no-op implementation of Handlers: concrete
// plugins embed it and override only the handlers they care about,
// matching the "plugin is any object exposing the handler set" contract
// without forcing every test double to implement all twenty-three methods.
type Base struct {
	PluginID       string
	PluginMetadata Metadata
	PluginOptions  map[string]string
	PluginFormats  map[string]string
	PluginPaths    map[string]string
}

func (b *Base) ID() string                { return b.PluginID }
func (b *Base) Metadata() Metadata        { return b.PluginMetadata }
func (b *Base) Options() map[string]string { return b.PluginOptions }
func (b *Base) Formats() map[string]string { return b.PluginFormats }
func (b *Base) Paths() map[string]string   { return b.PluginPaths }

func (b *Base) HandleCommand(Context, string, string, string) error                 { return nil }
func (b *Base) HandleConnect(Context) error                                         { return nil }
func (b *Base) HandleDisconnect(Context) error                                      { return nil }
func (b *Base) HandleInvite(Context, string, string) error                          { return nil }
func (b *Base) HandleJoin(Context, string, string) error                            { return nil }
func (b *Base) HandleKick(Context, string, string, string, string) error            { return nil }
func (b *Base) HandleLoad(Context) error                                            { return nil }
func (b *Base) HandleMessage(Context, string, string, string) error                 { return nil }
func (b *Base) HandleMe(Context, string, string, string) error                      { return nil }
func (b *Base) HandleMode(Context, string, string, string, string, string, string) error {
	return nil
}
func (b *Base) HandleNames(Context, string, []string) error      { return nil }
func (b *Base) HandleNick(Context, string, string) error         { return nil }
func (b *Base) HandleNotice(Context, string, string, string) error { return nil }
func (b *Base) HandlePart(Context, string, string, string) error { return nil }
func (b *Base) HandleReload(Context) error                        { return nil }
func (b *Base) HandleTopic(Context, string, string, string) error { return nil }
func (b *Base) HandleUnload(Context) error                        { return nil }
func (b *Base) HandleWhois(Context, WhoisInfo) error               { return nil }
