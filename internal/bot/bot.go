// Package bot is the glue of spec §6.6: it owns the four registries
// (servers, plugins, rules, hooks), wires them into a dispatcher, and
// exposes the collaborator interfaces (plugin.Bot, plugin.Server) those
// registries' members need to call back into the rest of the system.
package bot

import (
	"context"
	"log"
	"sync"

	"github.com/dalnet/irccd/internal/dispatch"
	"github.com/dalnet/irccd/internal/hook"
	"github.com/dalnet/irccd/internal/ircdlog"
	"github.com/dalnet/irccd/internal/ircerr"
	"github.com/dalnet/irccd/internal/ircsession"
	"github.com/dalnet/irccd/internal/plugin"
	"github.com/dalnet/irccd/internal/rule"
)

// Bot owns the registries of spec §3 "Registries" and the dispatcher that
// fans events out across them.
type Bot struct {
	Plugins    *plugin.Registry
	Rules      *rule.Engine
	Hooks      *hook.Registry
	Dispatcher *dispatch.Dispatcher
	Loader     plugin.Loader
	Logger     *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	servers map[string]*ircsession.Server
}

// New constructs a Bot with empty registries, a dispatcher wired to them,
// and a background lifecycle derived from parent.
func New(parent context.Context, logger *log.Logger) *Bot {
	b := &Bot{
		Plugins: plugin.NewRegistry(),
		Rules:   rule.NewEngine(),
		Hooks:   hook.NewRegistry(),
		Logger:  logger,
		servers: make(map[string]*ircsession.Server),
	}
	b.ctx, b.cancel = context.WithCancel(parent)
	b.Dispatcher = &dispatch.Dispatcher{
		Rules:       b.Rules,
		Plugins:     b.Plugins,
		Hooks:       b.Hooks,
		Bot:         b,
		CommandChar: b.commandCharFor,
		Logger:      logger,
	}
	return b
}

// SetBroadcaster wires a transport server (or any Broadcaster) into the
// dispatcher after construction, since the listener is usually set up
// after the bot itself (spec §4.4: "broadcast to ready transport
// clients").
func (b *Bot) SetBroadcaster(broadcaster dispatch.Broadcaster) {
	b.Dispatcher.Broadcaster = broadcaster
}

func (b *Bot) commandCharFor(serverID string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if s, ok := b.servers[serverID]; ok {
		return s.CommandChar()
	}
	return "!"
}

// Server satisfies plugin.Bot: it hands plugin handlers back a narrow
// view of the session they asked for, never the concrete *bot.Bot.
func (b *Bot) Server(id string) (plugin.Server, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.servers[id]
	if !ok {
		return nil, false
	}
	return s, true
}

// GetServer returns the concrete session for control-plane commands that
// need operations plugin.Server doesn't expose (Snapshot, Reconnect,
// SetNickname); it is kept distinct from Server so that interface stays
// minimal.
func (b *Bot) GetServer(id string) (*ircsession.Server, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.servers[id]
	if !ok {
		return nil, ircerr.ServerNotFound(id)
	}
	return s, nil
}

// ServerList returns a snapshot of every registered server's runtime
// state, safe to range over while sessions reconnect concurrently.
func (b *Bot) ServerList() []ircsession.Info {
	b.mu.RLock()
	ids := make([]*ircsession.Server, 0, len(b.servers))
	for _, s := range b.servers {
		ids = append(ids, s)
	}
	b.mu.RUnlock()

	out := make([]ircsession.Info, 0, len(ids))
	for _, s := range ids {
		out = append(out, s.Snapshot())
	}
	return out
}

// AddServer validates cfg, registers a new session under cfg.ID and
// starts its connection goroutine. server.already_exists if the id is
// taken (spec §7).
func (b *Bot) AddServer(cfg ircsession.Config) (*ircsession.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	if _, ok := b.servers[cfg.ID]; ok {
		b.mu.Unlock()
		return nil, ircerr.ServerAlreadyExists(cfg.ID)
	}
	s := ircsession.New(cfg, b.Dispatcher.Dispatch, ircdlog.ForServer(b.Logger, cfg.ID))
	b.servers[cfg.ID] = s
	b.mu.Unlock()

	s.Start(b.ctx)
	return s, nil
}

// RemoveServer stops and forgets id. server.not_found if absent.
func (b *Bot) RemoveServer(id string) error {
	b.mu.Lock()
	s, ok := b.servers[id]
	if ok {
		delete(b.servers, id)
	}
	b.mu.Unlock()

	if !ok {
		return ircerr.ServerNotFound(id)
	}
	s.Stop()
	return nil
}

// DisconnectAll stops and forgets every server, the effect of
// server-disconnect with no `server` field (spec §6.3).
func (b *Bot) DisconnectAll() {
	b.mu.Lock()
	servers := make([]*ircsession.Server, 0, len(b.servers))
	for _, s := range b.servers {
		servers = append(servers, s)
	}
	b.servers = make(map[string]*ircsession.Server)
	b.mu.Unlock()

	for _, s := range servers {
		s.Stop()
	}
}

// LoadPlugin resolves id through the configured loader chain, registers
// it, and invokes its load handler.
func (b *Bot) LoadPlugin(id string) error {
	if b.Loader == nil {
		return ircerr.PluginNotFound(id)
	}
	p, err := b.Loader.Load(id)
	if err != nil {
		return err
	}
	if p == nil {
		return ircerr.PluginNotFound(id)
	}
	if err := b.Plugins.Add(p); err != nil {
		return err
	}
	return p.HandleLoad(plugin.Context{Bot: b})
}

// UnloadPlugin invokes the plugin's unload handler and removes it.
// plugin.not_found if id isn't loaded.
func (b *Bot) UnloadPlugin(id string) error {
	p, ok := b.Plugins.Get(id)
	if !ok {
		return ircerr.PluginNotFound(id)
	}
	if err := p.HandleUnload(plugin.Context{Bot: b}); err != nil {
		b.logf("plugin %s: unload handler: %v", id, err)
	}
	return b.Plugins.Remove(id)
}

// ReloadPlugin invokes the plugin's reload handler in place.
func (b *Bot) ReloadPlugin(id string) error {
	p, ok := b.Plugins.Get(id)
	if !ok {
		return ircerr.PluginNotFound(id)
	}
	return p.HandleReload(plugin.Context{Bot: b})
}

// Shutdown stops every server and cancels the bot's background context.
func (b *Bot) Shutdown() {
	b.DisconnectAll()
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *Bot) logf(format string, args ...interface{}) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
	}
}
