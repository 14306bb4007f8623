package bot

import (
	"time"

	"github.com/dalnet/irccd/internal/hook"
	"github.com/dalnet/irccd/internal/ircerr"
	"github.com/dalnet/irccd/internal/ircsession"
	"github.com/dalnet/irccd/internal/plugin"
	"github.com/dalnet/irccd/internal/rule"
	"github.com/dalnet/irccd/internal/transport"
)

// Handle implements transport.Handler: it is the single entry point the
// control-plane acceptor calls for every parsed command (spec §6.3).
func (b *Bot) Handle(client *transport.Client, command string, req map[string]interface{}) (map[string]interface{}, error) {
	fn, ok := commandTable[command]
	if !ok {
		return nil, ircerr.InvalidCommand(command)
	}
	return fn(b, req)
}

var commandTable = map[string]func(*Bot, map[string]interface{}) (map[string]interface{}, error){
	"plugin-config": cmdPluginConfig,
	"plugin-info":   cmdPluginInfo,
	"plugin-list":   cmdPluginList,
	"plugin-load":   cmdPluginLoad,
	"plugin-reload": cmdPluginReload,
	"plugin-unload": cmdPluginUnload,

	"rule-add":    cmdRuleAdd,
	"rule-edit":   cmdRuleEdit,
	"rule-info":   cmdRuleInfo,
	"rule-list":   cmdRuleList,
	"rule-move":   cmdRuleMove,
	"rule-remove": cmdRuleRemove,

	"server-connect":    cmdServerConnect,
	"server-disconnect": cmdServerDisconnect,
	"server-info":       cmdServerInfo,
	"server-invite":     cmdServerInvite,
	"server-join":       cmdServerJoin,
	"server-kick":       cmdServerKick,
	"server-list":       cmdServerList,
	"server-me":         cmdServerMe,
	"server-message":    cmdServerMessage,
	"server-mode":       cmdServerMode,
	"server-nick":       cmdServerNick,
	"server-notice":     cmdServerNotice,
	"server-part":       cmdServerPart,
	"server-reconnect":  cmdServerReconnect,
	"server-topic":      cmdServerTopic,
}

// -- field helpers -----------------------------------------------------

func getString(req map[string]interface{}, key string) (string, bool) {
	v, ok := req[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func requireString(req map[string]interface{}, key string, invalid func() *ircerr.Error) (string, error) {
	s, ok := getString(req, key)
	if !ok || s == "" {
		return "", invalid()
	}
	return s, nil
}

func optionalString(req map[string]interface{}, key string) string {
	s, _ := getString(req, key)
	return s
}

func getInt(req map[string]interface{}, key string) (int, bool) {
	v, ok := req[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

func getBool(req map[string]interface{}, key string) bool {
	v, ok := req[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func getStringSlice(req map[string]interface{}, key string) []string {
	v, ok := req[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func ruleSetJSON(s rule.Set) []string {
	out := s.List()
	if out == nil {
		out = []string{}
	}
	return out
}

// -- plugin commands -----------------------------------------------------

func cmdPluginConfig(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	id, err := requireString(req, "id", func() *ircerr.Error { return ircerr.PluginInvalidIdentifier("") })
	if err != nil {
		return nil, err
	}
	p, ok := b.Plugins.Get(id)
	if !ok {
		return nil, ircerr.PluginNotFound(id)
	}
	options := p.Options()
	if option, ok := getString(req, "option"); ok {
		if value, ok := getString(req, "value"); ok {
			options[option] = value
		}
		return map[string]interface{}{"value": options[option]}, nil
	}
	out := make(map[string]interface{}, len(options))
	for k, v := range options {
		out[k] = v
	}
	return map[string]interface{}{"options": out}, nil
}

func cmdPluginInfo(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	id, err := requireString(req, "id", func() *ircerr.Error { return ircerr.PluginInvalidIdentifier("") })
	if err != nil {
		return nil, err
	}
	p, ok := b.Plugins.Get(id)
	if !ok {
		return nil, ircerr.PluginNotFound(id)
	}
	md := p.Metadata()
	return map[string]interface{}{
		"id":      id,
		"author":  md.Author,
		"license": md.License,
		"summary": md.Summary,
		"version": md.Version,
	}, nil
}

func cmdPluginList(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	plugins := b.Plugins.List()
	ids := make([]string, 0, len(plugins))
	for _, p := range plugins {
		ids = append(ids, p.ID())
	}
	return map[string]interface{}{"list": ids}, nil
}

func cmdPluginLoad(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	id, err := requireString(req, "id", func() *ircerr.Error { return ircerr.PluginInvalidIdentifier("") })
	if err != nil {
		return nil, err
	}
	if err := b.LoadPlugin(id); err != nil {
		return nil, err
	}
	return nil, nil
}

func cmdPluginReload(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	id, err := requireString(req, "id", func() *ircerr.Error { return ircerr.PluginInvalidIdentifier("") })
	if err != nil {
		return nil, err
	}
	if err := b.ReloadPlugin(id); err != nil {
		return nil, err
	}
	return nil, nil
}

func cmdPluginUnload(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	id, err := requireString(req, "id", func() *ircerr.Error { return ircerr.PluginInvalidIdentifier("") })
	if err != nil {
		return nil, err
	}
	if err := b.UnloadPlugin(id); err != nil {
		return nil, err
	}
	return nil, nil
}

// -- rule commands ---------------------------------------------------------

func ruleFromRequest(req map[string]interface{}) (rule.Rule, error) {
	r := rule.New()
	r.Servers = rule.NewSet(getStringSlice(req, "servers"))
	r.Channels = rule.NewSet(getStringSlice(req, "channels"))
	r.Origins = rule.NewSet(getStringSlice(req, "origins"))
	r.Plugins = rule.NewSet(getStringSlice(req, "plugins"))
	r.Events = rule.NewEventSet(getStringSlice(req, "events"))
	if action, ok := getString(req, "action"); ok {
		a, valid := rule.ParseAction(action)
		if !valid {
			return rule.Rule{}, ircerr.RuleInvalidAction(action)
		}
		r.Action = a
	}
	return r, nil
}

func cmdRuleAdd(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	r, err := ruleFromRequest(req)
	if err != nil {
		return nil, err
	}
	if index, ok := getInt(req, "index"); ok {
		if err := b.Rules.Insert(index, r); err != nil {
			return nil, err
		}
		return map[string]interface{}{"index": index}, nil
	}
	index := b.Rules.Append(r)
	return map[string]interface{}{"index": index}, nil
}

func cmdRuleEdit(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	index, ok := getInt(req, "index")
	if !ok {
		return nil, ircerr.RuleInvalidIndex()
	}
	edit := rule.Edit{
		AddServers:     getStringSlice(req, "add-servers"),
		RemoveServers:  getStringSlice(req, "remove-servers"),
		AddChannels:    getStringSlice(req, "add-channels"),
		RemoveChannels: getStringSlice(req, "remove-channels"),
		AddOrigins:     getStringSlice(req, "add-origins"),
		RemoveOrigins:  getStringSlice(req, "remove-origins"),
		AddPlugins:     getStringSlice(req, "add-plugins"),
		RemovePlugins:  getStringSlice(req, "remove-plugins"),
		AddEvents:      getStringSlice(req, "add-events"),
		RemoveEvents:   getStringSlice(req, "remove-events"),
	}
	if action, ok := getString(req, "action"); ok {
		edit.Action = &action
	}
	if err := b.Rules.Edit(index, edit); err != nil {
		return nil, err
	}
	return nil, nil
}

func ruleInfoJSON(index int, r rule.Rule) map[string]interface{} {
	return map[string]interface{}{
		"index":    index,
		"servers":  ruleSetJSON(r.Servers),
		"channels": ruleSetJSON(r.Channels),
		"origins":  ruleSetJSON(r.Origins),
		"plugins":  ruleSetJSON(r.Plugins),
		"events":   ruleSetJSON(r.Events),
		"action":   r.Action.String(),
	}
}

func cmdRuleInfo(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	index, ok := getInt(req, "index")
	if !ok {
		return nil, ircerr.RuleInvalidIndex()
	}
	r, err := b.Rules.Get(index)
	if err != nil {
		return nil, err
	}
	return ruleInfoJSON(index, r), nil
}

func cmdRuleList(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	rules := b.Rules.List()
	list := make([]map[string]interface{}, 0, len(rules))
	for i, r := range rules {
		list = append(list, ruleInfoJSON(i, r))
	}
	return map[string]interface{}{"list": list}, nil
}

func cmdRuleMove(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	from, ok := getInt(req, "from")
	if !ok {
		return nil, ircerr.RuleInvalidIndex()
	}
	to, ok := getInt(req, "to")
	if !ok {
		return nil, ircerr.RuleInvalidIndex()
	}
	if err := b.Rules.Move(from, to); err != nil {
		return nil, err
	}
	return nil, nil
}

func cmdRuleRemove(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	index, ok := getInt(req, "index")
	if !ok {
		return nil, ircerr.RuleInvalidIndex()
	}
	if err := b.Rules.Remove(index); err != nil {
		return nil, err
	}
	return nil, nil
}

// -- server commands ---------------------------------------------------------

func cmdServerConnect(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	id, err := requireString(req, "server", func() *ircerr.Error { return ircerr.ServerInvalidIdentifier("") })
	if err != nil {
		return nil, err
	}
	hostname, err := requireString(req, "hostname", ircerr.ServerInvalidHostname)
	if err != nil {
		return nil, err
	}
	port, ok := getInt(req, "port")
	if !ok {
		return nil, ircerr.ServerInvalidPort()
	}
	nickname, err := requireString(req, "nickname", ircerr.ServerInvalidNickname)
	if err != nil {
		return nil, err
	}
	username, err := requireString(req, "username", ircerr.ServerInvalidUsername)
	if err != nil {
		return nil, err
	}
	realname, err := requireString(req, "realname", ircerr.ServerInvalidRealname)
	if err != nil {
		return nil, err
	}
	commandChar := optionalString(req, "command_char")
	if commandChar == "" {
		commandChar = "!"
	}

	reconnectDelay := 30
	if v, ok := getInt(req, "reconnect_delay"); ok {
		reconnectDelay = v
	}
	pingTimeout := 900
	if v, ok := getInt(req, "ping_timeout"); ok {
		pingTimeout = v
	}

	cfg := ircsession.Config{
		ID:             id,
		Hostname:       hostname,
		Port:           port,
		Password:       optionalString(req, "password"),
		Nickname:       nickname,
		Username:       username,
		Realname:       realname,
		CTCPVersion:    optionalString(req, "ctcp_version"),
		CommandChar:    commandChar,
		ReconnectDelay: time.Duration(reconnectDelay) * time.Second,
		PingTimeout:    time.Duration(pingTimeout) * time.Second,
		Options: ircsession.Options{
			IPv4:          getBool(req, "ipv4"),
			IPv6:          getBool(req, "ipv6"),
			TLS:           getBool(req, "tls"),
			AutoRejoin:    getBool(req, "auto_rejoin"),
			AutoReconnect: getBool(req, "auto_reconnect"),
			JoinInvite:    getBool(req, "join_invite"),
		},
	}

	if _, err := b.AddServer(cfg); err != nil {
		return nil, err
	}
	return nil, nil
}

func cmdServerDisconnect(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	if id, ok := getString(req, "server"); ok && id != "" {
		if err := b.RemoveServer(id); err != nil {
			return nil, err
		}
		return nil, nil
	}
	b.DisconnectAll()
	return nil, nil
}

func serverInfoJSON(info ircsession.Info) map[string]interface{} {
	requested := make([]map[string]interface{}, 0, len(info.Requested))
	for _, r := range info.Requested {
		requested = append(requested, map[string]interface{}{"name": r.Name, "password": r.Password != ""})
	}
	return map[string]interface{}{
		"name":         info.ID,
		"hostname":     info.Hostname,
		"port":         info.Port,
		"state":        info.State.String(),
		"nickname":     info.Nickname,
		"command_char": info.CommandChar,
		"channels":     info.Joined,
		"requested":    requested,
	}
}

func cmdServerInfo(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	id, err := requireString(req, "server", func() *ircerr.Error { return ircerr.ServerInvalidIdentifier("") })
	if err != nil {
		return nil, err
	}
	s, err := b.GetServer(id)
	if err != nil {
		return nil, err
	}
	return serverInfoJSON(s.Snapshot()), nil
}

// server-list reports the abbreviated per-entry shape of SPEC_FULL.md §7:
// identifier, hostname, port, state, and joined-channel count.
func cmdServerList(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	infos := b.ServerList()
	list := make([]map[string]interface{}, 0, len(infos))
	for _, info := range infos {
		list = append(list, map[string]interface{}{
			"name":     info.ID,
			"hostname": info.Hostname,
			"port":     info.Port,
			"state":    info.State.String(),
			"channels": len(info.Joined),
		})
	}
	return map[string]interface{}{"list": list}, nil
}

func cmdServerInvite(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	target, err := requireString(req, "target", ircerr.ServerInvalidNickname)
	if err != nil {
		return nil, err
	}
	channel, err := requireString(req, "channel", ircerr.ServerInvalidChannel)
	if err != nil {
		return nil, err
	}
	return nil, s.Invite(target, channel)
}

func cmdServerJoin(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	channel, err := requireString(req, "channel", ircerr.ServerInvalidChannel)
	if err != nil {
		return nil, err
	}
	return nil, s.Join(channel, optionalString(req, "password"))
}

func cmdServerKick(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	target, err := requireString(req, "target", ircerr.ServerInvalidNickname)
	if err != nil {
		return nil, err
	}
	channel, err := requireString(req, "channel", ircerr.ServerInvalidChannel)
	if err != nil {
		return nil, err
	}
	return nil, s.Kick(target, channel, optionalString(req, "reason"))
}

func cmdServerMe(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	target, err := requireString(req, "target", ircerr.ServerInvalidNickname)
	if err != nil {
		return nil, err
	}
	message, err := requireString(req, "message", ircerr.ServerInvalidMessage)
	if err != nil {
		return nil, err
	}
	return nil, s.Me(target, message)
}

func cmdServerMessage(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	target, err := requireString(req, "target", ircerr.ServerInvalidNickname)
	if err != nil {
		return nil, err
	}
	message, err := requireString(req, "message", ircerr.ServerInvalidMessage)
	if err != nil {
		return nil, err
	}
	return nil, s.Message(target, message)
}

func cmdServerMode(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	channel, err := requireString(req, "channel", ircerr.ServerInvalidChannel)
	if err != nil {
		return nil, err
	}
	mode, err := requireString(req, "mode", ircerr.ServerInvalidMode)
	if err != nil {
		return nil, err
	}
	return nil, s.Mode(channel, mode, optionalString(req, "limit"), optionalString(req, "user"), optionalString(req, "mask"))
}

func cmdServerNick(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	nickname, err := requireString(req, "nickname", ircerr.ServerInvalidNickname)
	if err != nil {
		return nil, err
	}
	return nil, s.SetNickname(nickname)
}

func cmdServerNotice(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	target, err := requireString(req, "target", ircerr.ServerInvalidNickname)
	if err != nil {
		return nil, err
	}
	message, err := requireString(req, "message", ircerr.ServerInvalidMessage)
	if err != nil {
		return nil, err
	}
	return nil, s.Notice(target, message)
}

func cmdServerPart(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	channel, err := requireString(req, "channel", ircerr.ServerInvalidChannel)
	if err != nil {
		return nil, err
	}
	return nil, s.Part(channel, optionalString(req, "reason"))
}

func cmdServerReconnect(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	if id, ok := getString(req, "server"); ok && id != "" {
		s, err := b.GetServer(id)
		if err != nil {
			return nil, err
		}
		return nil, s.Reconnect()
	}
	for _, info := range b.ServerList() {
		s, err := b.GetServer(info.ID)
		if err != nil {
			continue
		}
		if err := s.Reconnect(); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func cmdServerTopic(b *Bot, req map[string]interface{}) (map[string]interface{}, error) {
	s, err := serverFromRequest(b, req)
	if err != nil {
		return nil, err
	}
	channel, err := requireString(req, "channel", ircerr.ServerInvalidChannel)
	if err != nil {
		return nil, err
	}
	topic, err := requireString(req, "topic", ircerr.ServerInvalidMessage)
	if err != nil {
		return nil, err
	}
	return nil, s.Topic(channel, topic)
}

func serverFromRequest(b *Bot, req map[string]interface{}) (*ircsession.Server, error) {
	id, err := requireString(req, "server", func() *ircerr.Error { return ircerr.ServerInvalidIdentifier("") })
	if err != nil {
		return nil, err
	}
	return b.GetServer(id)
}

// -- hook passthroughs, used by config loading and not the wire surface
// (spec.md never lists hook-add/hook-remove as a command surface) -------

// AddHook registers h directly, used by cmd/irccd when loading the
// configured hooks at startup.
func (b *Bot) AddHook(h hook.Hook) error {
	return b.Hooks.Add(h)
}

// RemoveHook is the config-reload counterpart of AddHook.
func (b *Bot) RemoveHook(id string) error {
	return b.Hooks.Remove(id)
}

// RegisterNativePlugin is a convenience for embedders wiring up an
// in-process plugin constructor ahead of time (spec §6.4's
// first-non-nil-wins loader chain, exercised through plugin.NativeLoader).
func (b *Bot) RegisterNativePlugin(id string, ctor func() plugin.Handlers) {
	loader, ok := b.Loader.(*plugin.NativeLoader)
	if !ok {
		loader = plugin.NewNativeLoader()
		b.Loader = loader
	}
	loader.Register(id, ctor)
}
