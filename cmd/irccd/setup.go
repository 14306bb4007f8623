package main

import (
	"github.com/dalnet/irccd/internal/config"
	"github.com/dalnet/irccd/internal/hook"
	"github.com/dalnet/irccd/internal/ircerr"
	"github.com/dalnet/irccd/internal/rule"
)

func ruleFromYAML(r config.Rule) (rule.Rule, error) {
	out := rule.New()
	out.Servers = rule.NewSet(r.Servers)
	out.Channels = rule.NewSet(r.Channels)
	out.Origins = rule.NewSet(r.Origins)
	out.Plugins = rule.NewSet(r.Plugins)
	out.Events = rule.NewEventSet(r.Events)

	if r.Action != "" {
		action, ok := rule.ParseAction(r.Action)
		if !ok {
			return rule.Rule{}, ircerr.RuleInvalidAction(r.Action)
		}
		out.Action = action
	}
	return out, nil
}

func newHook(h config.Hook) (hook.Hook, error) {
	return hook.New(h.ID, h.Path)
}
