package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "irccd-config-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "irccd.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesServerDefaults(t *testing.T) {
	path := writeConfig(t, `
servers:
  - id: dalnet
    hostname: irc.dal.net
    port: 6667
    nickname: bot
    username: bot
    realname: bot
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Servers) != 1 {
		t.Fatalf("expected one server, got %d", len(cfg.Servers))
	}
	s := cfg.Servers[0]
	if s.CommandChar != "!" {
		t.Errorf("expected default command_char !, got %q", s.CommandChar)
	}
	if s.ReconnectDelay != defaultReconnectDelay {
		t.Errorf("expected default reconnect_delay %d, got %d", defaultReconnectDelay, s.ReconnectDelay)
	}
	if s.PingTimeout != defaultPingTimeout {
		t.Errorf("expected default ping_timeout %d, got %d", defaultPingTimeout, s.PingTimeout)
	}
	if s.IPv4 || s.IPv6 {
		t.Error("expected no family default: invalid_family is enforced at construction, not defaulted here")
	}
	if cfg.DataDir != defaultDataDir {
		t.Errorf("expected default data_dir, got %q", cfg.DataDir)
	}
}

func TestLoadPreservesExplicitValues(t *testing.T) {
	path := writeConfig(t, `
data_dir: /var/lib/irccd
servers:
  - id: dalnet
    hostname: irc.dal.net
    port: 6697
    nickname: bot
    username: bot
    realname: bot
    command_char: "."
    reconnect_delay: 5
    ping_timeout: 60
    ipv6: true
transports:
  - type: unix
    path: /run/irccd.sock
rules:
  - servers: [dalnet]
    events: [onMessage]
    action: drop
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/var/lib/irccd" {
		t.Errorf("expected explicit data_dir preserved, got %q", cfg.DataDir)
	}
	s := cfg.Servers[0]
	if s.CommandChar != "." || s.ReconnectDelay != 5 || s.PingTimeout != 60 {
		t.Errorf("expected explicit server values preserved, got %+v", s)
	}
	if s.IPv4 {
		t.Error("expected ipv4 to stay false when ipv6 was explicitly set")
	}
	if len(cfg.Transports) != 1 || cfg.Transports[0].Path != "/run/irccd.sock" {
		t.Fatalf("unexpected transports: %+v", cfg.Transports)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Action != "drop" {
		t.Fatalf("unexpected rules: %+v", cfg.Rules)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/irccd.yml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
