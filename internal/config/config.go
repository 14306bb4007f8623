// Package config loads the irccd YAML configuration tree: servers,
// rules, plugin bindings, hook bindings and transport listeners
// (SPEC_FULL.md §4.1). It follows the teacher's config.Load shape --
// read the whole file, unmarshal with gopkg.in/yaml.v3, apply defaults --
// generalized from a single flat struct to the full surface.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultCommandChar    = "!"
	defaultReconnectDelay = 30
	defaultPingTimeout    = 900
	defaultDataDir        = "./data"
)

// Server mirrors spec §3 "Server" attributes as they appear in YAML.
type Server struct {
	ID             string `yaml:"id"`
	Hostname       string `yaml:"hostname"`
	Port           int    `yaml:"port"`
	Password       string `yaml:"password"`
	Nickname       string `yaml:"nickname"`
	Username       string `yaml:"username"`
	Realname       string `yaml:"realname"`
	CTCPVersion    string `yaml:"ctcp_version"`
	CommandChar    string `yaml:"command_char"`
	ReconnectDelay int    `yaml:"reconnect_delay"`
	PingTimeout    int    `yaml:"ping_timeout"`
	IPv4           bool   `yaml:"ipv4"`
	IPv6           bool   `yaml:"ipv6"`
	TLS            bool   `yaml:"tls"`
	AutoRejoin     bool   `yaml:"auto_rejoin"`
	AutoReconnect  bool   `yaml:"auto_reconnect"`
	JoinInvite     bool   `yaml:"join_invite"`

	Channels []Channel `yaml:"channels"`
}

// Channel is a configured auto-join entry, the YAML form of spec §3
// "Channel request".
type Channel struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

// Rule mirrors spec §3 "Rule": five criteria sets plus an action.
type Rule struct {
	Servers  []string `yaml:"servers"`
	Channels []string `yaml:"channels"`
	Origins  []string `yaml:"origins"`
	Plugins  []string `yaml:"plugins"`
	Events   []string `yaml:"events"`
	Action   string   `yaml:"action"`
}

// Plugin is a plugin binding: an identifier, optional search paths and
// the three string maps spec §3 "Plugin" names.
type Plugin struct {
	ID      string            `yaml:"id"`
	Paths   []string          `yaml:"paths"`
	Options map[string]string `yaml:"options"`
	Formats map[string]string `yaml:"formats"`
}

// Hook is an executable binding, the YAML form of spec §3 "Hook".
type Hook struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// Transport is one control-plane listener definition (spec §4.5): tcp,
// tls or unix.
type Transport struct {
	Type     string `yaml:"type"` // "tcp", "tls", "unix"
	Bind     string `yaml:"bind"`
	Port     int    `yaml:"port"`
	Path     string `yaml:"path"` // unix only
	Password string `yaml:"password"`
	Cert     string `yaml:"certificate"` // tls only
	Key      string `yaml:"private_key"` // tls only
}

// Config is the full daemon configuration tree.
type Config struct {
	DataDir    string      `yaml:"data_dir"`
	Servers    []Server    `yaml:"servers"`
	Rules      []Rule      `yaml:"rules"`
	Plugins    []Plugin    `yaml:"plugins"`
	Hooks      []Hook      `yaml:"hooks"`
	Transports []Transport `yaml:"transports"`
}

// Load reads and parses a YAML configuration file, applying the same
// defaults the teacher applies to its flat config (data_dir) generalized
// to the per-server/per-transport defaults spec §3/§4.1 name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	for i := range cfg.Servers {
		applyServerDefaults(&cfg.Servers[i])
	}
	for i := range cfg.Transports {
		applyTransportDefaults(&cfg.Transports[i])
	}

	return &cfg, nil
}

func applyServerDefaults(s *Server) {
	if s.CommandChar == "" {
		s.CommandChar = defaultCommandChar
	}
	if s.ReconnectDelay == 0 {
		s.ReconnectDelay = defaultReconnectDelay
	}
	if s.PingTimeout == 0 {
		s.PingTimeout = defaultPingTimeout
	}
}

func applyTransportDefaults(t *Transport) {
	if t.Type == "" {
		t.Type = "tcp"
	}
}
