// Command irccd is the daemon binary: it loads a YAML configuration,
// brings up every configured server session, rule and hook, and
// accepts control-plane connections on every configured transport
// listener. Plugin bindings in the configuration are not loaded. The daemonize/PID-file/signal-handling shape follows
// cmd/rnexus/main.go in the teacher, generalized from one IRC connection
// to the bot glue of SPEC_FULL.md §6.6.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dalnet/irccd/internal/bot"
	"github.com/dalnet/irccd/internal/config"
	"github.com/dalnet/irccd/internal/ircdlog"
	"github.com/dalnet/irccd/internal/ircsession"
	"github.com/dalnet/irccd/internal/transport"
)

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

const (
	versionMajor = 2
	versionMinor = 0
	versionPatch = 0
)

func main() {
	foreground := flag.Bool("x", false, "Run in foreground (don't daemonize)")
	configPath := flag.String("c", "./irccd.yml", "Path to configuration file")
	showVersion := flag.Bool("v", false, "Show version information and exit")
	showVersionLong := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("irccd version %s\n", version)
		fmt.Printf("Built: %s\n", buildDate)
		fmt.Printf("Commit: %s\n", gitCommit)
		os.Exit(0)
	}

	if !*foreground {
		daemonize()
		return
	}

	if err := writePIDFile(); err != nil {
		log.Printf("Warning: could not write PID file: %v", err)
	}

	run(*configPath)
}

// daemonize performs the same double-fork the teacher uses to detach
// from the controlling terminal.
func daemonize() {
	if os.Getenv("IRCCD_DAEMON") == "1" {
		for os.Getppid() != 1 {
			break
		}

		if err := writePIDFile(); err != nil {
			log.Printf("Warning: could not write PID file: %v", err)
		}

		args := append(os.Args, "-x")
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Stdout = nil
		cmd.Stderr = nil
		cmd.Stdin = nil
		cmd.Env = os.Environ()

		if err := cmd.Start(); err != nil {
			log.Fatalf("Failed to start daemon: %v", err)
		}
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Env = append(os.Environ(), "IRCCD_DAEMON=1")
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to fork: %v", err)
	}
	os.Exit(0)
}

func writePIDFile() error {
	return os.WriteFile("irccd.pid", []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644)
}

func run(configPath string) {
	if !filepath.IsAbs(configPath) {
		wd, _ := os.Getwd()
		configPath = filepath.Join(wd, configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	rootLogger := ircdlog.New()
	ctx, cancel := context.WithCancel(context.Background())
	b := bot.New(ctx, ircdlog.ForBot(rootLogger))

	loadRules(b, cfg.Rules)
	loadHooks(b, cfg.Hooks)

	listeners := startTransports(b, cfg.Transports, ircdlog.ForTransport(rootLogger))

	for _, sc := range cfg.Servers {
		scfg := sessionConfigFromYAML(sc)
		s, err := b.AddServer(scfg)
		if err != nil {
			rootLogger.Printf("Warning: failed to add server %s: %v", sc.ID, err)
			continue
		}
		for _, c := range sc.Channels {
			if err := s.Join(c.Name, c.Password); err != nil {
				rootLogger.Printf("Warning: could not queue join for %s on %s: %v", c.Name, sc.ID, err)
			}
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	rootLogger.Printf("received signal %v, shutting down", sig)

	for _, l := range listeners {
		l.Close()
	}
	b.Shutdown()
	cancel()
}

func loadRules(b *bot.Bot, rules []config.Rule) {
	for _, r := range rules {
		rl, err := ruleFromYAML(r)
		if err != nil {
			b.Logger.Printf("Warning: skipping invalid rule: %v", err)
			continue
		}
		b.Rules.Append(rl)
	}
}

func loadHooks(b *bot.Bot, hooks []config.Hook) {
	for _, h := range hooks {
		hk, err := newHook(h)
		if err != nil {
			b.Logger.Printf("Warning: skipping invalid hook %s: %v", h.ID, err)
			continue
		}
		if err := b.AddHook(hk); err != nil {
			b.Logger.Printf("Warning: could not register hook %s: %v", h.ID, err)
		}
	}
}

func startTransports(b *bot.Bot, transports []config.Transport, logger *log.Logger) []net.Listener {
	var listeners []net.Listener
	greeting := transportGreeting()

	for _, t := range transports {
		listener, err := listenFor(t)
		if err != nil {
			logger.Printf("Warning: could not start transport %s: %v", t.Type, err)
			continue
		}

		greeting.SSL = t.Type == "tls"
		srv := transport.New(listener, t.Password, greeting, b, logger)
		b.SetBroadcaster(srv)
		listeners = append(listeners, listener)

		go func(s *transport.Server) {
			if err := s.Serve(); err != nil {
				logger.Printf("transport listener stopped: %v", err)
			}
		}(srv)
	}
	return listeners
}

func transportGreeting() transport.Greeting {
	return transport.Greeting{
		Program: "irccd",
		Major:   versionMajor,
		Minor:   versionMinor,
		Patch:   versionPatch,
	}
}

func listenFor(t config.Transport) (net.Listener, error) {
	switch t.Type {
	case "unix":
		os.Remove(t.Path)
		return net.Listen("unix", t.Path)
	case "tls":
		cert, err := tls.LoadX509KeyPair(t.Cert, t.Key)
		if err != nil {
			return nil, err
		}
		addr := fmt.Sprintf("%s:%d", t.Bind, t.Port)
		return tls.Listen("tcp", addr, &tls.Config{Certificates: []tls.Certificate{cert}})
	default:
		addr := fmt.Sprintf("%s:%d", t.Bind, t.Port)
		return net.Listen("tcp", addr)
	}
}

func sessionConfigFromYAML(sc config.Server) ircsession.Config {
	return ircsession.Config{
		ID:             sc.ID,
		Hostname:       sc.Hostname,
		Port:           sc.Port,
		Password:       sc.Password,
		Nickname:       sc.Nickname,
		Username:       sc.Username,
		Realname:       sc.Realname,
		CTCPVersion:    sc.CTCPVersion,
		CommandChar:    sc.CommandChar,
		ReconnectDelay: time.Duration(sc.ReconnectDelay) * time.Second,
		PingTimeout:    time.Duration(sc.PingTimeout) * time.Second,
		Options: ircsession.Options{
			IPv4:          sc.IPv4,
			IPv6:          sc.IPv6,
			TLS:           sc.TLS,
			AutoRejoin:    sc.AutoRejoin,
			AutoReconnect: sc.AutoReconnect,
			JoinInvite:    sc.JoinInvite,
		},
	}
}
