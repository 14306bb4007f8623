// Command ircddctl is a minimal reference client for the control-plane
// wire protocol of spec §6.1: it connects, reads the greeting, optionally
// authenticates, sends one command built from the -command name and the
// -fields key=value pairs, and prints the reply.
package main

import (
	"bufio"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
)

const frameDelimiter = "\r\n\r\n"

func main() {
	addr := flag.String("connect", "127.0.0.1:9999", "host:port, or path for -unix")
	unix := flag.Bool("unix", false, "connect to a unix domain socket at -connect")
	useTLS := flag.Bool("tls", false, "connect over TLS")
	password := flag.String("password", "", "control-plane password")
	command := flag.String("command", "", "command name, e.g. server-list")
	fields := flag.String("fields", "", "comma-separated key=value pairs appended to the command object")
	flag.Parse()

	if *command == "" {
		fmt.Fprintln(os.Stderr, "usage: ircddctl -command <name> [-fields k=v,k=v] [-connect addr] [-unix] [-tls] [-password p]")
		os.Exit(2)
	}

	conn, err := dial(*addr, *unix, *useTLS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)

	greeting, err := readFrame(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read greeting: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "greeting: %s\n", greeting)

	if *password != "" {
		if err := writeFrame(conn, map[string]interface{}{"command": "auth", "password": *password}); err != nil {
			fmt.Fprintf(os.Stderr, "write auth: %v\n", err)
			os.Exit(1)
		}
		reply, err := readFrame(reader)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read auth reply: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "auth: %s\n", reply)
	}

	req := map[string]interface{}{"command": *command}
	for k, v := range parseFields(*fields) {
		req[k] = v
	}
	if err := writeFrame(conn, req); err != nil {
		fmt.Fprintf(os.Stderr, "write command: %v\n", err)
		os.Exit(1)
	}

	reply, err := readFrame(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read reply: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(reply))
}

func dial(addr string, unix, useTLS bool) (net.Conn, error) {
	if unix {
		return net.Dial("unix", addr)
	}
	if useTLS {
		return tls.Dial("tcp", addr, &tls.Config{InsecureSkipVerify: true})
	}
	return net.Dial("tcp", addr)
}

func parseFields(raw string) map[string]string {
	out := map[string]string{}
	if raw == "" {
		return out
	}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		out[kv[0]] = kv[1]
	}
	return out
}

func writeFrame(w net.Conn, obj map[string]interface{}) error {
	payload, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = w.Write(append(payload, frameDelimiter...))
	return err
}

func readFrame(r *bufio.Reader) ([]byte, error) {
	var buf []byte
	delim := []byte(frameDelimiter)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b)
		if len(buf) >= len(delim) && string(buf[len(buf)-len(delim):]) == frameDelimiter {
			return buf[:len(buf)-len(delim)], nil
		}
	}
}
