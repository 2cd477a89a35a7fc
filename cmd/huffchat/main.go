/*
Package main implements the huffchat terminal client.

The client connects to a huffchat server, announces a username, then runs
two loops: stdin lines are compressed with a per-message Huffman code and
sent as data records, while inbound records are decoded (or printed as-is
for server notices) and rendered with their timestamps.

	huffchat -name ana
	huffchat -addr chat.example.net:12345 -stats

With -stats every sent message prints its compression summary, the
terminal stand-in for the original GUI's live visualizer.
*/
package main

import (
	"flag"
	"net"
	"os"

	"github.com/bastiangx/huffchat/internal/cli"
	"github.com/bastiangx/huffchat/pkg/config"
	"github.com/charmbracelet/log"
)

func main() {
	addrFlag := flag.String("addr", "", "Server address, host:port (overrides config)")
	nameFlag := flag.String("name", "", "Username to join as (prompted if empty)")
	configPath := flag.String("config", "", "Path to a custom config.toml")
	showStats := flag.Bool("stats", false, "Print compression stats for every sent message")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	}

	cfg, _, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Warnf("Falling back to builtin config: %v", err)
		cfg = config.DefaultConfig()
	}

	addr := cfg.Client.Addr()
	if *addrFlag != "" {
		addr = *addrFlag
	}
	stats := *showStats || cfg.Client.ShowStats

	username := *nameFlag
	if username == "" {
		username, err = cli.PromptUsername(cfg.Client.Username)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.Fatalf("Could not reach the server at %s: %v", addr, err)
	}
	defer conn.Close()

	handler := cli.NewHandler(conn, username, stats)
	if err := handler.Start(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
