// Copyright 2025 The HuffChat Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the huffchat broadcast server.

The server accepts TCP connections, registers each one under the username
announced in its first record, and relays every subsequent record verbatim
to all other registered clients. Chat traffic is opaque to the server: the
Huffman code tables and compressed payloads inside the records are only
ever decoded by the receiving clients.

# Usage

Start the server on the configured address:

	huffchat-server

Listen somewhere else and enable debug logging:

	huffchat-server -addr 0.0.0.0:7000 -d

# Configuration

Runtime configuration lives in a TOML file that is created with defaults
on first run:

	[server]
	host = "localhost"
	port = 12345

Flags take priority over the config file, which takes priority over the
builtin defaults.

# Wire protocol

Every record is a 4-byte big-endian length prefix followed by a msgpack
body. A client's first record is the handshake:

	{"username": "ana"}

Data records carry the compressed payload and its code table:

	{"sender": "ana", "compressed_data": "10110...", "codes": {"a": "10", ...}, "timestamp": "14:03:21"}

System records are produced by the server itself for join and leave
notices and carry readable text directly:

	{"sender": "Server", "original_text": "ana has joined the chat."}
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/huffchat/internal/logger"
	"github.com/bastiangx/huffchat/pkg/config"
	"github.com/bastiangx/huffchat/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "huffchat-server"
	gh      = "https://github.com/bastiangx/huffchat"
)

// sigHandler closes the server cleanly on SIGINT/SIGTERM.
func sigHandler(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nShutting down...\n")
		srv.Close()
	}()
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ HuffChat ] Every message ships with its own Huffman tree!")
	logger.Print("", "version", Version)
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// main wires the config, flags and server together; the serving logic
// lives in pkg/server.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	addrFlag := flag.String("addr", "", "Listen address, host:port (overrides config)")
	configPath := flag.String("config", "", "Path to a custom config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}
	if *debugMode {
		log.SetLevel(log.DebugLevel)
	}

	lg := logger.New("server")

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		lg.Warnf("Falling back to builtin config: %v", err)
		cfg = config.DefaultConfig()
	}
	lg.Debugf("Active config: %s", config.GetActiveConfigPath(activePath))

	addr := cfg.Server.Addr()
	if *addrFlag != "" {
		addr = *addrFlag
	}

	srv := server.New(addr)
	sigHandler(srv)

	if err := srv.ListenAndServe(); err != nil {
		lg.Fatalf("%v", err)
	}
}
