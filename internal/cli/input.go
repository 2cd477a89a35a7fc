// Package cli drives the terminal chat client: the username prompt, the
// stdin send loop, and the receive loop that renders peer envelopes.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync/atomic"

	"github.com/bastiangx/huffchat/internal/logger"
	"github.com/bastiangx/huffchat/pkg/chat"
	"github.com/bastiangx/huffchat/pkg/wire"
	"github.com/charmbracelet/log"
)

// Handler owns one connected chat session: it performs the handshake,
// sends envelopes typed on stdin and renders envelopes received from the
// server.
type Handler struct {
	session   *chat.Session
	codec     *wire.Codec
	username  string
	showStats bool
	out       io.Writer
	in        *bufio.Reader
	log       *log.Logger
	quitting  atomic.Bool
}

// NewHandler wraps an established connection. showStats adds a per-message
// compression summary below every sent message.
func NewHandler(conn net.Conn, username string, showStats bool) *Handler {
	return &Handler{
		session:   chat.NewSession(),
		codec:     wire.NewCodec(conn),
		username:  username,
		showStats: showStats,
		out:       os.Stdout,
		in:        bufio.NewReader(os.Stdin),
		log:       logger.Default("chat"),
	}
}

// PromptUsername reads a username from stdin, falling back to def when the
// user just presses enter.
func PromptUsername(def string) (string, error) {
	if def != "" {
		fmt.Printf("Enter username [%s]: ", def)
	} else {
		fmt.Print("Enter username: ")
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(line)
	if name == "" {
		name = def
	}
	if name == "" {
		return "", fmt.Errorf("cli: a username is required")
	}
	return name, nil
}

// Start sends the handshake and runs the send loop until /quit or EOF.
// The receive loop runs alongside and prints a single notice if the
// connection drops.
func (h *Handler) Start() error {
	if err := h.codec.WriteFrame(wire.Handshake{Username: h.username}); err != nil {
		return fmt.Errorf("cli: handshake: %w", err)
	}
	fmt.Fprintf(h.out, "Connected as %s. Type a message, or /quit to leave.\n", h.username)

	go h.receive()
	return h.inputLoop()
}

// receive renders inbound envelopes until the connection ends. Plain
// notices print as-is; encoded envelopes are decoded first. A corrupt
// message is reported and skipped, it never ends the session.
func (h *Handler) receive() {
	for {
		var env chat.Envelope
		if err := h.codec.ReadFrame(&env); err != nil {
			if !h.quitting.Load() {
				fmt.Fprintln(h.out, "--- lost connection to the server ---")
			}
			return
		}
		msg, err := h.session.DecompressMessage(&env)
		if err != nil {
			h.log.Errorf("Dropping corrupt message from %s: %v", env.Sender, err)
			continue
		}
		h.session.AddToHistory(msg)
		if msg.Timestamp != "" {
			fmt.Fprintf(h.out, "[%s] %s: %s\n", msg.Timestamp, msg.Sender, msg.OriginalText)
		} else {
			fmt.Fprintf(h.out, "%s: %s\n", msg.Sender, msg.OriginalText)
		}
	}
}

func (h *Handler) inputLoop() error {
	for {
		line, err := h.in.ReadString('\n')
		if err != nil {
			h.quitting.Store(true)
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("cli: reading input: %w", err)
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if text == "/quit" {
			h.quitting.Store(true)
			return nil
		}

		env := h.session.CreateMessage(h.username, text)
		h.session.AddToHistory(env)
		if err := h.codec.WriteFrame(env.WireView()); err != nil {
			return fmt.Errorf("cli: send: %w", err)
		}
		if h.showStats {
			stats := h.session.LastStats()
			fmt.Fprintf(h.out, "    [%d -> %d bits, saved %.2f%%]\n",
				stats.OriginalBits, stats.CompressedBits, stats.PercentSaved)
		}
	}
}

// History exposes the session history, oldest first.
func (h *Handler) History() []*chat.Envelope {
	return h.session.History()
}
