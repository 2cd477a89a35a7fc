/*
Package server implements the broadcast relay at the center of huffchat.

The server never decodes chat traffic. After a client's handshake it treats
every inbound frame as opaque bytes and relays them verbatim to every other
registered connection. Join and leave notices are the only records the
server produces itself, sent as plain envelopes.

Each accepted connection gets its own goroutine and moves through three
states: connecting (waiting for the handshake), registered (relaying), and
closed. The client registry is the only shared mutable state.
*/
package server

import (
	"fmt"
	"net"
	"sync"

	"github.com/bastiangx/huffchat/pkg/chat"
	"github.com/bastiangx/huffchat/pkg/wire"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Server accepts stream connections and relays framed records between them.
type Server struct {
	addr string
	reg  *registry

	mu     sync.Mutex
	ln     net.Listener
	closed bool
}

// New returns a server that will listen on addr.
func New(addr string) *Server {
	return &Server{addr: addr, reg: newRegistry()}
}

// ListenAndServe binds the configured address and serves until Close.
// A bind failure is the only fatal error: it is returned to the operator,
// no retry.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln, one goroutine per connection, until the
// listener is closed.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	log.Infof("listening on %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			return fmt.Errorf("server: accept: %w", err)
		}
		go s.handle(conn)
	}
}

// Addr returns the listener address, or the configured one before Serve.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Close stops accepting and closes every registered connection. Workers
// notice their sockets closing and unwind on their own.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.ln
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	s.reg.closeAll()
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// handle owns one connection from accept to close. The first frame must be
// a handshake carrying a username; anything else drops the connection with
// no registry entry and no notice.
func (s *Server) handle(conn net.Conn) {
	codec := wire.NewCodec(conn)
	c := &client{id: uuid.NewString(), conn: conn, codec: codec}

	var hs wire.Handshake
	if err := codec.ReadFrame(&hs); err != nil || hs.Username == "" {
		log.Warnf("dropping %s: malformed handshake", conn.RemoteAddr())
		conn.Close()
		return
	}
	c.username = hs.Username

	s.reg.add(c)
	log.Infof("%s connected from %s", c.username, conn.RemoteAddr())
	s.announce(fmt.Sprintf("%s has joined the chat.", c.username), c.id)

	// registered: relay every inbound frame verbatim, never decoding it
	for {
		payload, err := codec.ReadRaw()
		if err != nil {
			break
		}
		s.reg.broadcast(payload, c.id)
	}

	conn.Close()
	if s.reg.remove(c.id) {
		log.Infof("%s disconnected", c.username)
		s.announce(fmt.Sprintf("%s has left the chat.", c.username), c.id)
	}
}

// announce broadcasts a plain system envelope to everyone but originID.
func (s *Server) announce(text, originID string) {
	payload, err := msgpack.Marshal(chat.NewPlain(chat.SystemSender, text))
	if err != nil {
		log.Errorf("encoding notice: %v", err)
		return
	}
	s.reg.broadcast(payload, originID)
}
