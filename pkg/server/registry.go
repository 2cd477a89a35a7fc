package server

import (
	"net"
	"sync"

	"github.com/bastiangx/huffchat/pkg/wire"
)

// client is one registered connection: the socket, its framing codec, a
// pre-handshake id and the username announced in the handshake.
type client struct {
	id       string
	username string
	conn     net.Conn
	codec    *wire.Codec
}

// registry is the live map from connection to username, the only shared
// mutable state in the server. Nothing outside this file touches the map:
// all access goes through add, remove, broadcast and closeAll under the
// one lock.
type registry struct {
	mu      sync.Mutex
	clients map[string]*client
}

func newRegistry() *registry {
	return &registry{clients: make(map[string]*client)}
}

func (r *registry) add(c *client) {
	r.mu.Lock()
	r.clients[c.id] = c
	r.mu.Unlock()
}

// remove reports whether the client was still registered, so the caller
// can tell a normal disconnect from one already reaped by a failed send.
func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return false
	}
	delete(r.clients, id)
	return true
}

// broadcast writes one framed payload to every registered client except
// the origin. Iteration runs over a snapshot so entries can be removed
// mid-loop: a failed write means that peer is gone, and its connection is
// closed and its entry dropped in the same critical section. The sender
// never learns which recipients failed.
func (r *registry) broadcast(payload []byte, originID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	targets := make([]*client, 0, len(r.clients))
	for _, c := range r.clients {
		targets = append(targets, c)
	}
	for _, c := range targets {
		if c.id == originID {
			continue
		}
		if err := c.codec.WriteRaw(payload); err != nil {
			c.conn.Close()
			delete(r.clients, c.id)
		}
	}
}

// closeAll closes every registered connection and empties the map.
// Shutdown sends no farewell notice.
func (r *registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		c.conn.Close()
		delete(r.clients, id)
	}
}
