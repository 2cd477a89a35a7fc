package chat

import (
	"sync"

	"github.com/bastiangx/huffchat/pkg/huffman"
)

// Session is the application-facing facade over the codec. It produces and
// consumes envelopes and keeps an ordered history of everything sent or
// received. History is append-only and unbounded.
type Session struct {
	mu      sync.Mutex
	history []*Envelope
	last    huffman.Stats
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// CreateMessage encodes text and wraps it in an envelope ready to send.
// The compression stats of the message are kept for LastStats.
func (s *Session) CreateMessage(sender, text string) *Envelope {
	env := NewEncoded(sender, text)
	s.mu.Lock()
	s.last = huffman.CompressionStats(text, env.CompressedData)
	s.mu.Unlock()
	return env
}

// DecompressMessage fills in OriginalText from the carried bits and codes,
// mutating and returning the same envelope. Plain envelopes pass through
// untouched, and decoding an already-decoded envelope yields the same text.
func (s *Session) DecompressMessage(env *Envelope) (*Envelope, error) {
	if env.Kind() != KindEncoded {
		return env, nil
	}
	text, err := huffman.Decode(env.CompressedData, env.Codes)
	if err != nil {
		return nil, err
	}
	env.OriginalText = text
	return env, nil
}

// AddToHistory appends an envelope to the session history.
func (s *Session) AddToHistory(env *Envelope) {
	s.mu.Lock()
	s.history = append(s.history, env)
	s.mu.Unlock()
}

// History returns the envelopes exchanged so far, oldest first.
func (s *Session) History() []*Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Envelope, len(s.history))
	copy(out, s.history)
	return out
}

// LastStats reports the compression stats of the most recently created
// message.
func (s *Session) LastStats() huffman.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
