/*
Package chat defines the message envelope and the client-side session.

An envelope is the self-contained unit of transport: sender, encoded payload,
the code table that reverses it, and a wall-clock timestamp. Two variants
share one wire schema -- an encoded envelope carries compressed bits plus
codes, a plain envelope carries text directly (server notices are cheap
one-off strings not worth compressing). Receivers branch on Kind before
deciding whether to decode.
*/
package chat

import (
	"time"

	"github.com/bastiangx/huffchat/pkg/huffman"
)

// Kind tells the two envelope variants apart.
type Kind int

const (
	// KindPlain carries readable text directly, no code table.
	KindPlain Kind = iota
	// KindEncoded carries compressed bits plus the code table to reverse them.
	KindEncoded
)

// TimestampLayout is the wall-clock format stamped on every envelope.
const TimestampLayout = "15:04:05"

// SystemSender names the server as the sender of join/leave notices.
const SystemSender = "Server"

// Envelope is a single chat record. OriginalText is only populated on the
// producing side and on plain system notices; it is never required to
// reconstruct an encoded message and never sent for one.
type Envelope struct {
	Sender         string            `msgpack:"sender"`
	OriginalText   string            `msgpack:"original_text,omitempty"`
	CompressedData string            `msgpack:"compressed_data,omitempty"`
	Codes          huffman.CodeTable `msgpack:"codes,omitempty"`
	Timestamp      string            `msgpack:"timestamp,omitempty"`
}

// NewEncoded compresses text and wraps it with its code table and a
// fresh timestamp.
func NewEncoded(sender, text string) *Envelope {
	bits, codes := huffman.Encode(text)
	return &Envelope{
		Sender:         sender,
		OriginalText:   text,
		CompressedData: bits,
		Codes:          codes,
		Timestamp:      time.Now().Format(TimestampLayout),
	}
}

// NewPlain wraps uncompressed text, used for server-generated notices.
func NewPlain(sender, text string) *Envelope {
	return &Envelope{
		Sender:       sender,
		OriginalText: text,
		Timestamp:    time.Now().Format(TimestampLayout),
	}
}

// Kind resolves the variant from the presence of the code table.
func (e *Envelope) Kind() Kind {
	if len(e.Codes) > 0 {
		return KindEncoded
	}
	return KindPlain
}

// WireView returns the envelope as it should leave the process. Encoded
// envelopes drop OriginalText: the plaintext is local-only and the peer
// reconstructs it from the bits and codes.
func (e *Envelope) WireView() *Envelope {
	if e.Kind() != KindEncoded {
		return e
	}
	w := *e
	w.OriginalText = ""
	return &w
}
