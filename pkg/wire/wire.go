/*
Package wire frames records for transport over a byte stream.

A frame is a 4-byte big-endian length prefix followed by that many bytes of
msgpack. TCP reads are not guaranteed to align with record boundaries, so
the prefix is what keeps records from being split or coalesced across reads.
msgpack keeps the records compact, which matters for a protocol whose whole
point is sending fewer bytes.
*/
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MaxFrameSize caps a single record. Anything larger is a protocol error,
// not a chat message.
const MaxFrameSize = 1 << 20

// ErrFrameTooLarge means a length prefix announced more than MaxFrameSize
// bytes.
var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

// Handshake is the first record a client sends after connecting. A missing
// or empty username is a malformed handshake and the server drops the
// connection without registering it.
type Handshake struct {
	Username string `msgpack:"username"`
}

// Codec reads and writes frames over a single stream connection. Reads are
// buffered; writes are serialized so concurrent senders cannot interleave
// partial frames.
type Codec struct {
	r *bufio.Reader

	wmu sync.Mutex
	w   io.Writer
}

// NewCodec wraps a stream connection.
func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{r: bufio.NewReader(rw), w: rw}
}

// WriteFrame marshals v and writes it as one frame.
func (c *Codec) WriteFrame(v any) error {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("wire: marshal frame: %w", err)
	}
	return c.WriteRaw(payload)
}

// WriteRaw writes already-encoded payload bytes as one frame. The server
// relays inbound frames this way without ever decoding them.
func (c *Codec) WriteRaw(payload []byte) error {
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.w.Write(header[:]); err != nil {
		return err
	}
	_, err := c.w.Write(payload)
	return err
}

// ReadRaw reads one frame and returns its payload bytes without decoding.
func (c *Codec) ReadRaw() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(c.r, header[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(c.r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ReadFrame reads one frame and unmarshals it into v.
func (c *Codec) ReadFrame(v any) error {
	payload, err := c.ReadRaw()
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("wire: unmarshal frame: %w", err)
	}
	return nil
}
