package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/bastiangx/huffchat/pkg/chat"
)

type streamRW struct {
	io.Reader
	io.Writer
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	c := NewCodec(&streamRW{&buf, &buf})

	sent := chat.NewEncoded("ana", "hello over the wire").WireView()
	if err := c.WriteFrame(sent); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	var got chat.Envelope
	if err := c.ReadFrame(&got); err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got.Sender != "ana" || got.CompressedData != sent.CompressedData {
		t.Errorf("frame mismatch: %+v", got)
	}
}

func TestFramesDoNotCoalesce(t *testing.T) {
	var buf bytes.Buffer
	w := NewCodec(&streamRW{&buf, &buf})

	for _, name := range []string{"ana", "bob", "cleo"} {
		if err := w.WriteFrame(Handshake{Username: name}); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}

	for _, want := range []string{"ana", "bob", "cleo"} {
		var hs Handshake
		if err := w.ReadFrame(&hs); err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if hs.Username != want {
			t.Errorf("got username %q, want %q", hs.Username, want)
		}
	}
}

func TestSplitReads(t *testing.T) {
	var buf bytes.Buffer
	NewCodec(&streamRW{nil, &buf}).WriteFrame(Handshake{Username: "ana"})

	// deliver the stream one byte at a time, the way a TCP read is allowed to
	r := NewCodec(&streamRW{iotest.OneByteReader(&buf), io.Discard})
	var hs Handshake
	if err := r.ReadFrame(&hs); err != nil {
		t.Fatalf("ReadFrame over split reads: %v", err)
	}
	if hs.Username != "ana" {
		t.Errorf("got %q, want \"ana\"", hs.Username)
	}
}

func TestRawRelayPreservesBytes(t *testing.T) {
	var in bytes.Buffer
	NewCodec(&streamRW{nil, &in}).WriteFrame(chat.NewEncoded("ana", "relayed verbatim").WireView())

	// server side: read the payload opaquely, relay it to a peer
	payload, err := NewCodec(&streamRW{&in, io.Discard}).ReadRaw()
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}

	var out bytes.Buffer
	if err := NewCodec(&streamRW{nil, &out}).WriteRaw(payload); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	var env chat.Envelope
	if err := NewCodec(&streamRW{&out, io.Discard}).ReadFrame(&env); err != nil {
		t.Fatalf("peer ReadFrame: %v", err)
	}
	if env.Sender != "ana" || env.Kind() != chat.KindEncoded {
		t.Errorf("relayed envelope mangled: %+v", env)
	}
}

func TestOversizeFrames(t *testing.T) {
	var buf bytes.Buffer
	c := NewCodec(&streamRW{&buf, &buf})

	if err := c.WriteRaw(make([]byte, MaxFrameSize+1)); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("WriteRaw oversize error = %v, want ErrFrameTooLarge", err)
	}

	// a header announcing more than the cap is rejected before allocation
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], MaxFrameSize+1)
	buf.Write(header[:])
	if _, err := c.ReadRaw(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("ReadRaw oversize error = %v, want ErrFrameTooLarge", err)
	}
}

func TestTruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], 10)
	buf.Write(header[:])
	buf.Write([]byte("short"))

	if _, err := NewCodec(&streamRW{&buf, io.Discard}).ReadRaw(); err == nil {
		t.Error("a frame cut off mid-payload should fail to read")
	}
}
