package ingress

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMemory indicates the buffer is full.
var ErrNoMemory = errors.New("no memory")

// PayloadKind is the kind of payload a frame carries.
type PayloadKind int

// Payload kinds.
const (
	KindUnknown PayloadKind = iota
	KindNotification
	KindSyscall
	KindApplication
)

// Type bytes following STX.
const (
	TypeNotification byte = 'N'
	TypeSyscall      byte = 'S'
	TypeApplication  byte = 'A'
)

var payloadKindNames = []string{"unknown", "notification", "syscall", "application"}

// String implements fmt.Stringer.
func (k PayloadKind) String() string {
	if k >= 0 && int(k) < len(payloadKindNames) {
		return payloadKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Buffer accumulates the payload of one frame.
type Buffer struct {
	kind    PayloadKind
	payload []byte
	length  int
}

// NewBuffer creates a Buffer holding up to size bytes.
func NewBuffer(size int) *Buffer {
	return &Buffer{payload: make([]byte, size)}
}

// Kind returns the classified kind.
func (b *Buffer) Kind() PayloadKind { return b.kind }

// Clear rewinds the buffer, the kind is kept.
func (b *Buffer) Clear() { b.length = 0 }

// Reset rewinds the buffer and forgets the kind.
func (b *Buffer) Reset() {
	b.length = 0
	b.kind = KindUnknown
}

// Write appends c.
func (b *Buffer) Write(c byte) error {
	if b.length >= len(b.payload) {
		return ErrNoMemory
	}
	b.payload[b.length] = c
	b.length++
	return nil
}

// Classify sets the kind from a type byte.
func (b *Buffer) Classify(typeByte byte) PayloadKind {
	switch typeByte {
	case TypeNotification:
		b.kind = KindNotification
	case TypeSyscall:
		b.kind = KindSyscall
	case TypeApplication:
		b.kind = KindApplication
	default:
		b.kind = KindUnknown
	}
	return b.kind
}

// Bytes returns the written bytes, valid until the next frame starts.
func (b *Buffer) Bytes() []byte { return b.payload[:b.length] }

// String returns the written bytes as a string.
func (b *Buffer) String() string { return string(b.payload[:b.length]) }

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return b.length }

// Cap returns the capacity.
func (b *Buffer) Cap() int { return len(b.payload) }

// Copy returns a detached copy of b.
func (b *Buffer) Copy() *Buffer {
	c := &Buffer{kind: b.kind, payload: make([]byte, b.length), length: b.length}
	copy(c.payload, b.payload[:b.length])
	return c
}

// GoString is used in log messages.
func (b *Buffer) GoString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Buffer<%s>[%d] %q", b.kind, b.length, b.payload[:b.length])
	return sb.String()
}
