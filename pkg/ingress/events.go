package ingress

import (
	"context"

	"github.com/robotalks/mwatch.go/pkg/system/syscall"
)

// Event is emitted when a frame completes.
type Event interface {
	Kind() PayloadKind
}

// NotificationEvent carries a notification frame.
// Sections are the end offsets of source, title and body in Buffer.
// Buffer is reused by the next frame, copy it to retain it.
type NotificationEvent struct {
	Buffer   *Buffer
	Sections [3]int
}

// Kind implements Event.
func (e *NotificationEvent) Kind() PayloadKind { return KindNotification }

// Source returns the source section.
func (e *NotificationEvent) Source() []byte { return e.Buffer.Bytes()[:e.Sections[0]] }

// Title returns the title section.
func (e *NotificationEvent) Title() []byte { return e.Buffer.Bytes()[e.Sections[0]:e.Sections[1]] }

// Body returns the body section.
func (e *NotificationEvent) Body() []byte { return e.Buffer.Bytes()[e.Sections[1]:e.Sections[2]] }

// SyscallEvent carries a parsed system call.
type SyscallEvent struct {
	Syscall syscall.Syscall
	Raw     string
}

// Kind implements Event.
func (e *SyscallEvent) Kind() PayloadKind { return KindSyscall }

// ApplicationEvent reports the outcome of an application upload.
type ApplicationEvent struct {
	// Size is the number of image bytes decoded.
	Size int
	// Err is nil when the image is verified.
	Err error
}

// Kind implements Event.
func (e *ApplicationEvent) Kind() PayloadKind { return KindApplication }

// EventHandler receives completed frames.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev Event)
}

// HandleEventFunc is func form of EventHandler.
type HandleEventFunc func(ctx context.Context, ev Event)

// HandleEvent implements EventHandler.
func (f HandleEventFunc) HandleEvent(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// Loader receives the application image as it is decoded.
type Loader interface {
	Kill()
	WriteChecksumByte(b byte) error
	WriteRAMByte(b byte) error
	Verify() error
}
