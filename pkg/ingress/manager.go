package ingress

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/mwatch.go/pkg/system/syscall"
)

// Control bytes.
const (
	STX     byte = 0x02
	ETX     byte = 0x03
	PAYLOAD byte = 0x1f
)

var (
	// ErrInvalidHex indicates an application frame carries a non hex pair.
	ErrInvalidHex = errors.New("invalid hex")
	// ErrNoImage indicates an application frame ended before its checksum field.
	ErrNoImage = errors.New("application frame without image")
)

// State is the state of the framing state machine.
type State int

// States.
const (
	StateWait State = iota // between frames, bytes discarded
	StateInit              // after STX, waiting for the type byte
	StatePayload
	StateApplicationChecksum
	StateApplicationStore
	StateNotificationSource
	StateNotificationTitle
	StateNotificationBody
)

var stateNames = []string{
	"wait",
	"init",
	"payload",
	"application-checksum",
	"application-store",
	"notification-source",
	"notification-title",
	"notification-body",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Manager drains the byte queue and runs the framing state machine.
// Write may be called from any goroutine, everything else belongs to
// the single consumer.
//
// A separator precedes every notification field:
// STX 'N' PAYLOAD source PAYLOAD title PAYLOAD body ETX.
type Manager struct {
	Loader  Loader
	Handler EventHandler

	writeLock sync.Mutex
	queue     *Queue

	state  State
	buffer *Buffer

	hexChars [2]byte
	hexIdx   int

	sections [3]int
	closed   int
	cursor   int

	staged    bool
	imageSize int
	loadErr   error
}

// NewManager creates a Manager with a queue of queueSize bytes and
// a frame buffer of bufferSize bytes.
func NewManager(queueSize, bufferSize int) *Manager {
	return &Manager{
		queue:  NewQueue(queueSize),
		buffer: NewBuffer(bufferSize),
		state:  StateInit,
	}
}

// Write enqueues data. Overflowing the queue means the consumer can't keep
// up with the links and panics.
func (m *Manager) Write(data []byte) {
	m.writeLock.Lock()
	defer m.writeLock.Unlock()
	for n, b := range data {
		if !m.queue.Push(b) {
			panic(fmt.Sprintf("ingress queue overflow by %d bytes", len(data)-n))
		}
	}
}

// State returns the current state.
func (m *Manager) State() State { return m.state }

// Buffer returns the frame buffer.
func (m *Manager) Buffer() *Buffer { return m.buffer }

// Pending returns the number of queued bytes.
func (m *Manager) Pending() int { return m.queue.Len() }

// Free returns the number of bytes Write can take without overflowing.
func (m *Manager) Free() int { return m.queue.Cap() - m.queue.Len() }

// Cap returns the queue capacity.
func (m *Manager) Cap() int { return m.queue.Cap() }

// Process drains the queue and returns the number of bytes consumed.
func (m *Manager) Process(ctx context.Context) int {
	n := 0
	for {
		b, ok := m.queue.Pop()
		if !ok {
			return n
		}
		n++
		m.processByte(ctx, b)
	}
}

func (m *Manager) processByte(ctx context.Context, b byte) {
	switch b {
	case STX:
		m.startFrame()
	case ETX:
		m.endFrame(ctx)
	case PAYLOAD:
		m.separator()
	default:
		m.content(b)
	}
}

func (m *Manager) startFrame() {
	if m.state != StateWait {
		glog.Warningf("partial frame abandoned: %#v", m.buffer)
	}
	m.hexIdx = 0
	m.sections = [3]int{}
	m.closed, m.cursor = 0, 0
	m.staged, m.imageSize, m.loadErr = false, 0, nil
	m.buffer.Reset()
	m.state = StateInit
}

func (m *Manager) endFrame(ctx context.Context) {
	if m.state == StateWait {
		glog.V(2).Info("stray ETX discarded")
		return
	}
	m.state = StateWait
	var ev Event
	switch m.buffer.Kind() {
	case KindUnknown:
		return
	case KindApplication:
		ev = m.finishApplication()
	case KindNotification:
		for i := m.closed; i < 2; i++ {
			m.sections[i] = m.cursor
		}
		m.sections[2] = m.cursor
		glog.Infof("notification %#v sections %v", m.buffer, m.sections)
		ev = &NotificationEvent{Buffer: m.buffer, Sections: m.sections}
	case KindSyscall:
		glog.Infof("parsing syscall from %#v", m.buffer)
		sc, err := syscall.Parse(m.buffer.String())
		if err != nil {
			glog.Errorf("failed to parse syscall: %v", err)
			return
		}
		ev = &SyscallEvent{Syscall: sc, Raw: m.buffer.String()}
	}
	if m.Handler != nil {
		m.Handler.HandleEvent(ctx, ev)
	}
}

func (m *Manager) finishApplication() *ApplicationEvent {
	ev := &ApplicationEvent{Size: m.imageSize, Err: m.loadErr}
	if !m.staged {
		ev.Err = ErrNoImage
	}
	if ev.Err == nil && m.Loader != nil {
		ev.Err = m.Loader.Verify()
	}
	if ev.Err != nil {
		glog.Errorf("failed to load application: %v", ev.Err)
	} else {
		glog.Infof("application of %d bytes verified", ev.Size)
	}
	return ev
}

func (m *Manager) separator() {
	if m.state == StateWait {
		return
	}
	switch m.buffer.Kind() {
	case KindUnknown:
		glog.Warning("dropping frame of unknown kind")
		m.state = StateWait
	case KindApplication:
		if m.state == StateApplicationChecksum {
			m.state = StateApplicationStore
			return
		}
		m.state = StateApplicationChecksum
		m.hexIdx = 0
		m.staged = true
		if m.Loader != nil {
			m.Loader.Kill()
		}
	case KindNotification:
		switch m.state {
		case StateNotificationSource:
			m.sections[0], m.closed = m.cursor, 1
			m.state = StateNotificationTitle
		case StateNotificationTitle:
			m.sections[1], m.closed = m.cursor, 2
			m.state = StateNotificationBody
		default:
			m.closed = 0
			m.state = StateNotificationSource
		}
	default:
		m.state = StatePayload
	}
}

func (m *Manager) content(b byte) {
	switch m.state {
	case StateInit:
		kind := m.buffer.Classify(b)
		glog.V(2).Infof("new frame of kind %s", kind)
		if kind == KindUnknown {
			glog.Errorf("unknown frame type %q, waiting for next frame", b)
			m.state = StateWait
		}
	case StatePayload:
		m.writeBuffer(b)
	case StateApplicationChecksum, StateApplicationStore:
		m.hexChars[m.hexIdx] = b
		m.hexIdx++
		if m.hexIdx < len(m.hexChars) {
			return
		}
		m.hexIdx = 0
		var decoded [1]byte
		if _, err := hex.Decode(decoded[:], m.hexChars[:]); err != nil {
			// the rest of the frame is skipped, ETX reports the failure
			if m.loadErr == nil {
				glog.Errorf("failed to decode hex %q: %v", m.hexChars[:], err)
				m.loadErr = fmt.Errorf("%w %q", ErrInvalidHex, m.hexChars[:])
			}
			return
		}
		m.load(decoded[0])
	case StateNotificationSource, StateNotificationTitle, StateNotificationBody:
		if m.writeBuffer(b) {
			m.cursor++
		}
	}
}

func (m *Manager) writeBuffer(b byte) bool {
	if err := m.buffer.Write(b); err != nil {
		glog.Errorf("frame of %s exceeds %d bytes: %v", m.buffer.Kind(), m.buffer.Cap(), err)
		m.state = StateWait
		return false
	}
	return true
}

func (m *Manager) load(b byte) {
	if m.Loader == nil || m.loadErr != nil {
		return
	}
	var err error
	if m.state == StateApplicationChecksum {
		err = m.Loader.WriteChecksumByte(b)
	} else {
		if err = m.Loader.WriteRAMByte(b); err == nil {
			m.imageSize++
		}
	}
	if err != nil {
		glog.Errorf("failed to load application byte: %v", err)
		m.loadErr = err
	}
}
