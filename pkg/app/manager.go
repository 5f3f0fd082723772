package app

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/mwatch.go/pkg/abi"
)

// State is the lifecycle state of the loaded application.
type State int

// Application states.
const (
	StateUnloaded State = iota
	StateLoaded
	StateRunning
	StatePaused
)

var stateNames = []string{"unloaded", "loaded", "running", "paused"}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Status is a snapshot of the application manager.
type Status struct {
	IsLoaded          bool
	IsRunning         bool
	RAMUsed           int
	LastServiceResult int32
	State             State
}

func defaultStatus() Status {
	return Status{LastServiceResult: -1}
}

// Manager owns the RAM region and the lifecycle of the loaded application.
// It is not safe for concurrent use, the kernel task is its only caller.
type Manager struct {
	ram     *RAM
	table   *abi.Table
	runtime Runtime

	checksum    [ChecksumSize]byte
	checksumIdx int

	image  *VerifiedImage
	entry  *EntryPoints
	status Status
}

// NewManager creates a Manager staging images into ram.
// table is handed to every application at setup.
func NewManager(ram *RAM, table *abi.Table, runtime Runtime) *Manager {
	return &Manager{
		ram:     ram,
		table:   table,
		runtime: runtime,
		status:  defaultStatus(),
	}
}

// WriteChecksumByte appends one byte of the expected digest.
func (m *Manager) WriteChecksumByte(b byte) error {
	if m.status.IsLoaded {
		return ErrExecuting
	}
	if m.checksumIdx >= len(m.checksum) {
		return fmt.Errorf("checksum: %w", ErrNoMemory)
	}
	m.checksum[m.checksumIdx] = b
	m.checksumIdx++
	return nil
}

// WriteRAMByte appends one byte of the image.
func (m *Manager) WriteRAMByte(b byte) error {
	if m.status.IsLoaded {
		return ErrExecuting
	}
	if err := m.ram.Write(b); err != nil {
		return fmt.Errorf("ram %d bytes: %w", m.ram.Cap(), err)
	}
	return nil
}

// Verify compares the CRC32 of the staged image against the expected digest.
func (m *Manager) Verify() error {
	if m.checksumIdx < len(m.checksum) {
		return fmt.Errorf("%w: incomplete digest, %d of %d bytes", ErrChecksumFailed, m.checksumIdx, len(m.checksum))
	}
	expected, actual := DigestFromBytes(m.checksum), m.ram.Checksum()
	glog.Infof("ram digest %08x, expected digest %08x", actual, expected)
	if expected != actual {
		glog.Errorf("application checksum failed")
		return &ChecksumError{Expected: expected, Actual: actual}
	}
	m.image = &VerifiedImage{data: m.ram.Bytes(), digest: actual}
	m.status.IsLoaded = true
	return nil
}

// Execute resolves the entry points of the verified image and runs its setup.
// Calling Execute while running is left to the caller to avoid.
func (m *Manager) Execute() error {
	if !m.status.IsLoaded || m.image == nil {
		return ErrNoApplication
	}
	ep, err := BuildEntryPoints(m.runtime, m.image)
	if err != nil {
		return err
	}
	m.entry = ep
	if res := ep.Setup(m.table); res != abi.ResultOK {
		glog.Warningf("application setup returned %d", res)
	}
	m.status.IsRunning = true
	return nil
}

// Service gives processing time to the application, lending it fb.
func (m *Manager) Service(fb *abi.FrameBuffer) error {
	if m.entry == nil || !m.status.IsRunning {
		return ErrInvalidServiceFn
	}
	ctx := abi.NewServiceContext(fb)
	defer ctx.Release()
	m.status.LastServiceResult = m.entry.Service(ctx)
	return nil
}

// ServiceInput delivers an input event to the application.
func (m *Manager) ServiceInput(ev abi.InputEvent) error {
	if m.entry == nil || !m.status.IsRunning {
		return ErrInvalidInputFn
	}
	ctx := abi.NewInputContext()
	defer ctx.Release()
	if res := m.entry.Input(ctx, ev); res != abi.ResultOK {
		glog.V(2).Infof("application input %s returned %d", ev, res)
	}
	return nil
}

// Pause stops servicing the application, entry points are retained.
func (m *Manager) Pause() {
	m.status.IsRunning = false
}

// Resume continues a paused application.
func (m *Manager) Resume() error {
	if m.entry == nil {
		return ErrNoApplication
	}
	m.status.IsRunning = true
	return nil
}

// Kill unloads the application and wipes the RAM region.
func (m *Manager) Kill() {
	m.ram.Reset()
	m.checksum = [ChecksumSize]byte{}
	m.checksumIdx = 0
	m.image = nil
	m.entry = nil
	m.status = defaultStatus()
}

// Status returns a snapshot of the manager.
func (m *Manager) Status() Status {
	s := m.status
	s.RAMUsed = m.ram.Len()
	switch {
	case s.IsRunning:
		s.State = StateRunning
	case m.entry != nil:
		s.State = StatePaused
	case s.IsLoaded:
		s.State = StateLoaded
	default:
		s.State = StateUnloaded
	}
	return s
}

// Program returns a copy of the staged image bytes.
func (m *Manager) Program() []byte {
	return append([]byte(nil), m.ram.Bytes()...)
}
