package keys

import (
	"errors"
	"io"
)

// ErrNoInput indicates no key is pressed or nothing changed.
var ErrNoInput = errors.New("no input")

// ErrUnsupported is returned by Open where joystick devices are not supported.
var ErrUnsupported = errors.New("joystick devices unsupported")

// ButtonEvent is a button change on the device.
type ButtonEvent struct {
	// Init marks the synthetic events reporting the initial state.
	Init    bool
	Button  int
	Pressed bool
}

// Device is an opened joystick.
type Device interface {
	io.Closer
	// Name returns the name of the device.
	Name() string
	// ReadButton blocks until the next button event, axis events are skipped.
	ReadButton() (ButtonEvent, error)
}
