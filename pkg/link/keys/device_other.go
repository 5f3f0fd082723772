//go:build !linux
// +build !linux

package keys

import "fmt"

// DevicePath returns the path of joystick index.
func DevicePath(index int) string {
	return fmt.Sprintf("js%d", index)
}

// Open opens the joystick with index.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}

// Detect opens the first available joystick.
func Detect() (Device, error) {
	return nil, ErrUnsupported
}
