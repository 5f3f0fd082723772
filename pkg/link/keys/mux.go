// Package keys reads the three touch keys, here the buttons of a Linux
// joystick device, and combines them into input events.
package keys

import (
	"fmt"

	"github.com/robotalks/mwatch.go/pkg/abi"
)

// Key bits of the input vector.
const (
	KeyLeft   uint8 = 1 << iota
	KeyMiddle
	KeyRight

	KeyCount = 3
)

// EventOf maps a key vector to its input event.
func EventOf(vector uint8) (abi.InputEvent, error) {
	switch vector {
	case KeyLeft | KeyMiddle | KeyRight:
		return abi.InputMulti, nil
	case KeyLeft | KeyRight:
		return abi.InputDual, nil
	case KeyLeft | KeyMiddle:
		return abi.InputLeftMiddle, nil
	case KeyRight | KeyMiddle:
		return abi.InputRightMiddle, nil
	case KeyLeft:
		return abi.InputLeft, nil
	case KeyMiddle:
		return abi.InputMiddle, nil
	case KeyRight:
		return abi.InputRight, nil
	case 0:
		return 0, ErrNoInput
	}
	return 0, fmt.Errorf("invalid key vector %#x", vector)
}

// Mux tracks the key vector and reports an event whenever it changes to a
// pressed combination.
type Mux struct {
	vector uint8
	last   uint8
}

// Update records the state of key (0 for left, 1 middle, 2 right).
func (m *Mux) Update(key int, pressed bool) {
	if key < 0 || key >= KeyCount {
		return
	}
	if pressed {
		m.vector |= 1 << uint(key)
	} else {
		m.vector &^= 1 << uint(key)
	}
}

// Output returns the event of the current vector if it changed since the
// last call, ErrNoInput otherwise or when all keys are released.
func (m *Mux) Output() (abi.InputEvent, error) {
	if m.vector == m.last {
		return 0, ErrNoInput
	}
	m.last = m.vector
	return EventOf(m.vector)
}

// Vector returns the current key vector.
func (m *Mux) Vector() uint8 { return m.vector }
