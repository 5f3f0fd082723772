package abi

import (
	"fmt"
	"strings"
)

// InputEvent is a combination of the three touch inputs.
type InputEvent int32

// Input events.
const (
	InputLeft InputEvent = iota
	InputMiddle
	InputRight
	InputDual
	InputMulti
	InputLeftMiddle
	InputRightMiddle
)

var inputEventNames = []string{
	"left",
	"middle",
	"right",
	"dual",
	"multi",
	"left-middle",
	"right-middle",
}

// String implements fmt.Stringer.
func (e InputEvent) String() string {
	if e >= 0 && int(e) < len(inputEventNames) {
		return inputEventNames[e]
	}
	return fmt.Sprintf("input(%d)", int32(e))
}

// IsValid indicates e is a known input event.
func (e InputEvent) IsValid() bool {
	return e >= 0 && int(e) < len(inputEventNames)
}

// ParseInputEvent converts a name produced by String back to an InputEvent.
func ParseInputEvent(name string) (InputEvent, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for n, s := range inputEventNames {
		if s == name {
			return InputEvent(n), nil
		}
	}
	return 0, fmt.Errorf("unknown input event %q", name)
}
