// Package link defines how companion transports feed the kernel.
//
// Every link runs on its own goroutine and plays the role of a receive
// interrupt: it hands raw bytes to a Device without ever touching parser
// state.
package link

import (
	"io"

	"github.com/robotalks/mwatch.go/pkg/abi"
)

// InputSink accepts input events.
type InputSink interface {
	PushInput(abi.InputEvent)
}

// Device is what a link feeds: raw frame bytes and input events.
type Device interface {
	io.Writer
	InputSink
}

// Meta describes a watch announced on a link.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Info identifies a discovered watch.
type Info struct {
	ID   string
	Meta Meta
}
