package keys

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/link"
)

// DefaultRetryInterval is how often a missing device is looked for.
const DefaultRetryInterval = time.Second

// Reader turns the buttons of a joystick into input events for Sink.
type Reader struct {
	Sink link.InputSink
	// Buttons are the button numbers of the left, middle and right keys.
	Buttons [KeyCount]int
	// Open opens the device, Detect when nil.
	Open          func() (Device, error)
	RetryInterval time.Duration

	mux Mux
}

// New creates a Reader on joystick index, any joystick when index < 0.
func New(index int, sink link.InputSink) *Reader {
	r := &Reader{Sink: sink, Buttons: [KeyCount]int{0, 1, 2}, RetryInterval: DefaultRetryInterval}
	if index >= 0 {
		r.Open = func() (Device, error) { return Open(index) }
	}
	return r
}

// Run implements Runnable, the device is reopened when lost.
func (r *Reader) Run(ctx context.Context) error {
	open := r.Open
	if open == nil {
		open = Detect
	}
	retry := r.RetryInterval
	if retry <= 0 {
		retry = DefaultRetryInterval
	}
	for {
		dev, err := open()
		if err == nil {
			glog.Infof("keys: %q opened", dev.Name())
			err = fx.RunWithContextCloser(ctx, dev, func() error { return r.read(dev) })
			if ctx.Err() != nil {
				return ctx.Err()
			}
			glog.Warningf("keys: %q lost: %v", dev.Name(), err)
			r.mux = Mux{}
		} else if errors.Is(err, ErrUnsupported) {
			return err
		} else {
			glog.V(2).Infof("keys: no device: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}

func (r *Reader) read(dev Device) error {
	for {
		ev, err := dev.ReadButton()
		if err != nil {
			return err
		}
		r.Handle(ev)
	}
}

// Handle applies a button event, pushing the resulting input event.
func (r *Reader) Handle(ev ButtonEvent) {
	for key, button := range r.Buttons {
		if button == ev.Button {
			r.mux.Update(key, ev.Pressed)
		}
	}
	if ev.Init {
		// the initial state is not an input
		r.mux.last = r.mux.vector
		return
	}
	out, err := r.mux.Output()
	switch {
	case err == nil:
		r.Sink.PushInput(out)
	case err != ErrNoInput:
		glog.V(2).Infof("keys: %v", err)
	}
}
