// Package kernel assembles the watch kernel on a framework.Loop.
//
// Links only ever call Write and PushInput. Parsing, loading and servicing
// the application all happen in loop iterations, on one goroutine.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mwatch.go/pkg/abi"
	"github.com/robotalks/mwatch.go/pkg/app"
	"github.com/robotalks/mwatch.go/pkg/config"
	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/ingress"
	"github.com/robotalks/mwatch.go/pkg/system"
)

// DefaultFeedTimeout is the default of Kernel.FeedTimeout.
const DefaultFeedTimeout = 5 * time.Second

// ErrStalled indicates the ingress task stopped draining the queue.
var ErrStalled = errors.New("ingress stalled")

// InputMessage carries an input event from a link to the application task.
type InputMessage struct {
	Event abi.InputEvent
}

// NewMessage implements fx.Message.
func (m *InputMessage) NewMessage() fx.Message { return &InputMessage{} }

// Kernel owns every kernel resource.
type Kernel struct {
	Config  config.Config
	Ingress *ingress.Manager
	Apps    *app.Manager
	System  *system.System
	Display *abi.FrameBuffer

	// FeedTimeout bounds how long Write waits for the ingress task to make
	// room in the queue.
	FeedTimeout time.Duration

	loop *fx.Loop

	feedLock sync.Mutex
	drained  chan struct{}

	observersLock sync.RWMutex
	observers     []fx.MessageHandler

	reported   bool
	lastStatus app.Status
}

// New creates a Kernel from cfg, images are linked through rt.
func New(cfg config.Config, rt app.Runtime) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k := &Kernel{
		Config:      cfg,
		FeedTimeout: DefaultFeedTimeout,
		loop:        fx.NewLoop(),
		drained:     make(chan struct{}, 1),
	}
	k.loop.Interval = cfg.Kernel.Tick.Duration
	k.Apps = app.NewManager(app.NewRAM(make([]byte, cfg.Kernel.RAMSize)), abi.NewTable(), rt)
	k.System = system.New(k.Apps,
		system.NewNotificationManager(cfg.Notifications.PoolSize, cfg.Kernel.BufferSize),
		&system.SoftClock{})
	k.System.Events = k
	k.Ingress = ingress.NewManager(cfg.Kernel.QueueSize, cfg.Kernel.BufferSize)
	k.Ingress.Loader = k.Apps
	k.Ingress.Handler = k.System
	k.Display = abi.NewFrameBuffer(cfg.Display.Width, cfg.Display.Height)
	k.loop.Add(k)
	return k, nil
}

// Loop returns the loop running the kernel tasks.
func (k *Kernel) Loop() *fx.Loop {
	return k.loop
}

// Run implements Runnable.
func (k *Kernel) Run(ctx context.Context) error {
	return k.loop.Run(ctx)
}

// Write implements io.Writer, it's the receive interrupt of all links.
// p is queued in kernel.chunk_size pieces and each piece waits until the
// ingress task has drained enough of the queue, so one large link message
// is paced like the DMA half buffers. Writes from different links don't
// interleave within a call.
func (k *Kernel) Write(p []byte) (int, error) {
	k.feedLock.Lock()
	defer k.feedLock.Unlock()
	size := k.Config.Kernel.ChunkSize
	if c := k.Ingress.Cap(); size <= 0 || size > c {
		size = c
	}
	written := 0
	for len(p) > 0 {
		chunk := p
		if len(chunk) > size {
			chunk = chunk[:size]
		}
		if err := k.waitRoom(len(chunk)); err != nil {
			return written, err
		}
		k.Ingress.Write(chunk)
		k.loop.TriggerNext()
		written += len(chunk)
		p = p[len(chunk):]
	}
	return written, nil
}

func (k *Kernel) waitRoom(n int) error {
	if k.Ingress.Free() >= n {
		return nil
	}
	timeout := k.FeedTimeout
	if timeout <= 0 {
		timeout = DefaultFeedTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for k.Ingress.Free() < n {
		k.loop.TriggerNext()
		select {
		case <-k.drained:
		case <-timer.C:
			return fmt.Errorf("%w: %d of %d bytes pending after %v",
				ErrStalled, k.Ingress.Pending(), k.Ingress.Cap(), timeout)
		}
	}
	return nil
}

// PushInput implements link.InputSink.
func (k *Kernel) PushInput(ev abi.InputEvent) {
	k.loop.PostMessage(&InputMessage{Event: ev})
	k.loop.TriggerNext()
}

// Observe registers a handler receiving the kernel events.
func (k *Kernel) Observe(h fx.MessageHandler) {
	k.observersLock.Lock()
	k.observers = append(k.observers, h)
	k.observersLock.Unlock()
}

// HandleMessage implements fx.MessageHandler, fanning events out to observers.
func (k *Kernel) HandleMessage(ctx context.Context, msg fx.Message) {
	k.observersLock.RLock()
	observers := k.observers
	k.observersLock.RUnlock()
	for _, h := range observers {
		h.HandleMessage(ctx, msg)
	}
}

// AddToLoop implements fx.LoopAdder.
func (k *Kernel) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvIngress, fx.ControlFunc(k.ingressTask))
	l.AddController(fx.PrLvApp, fx.ControlFunc(k.appTask))
	l.AddController(fx.PrLvReport, fx.ControlFunc(k.reportTask))
}

func (k *Kernel) ingressTask(cc fx.ControlContext) error {
	if n := k.Ingress.Process(cc.Context()); n > 0 {
		glog.V(3).Infof("ingress processed %d bytes", n)
		select {
		case k.drained <- struct{}{}:
		default:
		}
	}
	return nil
}

func (k *Kernel) appTask(cc fx.ControlContext) error {
	if k.System.TakeUploaded() && k.Config.Kernel.AutoExecute {
		if st := k.Apps.Status(); st.IsLoaded && !st.IsRunning {
			if err := k.Apps.Execute(); err != nil {
				glog.Errorf("execute application: %v", err)
			}
		}
	}
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		msg, ok := mc.CurrentMessage().(*InputMessage)
		if !ok {
			return
		}
		mc.MessageTaken()
		if err := k.Apps.ServiceInput(msg.Event); err != nil {
			glog.V(2).Infof("input %s dropped: %v", msg.Event, err)
		}
	}))
	if k.Apps.Status().IsRunning {
		if err := k.Apps.Service(k.Display); err != nil {
			glog.Errorf("service application: %v", err)
		}
	}
	return nil
}

func (k *Kernel) reportTask(cc fx.ControlContext) error {
	st := k.Apps.Status()
	if k.reported && sameStatus(st, k.lastStatus) {
		return nil
	}
	k.reported, k.lastStatus = true, st
	k.System.EmitStatus(cc.Context(), st)
	return nil
}

func sameStatus(a, b app.Status) bool {
	return a.State == b.State &&
		a.IsLoaded == b.IsLoaded &&
		a.IsRunning == b.IsRunning &&
		a.RAMUsed == b.RAMUsed
}
