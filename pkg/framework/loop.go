package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the tick of a Loop without Interval.
const DefaultInterval = 100 * time.Millisecond

// Loop is the periodic task scheduler of the kernel. Each iteration runs the
// controllers from the highest priority level to the lowest, all on the
// goroutine calling Run.
type Loop struct {
	Interval time.Duration
	// Now is the clock of iterations, time.Now if nil.
	Now func() time.Time

	controllers [PriorityLevels][]Controller
	runners     []Runnable
	tick        uint64

	lock     sync.Mutex
	messages []Message

	wakeUpCh chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUpCh: make(chan struct{}, 1)}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a priority level, a controller
// which is also Runnable is run along with the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnables started and stopped with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-l.wakeUpCh:
		}
		start := time.Now()
		l.RunOnce(ctx)
		if elapsed := time.Since(start); elapsed > interval {
			glog.Warningf("iteration %d overran the tick: %v > %v", l.tick, elapsed, interval)
		}
	}
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages = append(l.messages, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Ticks returns the number of iterations run.
func (l *Loop) Ticks() uint64 {
	return l.tick
}

// RunOnce runs a single iteration on the calling goroutine.
func (l *Loop) RunOnce(ctx context.Context) {
	l.tick++
	iter := &iteration{Loop: l, ctx: ctx, tick: l.tick}
	if l.Now != nil {
		iter.time = l.Now()
	} else {
		iter.time = time.Now()
	}
	l.lock.Lock()
	iter.messages, l.messages = l.messages, nil
	l.lock.Unlock()
	for level, ctls := range l.controllers {
		iter.priorityLevel = level
		for _, ctl := range ctls {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("task at level %d: %v", level, err)
			}
		}
	}
	if n := len(iter.messages); n > 0 {
		glog.V(3).Infof("iteration %d dropped %d messages", iter.tick, n)
	}
}

type iteration struct {
	*Loop
	ctx           context.Context
	time          time.Time
	tick          uint64
	priorityLevel int
	messages      []Message
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.time }
func (t *iteration) Tick() uint64             { return t.tick }
func (t *iteration) PriorityLevel() int       { return t.priorityLevel }
func (t *iteration) Messages() MessageStore   { return t }
func (t *iteration) Len() int                 { return len(t.messages) }

type messageContext struct {
	msg   Message
	taken bool
	stop  bool
}

func (c *messageContext) CurrentMessage() Message { return c.msg }
func (c *messageContext) MessageTaken()           { c.taken = true }
func (c *messageContext) StopProcessing()         { c.stop = true }

func (t *iteration) ProcessMessages(proc MessageProcessor) {
	remains := t.messages[:0]
	for n, msg := range t.messages {
		mc := &messageContext{msg: msg}
		proc.ProcessMessage(mc)
		if !mc.taken {
			remains = append(remains, msg)
		}
		if mc.stop {
			remains = append(remains, t.messages[n+1:]...)
			break
		}
	}
	t.messages = remains
}
