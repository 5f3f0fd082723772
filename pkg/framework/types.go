package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable is a background activity, e.g. a link feeding the kernel.
type Runnable interface {
	Run(context.Context) error
}

// Message is posted to the loop and consumed by a task.
type Message interface {
	// NewMessage creates an empty message.
	NewMessage() Message
}

// MessageHandler observes messages outside of the loop.
type MessageHandler interface {
	HandleMessage(context.Context, Message)
}

// HandleMessageFunc is the func form of MessageHandler.
type HandleMessageFunc func(context.Context, Message)

// HandleMessage implements MessageHandler.
func (f HandleMessageFunc) HandleMessage(ctx context.Context, msg Message) {
	f(ctx, msg)
}

// Controller is a periodic task run once per loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// ControlContext is what a task sees of the current iteration.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	// Tick is the sequence number of the iteration, starting from 1.
	Tick() uint64
	// PriorityLevel gets the current priority level.
	PriorityLevel() int
	// Messages are the messages posted before the iteration started.
	Messages() MessageStore

	LoopControl
}

// PriorityLevels is the total levels of priorities.
const PriorityLevels int = 16

// Predefine priority levels, lower runs first.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvIngress is the priority level draining the link bytes.
	PrLvIngress = PrLvHigh
	// PrLvApp is the priority level servicing the loaded application.
	PrLvApp = PrLvNormal
	// PrLvReport is the priority level publishing state changes.
	PrLvReport = PrLvLow
)

// LoopControl may be used from any goroutine.
type LoopControl interface {
	// PostMessage queues msg for the next iteration.
	PostMessage(Message)
	// TriggerNext runs the next iteration without waiting for the tick.
	TriggerNext()
}

// MessageStore holds the messages of one iteration. Messages no task
// takes are dropped when the iteration ends.
type MessageStore interface {
	// ProcessMessages offers every message to proc, in posting order.
	ProcessMessages(MessageProcessor)
	// Len returns the number of messages not taken yet.
	Len() int
}

// MessageProcessor is offered messages by MessageStore.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext provides context for current message.
type MessageProcessingContext interface {
	// CurrentMessage gets the current message being processed.
	CurrentMessage() Message
	// MessageTaken removes the message from the store.
	MessageTaken()
	// StopProcessing skips the remaining messages.
	StopProcessing()
}
