package system

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/mwatch.go/pkg/app"
	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/ingress"
	"github.com/robotalks/mwatch.go/pkg/msgs"
)

// System dispatches completed frames to the collaborators.
type System struct {
	Apps          *app.Manager
	Notifications *NotificationManager
	Clock         *SoftClock
	// Events receives the msgs events, optional.
	Events fx.MessageHandler

	uploaded bool
}

// New creates a System.
func New(apps *app.Manager, notifications *NotificationManager, clock *SoftClock) *System {
	return &System{Apps: apps, Notifications: notifications, Clock: clock}
}

// HandleEvent implements ingress.EventHandler.
func (s *System) HandleEvent(ctx context.Context, ev ingress.Event) {
	switch e := ev.(type) {
	case *ingress.NotificationEvent:
		n, err := s.Notifications.Add(e.Buffer.Bytes(), e.Sections)
		if err != nil {
			glog.Errorf("failed to add notification: %v", err)
			return
		}
		s.emit(ctx, &msgs.Notification{
			Source: n.Source(),
			Title:  n.Title(),
			Body:   n.Body(),
			Count:  uint32(s.Notifications.Len()),
		})
	case *ingress.SyscallEvent:
		applied := &msgs.SyscallApplied{Command: e.Raw, Description: e.Syscall.String()}
		if err := e.Syscall.Execute(s.Clock); err != nil {
			glog.Errorf("syscall %s failed: %v", e.Syscall, err)
			applied.Error = err.Error()
		}
		s.emit(ctx, applied)
	case *ingress.ApplicationEvent:
		upload := &msgs.AppUpload{Size: uint32(e.Size)}
		if e.Err != nil {
			upload.Error = e.Err.Error()
		} else {
			s.uploaded = true
		}
		s.emit(ctx, upload)
	default:
		glog.Warningf("unhandled event %T", ev)
	}
}

// TakeUploaded reports whether an image was verified since the last call.
func (s *System) TakeUploaded() bool {
	uploaded := s.uploaded
	s.uploaded = false
	return uploaded
}

// EmitStatus publishes the application status.
func (s *System) EmitStatus(ctx context.Context, st app.Status) {
	s.emit(ctx, StatusMessage(st))
}

// StatusMessage converts an app.Status to its event message.
func StatusMessage(st app.Status) *msgs.AppStatus {
	return &msgs.AppStatus{
		State:             st.State.String(),
		Loaded:            st.IsLoaded,
		Running:           st.IsRunning,
		RamUsed:           uint32(st.RAMUsed),
		LastServiceResult: st.LastServiceResult,
	}
}

func (s *System) emit(ctx context.Context, msg fx.Message) {
	if s.Events != nil {
		s.Events.HandleMessage(ctx, msg)
	}
}
