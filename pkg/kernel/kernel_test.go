package kernel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mwatch.go/pkg/abi"
	"github.com/robotalks/mwatch.go/pkg/app"
	"github.com/robotalks/mwatch.go/pkg/apps/demo"
	"github.com/robotalks/mwatch.go/pkg/companion"
	"github.com/robotalks/mwatch.go/pkg/config"
	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/msgs"
)

type recorder struct {
	msgs []fx.Message
}

func (r *recorder) HandleMessage(ctx context.Context, msg fx.Message) {
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) take() []fx.Message {
	msgs := r.msgs
	r.msgs = nil
	return msgs
}

func newKernel(t *testing.T, cfg config.Config) (*Kernel, *demo.App, *recorder) {
	d := demo.New()
	k, err := New(cfg, d.Register(app.NewRegistry()))
	require.NoError(t, err)
	rec := &recorder{}
	k.Observe(rec)
	return k, d, rec
}

func TestUploadExecuteAndService(t *testing.T) {
	k, d, rec := newKernel(t, config.Default())
	ctx := context.Background()

	k.Loop().RunOnce(ctx)
	require.Equal(t, []fx.Message{
		&msgs.AppStatus{State: "unloaded", LastServiceResult: -1},
	}, rec.take())

	n, err := k.Write(companion.EncodeApplication(demo.Image()))
	require.NoError(t, err)
	require.True(t, n > 0)
	k.Loop().RunOnce(ctx)

	require.Equal(t, 1, d.Frames())
	x, y := d.Position()
	require.Equal(t, demo.Colours[0], k.Display.Pixel(x, y))
	st := k.Apps.Status()
	require.Equal(t, app.StateRunning, st.State)
	require.Equal(t, int32(1), st.LastServiceResult)
	require.Equal(t, []fx.Message{
		&msgs.AppUpload{Size: uint32(len(demo.Image()))},
		&msgs.AppStatus{
			State:             "running",
			Loaded:            true,
			Running:           true,
			RamUsed:           uint32(len(demo.Image())),
			LastServiceResult: 1,
		},
	}, rec.take())

	k.PushInput(abi.InputRight)
	k.Loop().RunOnce(ctx)
	require.Equal(t, 2, d.Frames())
	x, y = d.Position()
	require.Equal(t, demo.Colours[1], k.Display.Pixel(x, y))
	require.Empty(t, rec.take())
}

func TestManualExecute(t *testing.T) {
	cfg := config.Default()
	cfg.Kernel.AutoExecute = false
	k, d, _ := newKernel(t, cfg)
	ctx := context.Background()

	k.Write(companion.EncodeApplication(demo.Image()))
	k.Loop().RunOnce(ctx)
	require.Equal(t, 0, d.Frames())
	require.Equal(t, app.StateLoaded, k.Apps.Status().State)

	// input without a running application is dropped
	k.PushInput(abi.InputLeft)
	k.Loop().RunOnce(ctx)
	require.Equal(t, demo.Colours[0], d.Colour())

	require.NoError(t, k.Apps.Execute())
	k.Loop().RunOnce(ctx)
	require.Equal(t, 1, d.Frames())

	k.Apps.Pause()
	k.Loop().RunOnce(ctx)
	require.Equal(t, 1, d.Frames())
	require.Equal(t, app.StatePaused, k.Apps.Status().State)
}

func TestUploadReplacesRunningApplication(t *testing.T) {
	k, d, rec := newKernel(t, config.Default())
	ctx := context.Background()

	k.Write(companion.EncodeApplication(demo.Image()))
	k.Loop().RunOnce(ctx)
	require.True(t, k.Apps.Status().IsRunning)
	rec.take()

	frame := companion.EncodeApplication(demo.Image())
	// STX, type, separator, then the digest
	copy(frame[3:], "00000000")
	k.Write(frame)
	k.Loop().RunOnce(ctx)

	st := k.Apps.Status()
	require.False(t, st.IsLoaded)
	require.False(t, st.IsRunning)
	require.Equal(t, 1, d.Frames())
	events := rec.take()
	require.Len(t, events, 2)
	upload, ok := events[0].(*msgs.AppUpload)
	require.True(t, ok)
	require.NotEmpty(t, upload.Error)
	require.Equal(t, "unloaded", events[1].(*msgs.AppStatus).State)
}

func TestNotificationAndSyscall(t *testing.T) {
	k, _, rec := newKernel(t, config.Default())
	ctx := context.Background()
	k.Loop().RunOnce(ctx)
	rec.take()

	frame, err := companion.EncodeNotification("chat", "hi", "there")
	require.NoError(t, err)
	k.Write(frame)
	k.Write(companion.EncodeTime(time.Date(2019, time.February, 12, 13, 14, 15, 0, time.UTC)))
	k.Loop().RunOnce(ctx)

	events := rec.take()
	require.Len(t, events, 2)
	require.Equal(t, &msgs.Notification{Source: "chat", Title: "hi", Body: "there", Count: 1}, events[0])
	applied, ok := events[1].(*msgs.SyscallApplied)
	require.True(t, ok)
	require.Empty(t, applied.Error)

	n, ok := k.System.Notifications.Get(0)
	require.True(t, ok)
	require.Equal(t, "there", n.Body())
	now := k.System.Clock.Time()
	require.Equal(t, 13, now.Hour())
	require.Equal(t, 14, now.Minute())
}

func TestRun(t *testing.T) {
	cfg := config.Default()
	cfg.Kernel.Tick = config.Duration{Duration: time.Millisecond}
	k, d, _ := newKernel(t, cfg)
	running := make(chan struct{}, 1)
	k.Observe(fx.HandleMessageFunc(func(ctx context.Context, msg fx.Message) {
		if st, ok := msg.(*msgs.AppStatus); ok && st.Running {
			select {
			case running <- struct{}{}:
			default:
			}
		}
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- k.Run(ctx) }()

	k.Write(companion.EncodeApplication(demo.Image()))
	select {
	case <-running:
	case <-time.After(5 * time.Second):
		t.Fatal("application not running")
	}
	cancel()
	<-done
	require.True(t, d.Frames() > 0)
}

// largeImage is the demo application padded to several times the queue.
func largeImage(size int) []byte {
	return append(demo.Image(), make([]byte, size)...)
}

type uploadWatcher struct {
	uploads chan *msgs.AppUpload
	running chan *msgs.AppStatus
}

func watchUploads(k *Kernel) *uploadWatcher {
	w := &uploadWatcher{
		uploads: make(chan *msgs.AppUpload, 4),
		running: make(chan *msgs.AppStatus, 1),
	}
	k.Observe(fx.HandleMessageFunc(func(ctx context.Context, msg fx.Message) {
		switch m := msg.(type) {
		case *msgs.AppUpload:
			w.uploads <- m
		case *msgs.AppStatus:
			if m.Running {
				select {
				case w.running <- m:
				default:
				}
			}
		}
	}))
	return w
}

func TestUploadLargerThanQueue(t *testing.T) {
	cfg := config.Default()
	k, d, _ := newKernel(t, cfg)
	w := watchUploads(k)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- k.Run(ctx) }()

	image := largeImage(8192)
	frame := companion.EncodeApplication(image)
	require.True(t, len(frame) > 8*k.Ingress.Cap())
	n, err := k.Write(frame)
	require.NoError(t, err)
	require.Equal(t, len(frame), n)

	select {
	case upload := <-w.uploads:
		require.Empty(t, upload.Error)
		require.Equal(t, uint32(len(image)), upload.Size)
	case <-time.After(5 * time.Second):
		t.Fatal("upload not reported")
	}
	select {
	case st := <-w.running:
		require.Equal(t, "running", st.State)
		require.Equal(t, uint32(len(image)), st.RamUsed)
	case <-time.After(5 * time.Second):
		t.Fatal("application not running")
	}
	cancel()
	<-done
	require.True(t, d.Frames() > 0)
}

func TestWriteStalled(t *testing.T) {
	k, _, _ := newKernel(t, config.Default())
	k.FeedTimeout = 10 * time.Millisecond
	n, err := k.Write(companion.EncodeApplication(largeImage(1024)))
	require.True(t, errors.Is(err, ErrStalled), "got %v", err)
	require.Equal(t, k.Ingress.Cap(), n)
	require.Equal(t, 0, k.Ingress.Free())

	// the queued part is still parsed once the loop runs
	k.Loop().RunOnce(context.Background())
	require.Equal(t, k.Ingress.Cap(), k.Ingress.Free())
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Kernel.RAMSize = 0
	_, err := New(cfg, app.NewRegistry())
	require.Error(t, err)
}
