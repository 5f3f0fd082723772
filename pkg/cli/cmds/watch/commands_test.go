package watch

import (
	"context"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mwatch.go/pkg/app"
	"github.com/robotalks/mwatch.go/pkg/apps/demo"
	"github.com/robotalks/mwatch.go/pkg/config"
	"github.com/robotalks/mwatch.go/pkg/kernel"
)

func runFrame(t *testing.T, build FrameBuilder, args ...string) *kernel.Kernel {
	k, err := kernel.New(config.Default(), demo.New().Register(app.NewRegistry()))
	require.NoError(t, err)
	frame, err := build(args)
	require.NoError(t, err)
	k.Write(frame)
	k.Loop().RunOnce(context.Background())
	return k
}

func TestNotifyFrame(t *testing.T) {
	k := runFrame(t, NotifyFrame, "chat", "Alice", "see", "you")
	n, ok := k.System.Notifications.Get(0)
	require.True(t, ok)
	require.Equal(t, "chat", n.Source())
	require.Equal(t, "Alice", n.Title())
	require.Equal(t, "see you", n.Body())

	_, err := NotifyFrame([]string{"chat"})
	require.Error(t, err)
	_, err = NotifyFrame([]string{"chat", "a\x03b"})
	require.Error(t, err)
}

func TestClockFrames(t *testing.T) {
	k := runFrame(t, TimeFrame, "07:08:09")
	now := k.System.Clock.Time()
	require.Equal(t, []int{7, 8, 9}, []int{now.Hour(), now.Minute(), now.Second()})

	k = runFrame(t, DateFrame, "2019-02-12")
	now = k.System.Clock.Time()
	require.Equal(t, 2019, now.Year())
	require.Equal(t, time.February, now.Month())
	require.Equal(t, 12, now.Day())

	k = runFrame(t, SyscallFrame, "T23:59:00")
	require.Equal(t, 23, k.System.Clock.Time().Hour())

	_, err := TimeFrame([]string{"25:00"})
	require.Error(t, err)
	_, err = DateFrame([]string{"12/02/2019"})
	require.Error(t, err)
	_, err = SyscallFrame(nil)
	require.Error(t, err)
}

func TestDefaultClockFrames(t *testing.T) {
	saved := Now
	defer func() { Now = saved }()
	Now = func() time.Time { return time.Date(2021, time.March, 4, 5, 6, 7, 0, time.UTC) }

	frame, err := TimeFrame(nil)
	require.NoError(t, err)
	require.Equal(t, "\x02S\x1fT05:06:07\x03", string(frame))
	frame, err = DateFrame(nil)
	require.NoError(t, err)
	require.Equal(t, "\x02S\x1fD4/04/03/2021\x03", string(frame))
}

func TestUploadFrames(t *testing.T) {
	k := runFrame(t, DemoFrame)
	require.Equal(t, app.StateRunning, k.Apps.Status().State)

	f, err := ioutil.TempFile("", "mwatch-image")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	_, err = f.Write(demo.Image())
	require.NoError(t, err)
	f.Close()
	k = runFrame(t, UploadFrame, f.Name())
	require.Equal(t, demo.Image(), k.Apps.Program())

	_, err = UploadFrame([]string{f.Name() + ".missing"})
	require.Error(t, err)
}

func TestRawFrame(t *testing.T) {
	k := runFrame(t, RawFrame, `\x02N\x1fsrc\x1ftitle\x1fbody\x03`)
	n, ok := k.System.Notifications.Get(0)
	require.True(t, ok)
	require.Equal(t, "body", n.Body())

	_, err := RawFrame([]string{`\q`})
	require.Error(t, err)
}
