package companion

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mwatch.go/pkg/abi"
	"github.com/robotalks/mwatch.go/pkg/app"
	"github.com/robotalks/mwatch.go/pkg/ingress"
)

func parse(t *testing.T, loader ingress.Loader, data []byte) []ingress.Event {
	var events []ingress.Event
	m := ingress.NewManager(4096, 256)
	m.Loader = loader
	m.Handler = ingress.HandleEventFunc(func(ctx context.Context, ev ingress.Event) {
		if n, ok := ev.(*ingress.NotificationEvent); ok {
			ev = &ingress.NotificationEvent{Buffer: n.Buffer.Copy(), Sections: n.Sections}
		}
		events = append(events, ev)
	})
	m.Write(data)
	m.Process(context.Background())
	require.Equal(t, ingress.StateWait, m.State())
	return events
}

func TestFrameBytes(t *testing.T) {
	data, err := EncodeNotification("src", "title", "body")
	require.NoError(t, err)
	require.Equal(t, []byte("\x02N\x1fsrc\x1ftitle\x1fbody\x03"), data)

	data, err = EncodeSyscall("T00:00:00")
	require.NoError(t, err)
	require.Equal(t, []byte("\x02S\x1fT00:00:00\x03"), data)

	var buf bytes.Buffer
	n, err := TimeFrame(time.Date(2019, time.February, 12, 1, 2, 3, 0, time.UTC)).WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.Equal(t, "\x02S\x1fT01:02:03\x03", buf.String())

	require.Equal(t, []byte("\x02S\x1fD2/12/02/2019\x03"), EncodeDate(time.Date(2019, time.February, 12, 0, 0, 0, 0, time.UTC)))
}

func TestControlBytesRejected(t *testing.T) {
	for _, s := range []string{"a\x02", "\x03", "x\x1fy"} {
		_, err := EncodeNotification("src", s, "body")
		require.True(t, errors.Is(err, ErrControlByte))
		_, err = EncodeSyscall(s)
		require.True(t, errors.Is(err, ErrControlByte))
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := EncodeNotification("mail", "Hello", "how are you")
	require.NoError(t, err)
	data = append(data, EncodeTime(time.Date(2020, 1, 1, 23, 59, 58, 0, time.UTC))...)
	data = append(data, EncodeDate(time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC))...)

	events := parse(t, nil, data)
	require.Len(t, events, 3)
	n := events[0].(*ingress.NotificationEvent)
	require.Equal(t, "mail", string(n.Source()))
	require.Equal(t, "Hello", string(n.Title()))
	require.Equal(t, "how are you", string(n.Body()))
	require.Equal(t, "time 23:59:58", events[1].(*ingress.SyscallEvent).Syscall.String())
	require.Equal(t, "date 2020-02-29", events[2].(*ingress.SyscallEvent).Syscall.String())
}

func TestApplicationRoundTrip(t *testing.T) {
	hdr := app.Header{Setup: 0x1000, Service: 0x2000, Input: 0x3000}
	image := append(hdr.Bytes(), ingress.STX, ingress.ETX, ingress.PAYLOAD, 0xff)
	loader := app.NewManager(app.NewRAM(make([]byte, 64)), abi.NewTable(), app.NewRegistry())
	events := parse(t, loader, EncodeApplication(image))
	require.Len(t, events, 1)
	ev := events[0].(*ingress.ApplicationEvent)
	require.NoError(t, ev.Err)
	require.Equal(t, len(image), ev.Size)
	require.Equal(t, image, loader.Program())
}
