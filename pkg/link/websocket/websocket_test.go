package websocket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mwatch.go/pkg/abi"
)

type testDevice struct {
	lock sync.Mutex
	data []byte
}

func (d *testDevice) Write(p []byte) (int, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.data = append(d.data, p...)
	return len(p), nil
}

func (d *testDevice) PushInput(abi.InputEvent) {}

func (d *testDevice) received() string {
	d.lock.Lock()
	defer d.lock.Unlock()
	return string(d.data)
}

func TestServerReceives(t *testing.T) {
	dev := &testDevice{}
	srv := &Server{Addr: "127.0.0.1:0", Device: dev}
	require.NoError(t, srv.Listen())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	conn, err := Dial(srv.ListenAddr().String())
	require.NoError(t, err)
	require.NoError(t, conn.Send([]byte("\x02S\x1fT00:")))
	require.NoError(t, conn.Send([]byte("00:00\x03")))
	require.NoError(t, conn.Close())

	expected := "\x02S\x1fT00:00:00\x03"
	for deadline := time.Now().Add(5 * time.Second); dev.received() != expected && time.Now().Before(deadline); {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, expected, dev.received())

	cancel()
	require.Equal(t, context.Canceled, <-done)
}
