package stream

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mwatch.go/pkg/app"
	"github.com/robotalks/mwatch.go/pkg/apps/demo"
	"github.com/robotalks/mwatch.go/pkg/companion"
	"github.com/robotalks/mwatch.go/pkg/config"
	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/kernel"
	"github.com/robotalks/mwatch.go/pkg/msgs"
)

func TestReaderLargeUpload(t *testing.T) {
	k, err := kernel.New(config.Default(), demo.New().Register(app.NewRegistry()))
	require.NoError(t, err)
	uploads := make(chan *msgs.AppUpload, 1)
	k.Observe(fx.HandleMessageFunc(func(ctx context.Context, msg fx.Message) {
		if m, ok := msg.(*msgs.AppUpload); ok {
			uploads <- m
		}
	}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- k.Run(ctx) }()

	image := append(demo.Image(), make([]byte, 4096)...)
	r := New("stdin", bytes.NewReader(companion.EncodeApplication(image)), k)
	require.NoError(t, r.Run(ctx))

	select {
	case upload := <-uploads:
		require.Empty(t, upload.Error)
		require.Equal(t, uint32(len(image)), upload.Size)
	case <-time.After(5 * time.Second):
		t.Fatal("upload not reported")
	}
	cancel()
	<-done
}
