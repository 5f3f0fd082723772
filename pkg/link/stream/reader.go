// Package stream feeds a byte stream (serial device, stdin, pipe) to the
// kernel in DMA sized chunks.
package stream

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/mwatch.go/pkg/framework"
)

// DefaultChunkSize matches half of the receive DMA buffer.
const DefaultChunkSize = 64

// Reader copies R into Sink one chunk at a time.
type Reader struct {
	Name      string
	R         io.Reader
	Sink      io.Writer
	ChunkSize int
}

// New creates a Reader.
func New(name string, r io.Reader, sink io.Writer) *Reader {
	return &Reader{Name: name, R: r, Sink: sink, ChunkSize: DefaultChunkSize}
}

// Run implements Runnable. EOF stops the reader without error.
func (r *Reader) Run(ctx context.Context) error {
	if closer, ok := r.R.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, r.copy)
	}
	return fx.RunWithContext(ctx, r.copy)
}

func (r *Reader) copy() error {
	size := r.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	buf := make([]byte, size)
	for {
		n, err := r.R.Read(buf)
		if n > 0 {
			glog.V(4).Infof("%s: %d bytes", r.Name, n)
			if _, werr := r.Sink.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			glog.Infof("%s: closed", r.Name)
			return nil
		}
		if err != nil {
			return err
		}
	}
}
