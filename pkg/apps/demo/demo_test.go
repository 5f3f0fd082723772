package demo

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mwatch.go/pkg/abi"
	"github.com/robotalks/mwatch.go/pkg/app"
)

func load(t *testing.T, m *app.Manager, image []byte) {
	for _, b := range app.DigestBytes(crc32.ChecksumIEEE(image)) {
		require.NoError(t, m.WriteChecksumByte(b))
	}
	for _, b := range image {
		require.NoError(t, m.WriteRAMByte(b))
	}
	require.NoError(t, m.Verify())
}

func TestDemo(t *testing.T) {
	demo := New()
	reg := demo.Register(app.NewRegistry())
	m := app.NewManager(app.NewRAM(make([]byte, 128)), abi.NewTable(), reg)
	load(t, m, Image())
	require.NoError(t, m.Execute())

	fb := abi.NewFrameBuffer(16, 16)
	require.NoError(t, m.Service(fb))
	require.Equal(t, int32(1), m.Status().LastServiceResult)
	x, y := demo.Position()
	require.Equal(t, 1, x)
	require.Equal(t, 1, y)
	require.Equal(t, Colours[0], fb.Pixel(1, 1))
	require.Equal(t, Colours[0], fb.Pixel(8, 8))
	require.Equal(t, uint16(0), fb.Pixel(0, 0))
	require.Equal(t, uint16(0), fb.Pixel(9, 9))

	require.NoError(t, m.ServiceInput(abi.InputRight))
	require.Equal(t, Colours[1], demo.Colour())
	require.NoError(t, m.ServiceInput(abi.InputLeft))
	require.NoError(t, m.ServiceInput(abi.InputLeft))
	require.Equal(t, Colours[len(Colours)-1], demo.Colour())

	for i := 0; i < 40; i++ {
		require.NoError(t, m.Service(fb))
		x, y := demo.Position()
		require.True(t, x >= 0 && x+demo.Size <= 16)
		require.True(t, y >= 0 && y+demo.Size <= 16)
	}
	require.Equal(t, 41, demo.Frames())
}
