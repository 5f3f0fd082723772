package app

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mwatch.go/pkg/abi"
)

func TestDigestFromBytes(t *testing.T) {
	require.Equal(t, uint32(0x2362A762), DigestFromBytes([4]byte{35, 98, 167, 98}))
	require.Equal(t, [4]byte{35, 98, 167, 98}, DigestBytes(0x2362A762))
}

func TestDigestRoundTrip(t *testing.T) {
	images := [][]byte{
		{},
		{0},
		[]byte("hello watch"),
		{0x02, 0x03, 0x1f, 0xff, 0x00, 0x80},
	}
	for _, img := range images {
		sum := crc32.ChecksumIEEE(img)
		le := make([]byte, 4)
		binary.LittleEndian.PutUint32(le, sum)
		require.Equal(t, sum, DigestFromBytes([4]byte{le[3], le[2], le[1], le[0]}))
	}
}

func TestRAM(t *testing.T) {
	region := []byte{9, 9, 9, 9}
	ram := NewRAM(region)
	require.Equal(t, []byte{0, 0, 0, 0}, region)
	for _, b := range []byte{1, 2, 3, 4} {
		require.NoError(t, ram.Write(b))
	}
	require.Equal(t, ErrNoMemory, ram.Write(5))
	require.Equal(t, 4, ram.Len())
	require.Equal(t, 4, ram.Cap())
	require.Equal(t, crc32.ChecksumIEEE([]byte{1, 2, 3, 4}), ram.Checksum())

	ram.Reset()
	require.Equal(t, 0, ram.Len())
	require.Equal(t, []byte{0, 0, 0, 0}, region)
	require.Equal(t, crc32.ChecksumIEEE(nil), ram.Checksum())
}

func TestParseHeader(t *testing.T) {
	hdr := Header{Setup: 0x08000101, Service: 0x08000201, Input: 0x08000301}
	b := hdr.Bytes()
	require.Equal(t, []byte{0x01, 0x01, 0x00, 0x08}, b[0:4])
	parsed, err := ParseHeader(append(b, 0xaa, 0xbb))
	require.NoError(t, err)
	require.Equal(t, hdr, parsed)

	_, err = ParseHeader(b[:11])
	require.True(t, errors.Is(err, ErrInvalidImage))
}

type testApp struct {
	table  *abi.Table
	inputs []abi.InputEvent
	ctx    *abi.Context
}

var testHeader = Header{Setup: 0x100, Service: 0x200, Input: 0x300}

func (a *testApp) program() Program {
	return Program{
		Setup: func(t *abi.Table) int32 {
			a.table = t
			return abi.ResultOK
		},
		Service: func(ctx *abi.Context) int32 {
			a.ctx = ctx
			return a.table.DrawPixel(ctx, 1, 1, 0xffff) + 7
		},
		Input: func(ctx *abi.Context, ev abi.InputEvent) int32 {
			a.inputs = append(a.inputs, ev)
			return a.table.DrawPixel(ctx, 0, 0, 1)
		},
	}
}

func testImage() []byte {
	return append(testHeader.Bytes(), []byte("code")...)
}

func newTestManager(ta *testApp, size int) *Manager {
	reg := NewRegistry().Register(testHeader, ta.program())
	return NewManager(NewRAM(make([]byte, size)), abi.NewTable(), reg)
}

func load(t *testing.T, m *Manager, img []byte, digest uint32) error {
	for _, b := range DigestBytes(digest) {
		require.NoError(t, m.WriteChecksumByte(b))
	}
	for _, b := range img {
		require.NoError(t, m.WriteRAMByte(b))
	}
	return m.Verify()
}

func TestManagerLifecycle(t *testing.T) {
	ta := &testApp{}
	m := newTestManager(ta, 64)
	s := m.Status()
	require.Equal(t, StateUnloaded, s.State)
	require.Equal(t, int32(-1), s.LastServiceResult)

	img := testImage()
	require.NoError(t, load(t, m, img, crc32.ChecksumIEEE(img)))
	s = m.Status()
	require.True(t, s.IsLoaded)
	require.False(t, s.IsRunning)
	require.Equal(t, StateLoaded, s.State)
	require.Equal(t, len(img), s.RAMUsed)
	require.Equal(t, img, m.Program())
	require.Equal(t, ErrExecuting, m.WriteRAMByte(0))
	require.Equal(t, ErrExecuting, m.WriteChecksumByte(0))

	require.Equal(t, ErrInvalidServiceFn, m.Service(abi.NewFrameBuffer(4, 4)))

	require.NoError(t, m.Execute())
	require.NotNil(t, ta.table)
	require.Equal(t, StateRunning, m.Status().State)

	fb := abi.NewFrameBuffer(4, 4)
	require.NoError(t, m.Service(fb))
	require.Equal(t, int32(7), m.Status().LastServiceResult)
	require.Equal(t, uint16(0xffff), fb.Pixel(1, 1))
	require.False(t, ta.ctx.Valid())

	require.NoError(t, m.ServiceInput(abi.InputDual))
	require.Equal(t, []abi.InputEvent{abi.InputDual}, ta.inputs)

	m.Pause()
	require.Equal(t, StatePaused, m.Status().State)
	require.Equal(t, ErrInvalidServiceFn, m.Service(fb))
	require.Equal(t, ErrInvalidInputFn, m.ServiceInput(abi.InputLeft))

	require.NoError(t, m.Resume())
	require.Equal(t, StateRunning, m.Status().State)

	m.Kill()
	s = m.Status()
	require.Equal(t, StateUnloaded, s.State)
	require.Equal(t, 0, s.RAMUsed)
	require.Equal(t, ErrNoApplication, m.Resume())
	require.Equal(t, ErrNoApplication, m.Execute())
}

func TestManagerChecksumFailed(t *testing.T) {
	m := newTestManager(&testApp{}, 64)
	img := testImage()
	err := load(t, m, img, crc32.ChecksumIEEE(img)^1)
	require.True(t, errors.Is(err, ErrChecksumFailed))
	var ce *ChecksumError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, crc32.ChecksumIEEE(img), ce.Actual)
	require.False(t, m.Status().IsLoaded)
	require.Equal(t, ErrNoApplication, m.Execute())
}

func TestManagerIncompleteChecksum(t *testing.T) {
	m := newTestManager(&testApp{}, 64)
	require.NoError(t, m.WriteChecksumByte(0))
	require.True(t, errors.Is(m.Verify(), ErrChecksumFailed))
}

func TestManagerChecksumOverflow(t *testing.T) {
	m := newTestManager(&testApp{}, 64)
	for i := 0; i < ChecksumSize; i++ {
		require.NoError(t, m.WriteChecksumByte(byte(i)))
	}
	require.True(t, errors.Is(m.WriteChecksumByte(4), ErrNoMemory))
}

func TestManagerRAMOverflow(t *testing.T) {
	m := newTestManager(&testApp{}, 2)
	require.NoError(t, m.WriteRAMByte(1))
	require.NoError(t, m.WriteRAMByte(2))
	require.True(t, errors.Is(m.WriteRAMByte(3), ErrNoMemory))
	require.Equal(t, 2, m.Status().RAMUsed)
}

func TestManagerExecuteBeforeVerify(t *testing.T) {
	m := newTestManager(&testApp{}, 64)
	require.Equal(t, ErrNoApplication, m.Execute())
	for _, b := range testImage() {
		require.NoError(t, m.WriteRAMByte(b))
	}
	require.Equal(t, ErrNoApplication, m.Execute())
}

func TestManagerKillIdempotent(t *testing.T) {
	ta := &testApp{}
	m := newTestManager(ta, 64)
	img := testImage()
	require.NoError(t, load(t, m, img, crc32.ChecksumIEEE(img)))
	require.NoError(t, m.Execute())
	m.Kill()
	m.Kill()
	s := m.Status()
	require.False(t, s.IsLoaded)
	require.False(t, s.IsRunning)
	require.Equal(t, StateUnloaded, s.State)

	// a fresh upload is accepted after kill
	require.NoError(t, load(t, m, img, crc32.ChecksumIEEE(img)))
}

func TestManagerUnresolvedImage(t *testing.T) {
	m := newTestManager(&testApp{}, 64)
	img := append(Header{Setup: 0x100, Service: 0x999, Input: 0x300}.Bytes(), 0)
	require.NoError(t, load(t, m, img, crc32.ChecksumIEEE(img)))
	err := m.Execute()
	require.True(t, errors.Is(err, ErrInvalidImage))
	var ue *UnresolvedError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, "service", ue.Entry)
	require.Equal(t, StateLoaded, m.Status().State)

	short := []byte{1, 2, 3}
	m.Kill()
	require.NoError(t, load(t, m, short, crc32.ChecksumIEEE(short)))
	require.True(t, errors.Is(m.Execute(), ErrInvalidImage))
}
