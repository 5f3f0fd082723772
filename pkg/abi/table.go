package abi

import (
	"unicode/utf8"

	"github.com/golang/glog"
)

// TableVersion is the layout version of Table.
const TableVersion uint32 = 1

// Result codes returned by Table callbacks.
const (
	ResultOK             int32 = 0
	ResultInvalidContext int32 = -1
	ResultOutOfBounds    int32 = -2
	ResultInvalidLength  int32 = -3
)

// DrawPixelFn draws a single RGB565 pixel into the framebuffer of ctx.
type DrawPixelFn func(ctx *Context, x, y uint8, colour uint16) int32

// PrintFn prints the first length bytes of data to the kernel log.
type PrintFn func(ctx *Context, data []byte, length int) int32

// Table is the set of callbacks the kernel exposes to a loaded application.
type Table struct {
	Version   uint32
	DrawPixel DrawPixelFn
	Print     PrintFn
}

// SetupFn is the entry point invoked once when an application is executed.
type SetupFn func(*Table) int32

// ServiceFn is the entry point invoked on every kernel tick while running.
type ServiceFn func(*Context) int32

// InputFn is the entry point invoked for every input event while running.
type InputFn func(*Context, InputEvent) int32

// NewTable creates the kernel callback table.
func NewTable() *Table {
	return &Table{
		Version:   TableVersion,
		DrawPixel: drawPixel,
		Print:     printLog,
	}
}

func drawPixel(ctx *Context, x, y uint8, colour uint16) int32 {
	fb, ok := ctx.FrameBuffer()
	if !ok {
		glog.Warning("draw_pixel invoked outside of service")
		return ResultInvalidContext
	}
	if !fb.SetPixel(int(x), int(y), colour) {
		return ResultOutOfBounds
	}
	return ResultOK
}

// printLog trusts the application for length only as far as data reaches.
func printLog(ctx *Context, data []byte, length int) int32 {
	if !ctx.Valid() {
		return ResultInvalidContext
	}
	if length < 0 || length > len(data) {
		glog.Warningf("print invoked with length %d over %d bytes", length, len(data))
		return ResultInvalidLength
	}
	msg := data[:length]
	if utf8.Valid(msg) {
		glog.Infof("[APP] - %s", msg)
	} else {
		glog.Infof("[APP] - %q", msg)
	}
	return ResultOK
}
