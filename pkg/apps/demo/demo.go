// Package demo is a small native application linked into the kernel
// registry, used to exercise uploads end to end.
package demo

import (
	"fmt"

	"github.com/robotalks/mwatch.go/pkg/abi"
	"github.com/robotalks/mwatch.go/pkg/app"
)

// Header holds the entry addresses the demo is linked at.
var Header = app.Header{
	Setup:   0x20008001,
	Service: 0x20008041,
	Input:   0x20008081,
}

// Colours cycled by input events, RGB565.
var Colours = []uint16{0xf800, 0x07e0, 0x001f, 0xffff}

// App draws a bouncing square and changes colour on input.
type App struct {
	Size int

	table  *abi.Table
	x, y   int
	dx, dy int
	colour int
	frames int
}

// New creates the demo application.
func New() *App {
	return &App{Size: 8, dx: 1, dy: 1}
}

// Program returns the entry points of a.
func (a *App) Program() app.Program {
	return app.Program{
		Setup:   a.setup,
		Service: a.service,
		Input:   a.input,
	}
}

// Register links a at Header in reg.
func (a *App) Register(reg *app.Registry) *app.Registry {
	return reg.Register(Header, a.Program())
}

// Frames returns the number of service calls.
func (a *App) Frames() int { return a.frames }

// Colour returns the current colour.
func (a *App) Colour() uint16 { return Colours[a.colour] }

// Position returns the top left corner of the square.
func (a *App) Position() (int, int) { return a.x, a.y }

// Image returns the loadable image of the demo.
func Image() []byte {
	img := Header.Bytes()
	return append(img, []byte("mwatch demo")...)
}

func (a *App) setup(table *abi.Table) int32 {
	if table == nil || table.Version != abi.TableVersion {
		return abi.ResultInvalidContext
	}
	a.table = table
	a.x, a.y, a.frames = 0, 0, 0
	a.log("demo ready")
	return abi.ResultOK
}

func (a *App) service(ctx *abi.Context) int32 {
	fb, ok := ctx.FrameBuffer()
	if !ok || a.table == nil {
		return abi.ResultInvalidContext
	}
	w, h := fb.Width(), fb.Height()
	a.frames++
	if a.x+a.dx < 0 || a.x+a.dx+a.Size > w {
		a.dx = -a.dx
	}
	if a.y+a.dy < 0 || a.y+a.dy+a.Size > h {
		a.dy = -a.dy
	}
	a.x += a.dx
	a.y += a.dy
	fb.Clear()
	for y := a.y; y < a.y+a.Size && y < h; y++ {
		for x := a.x; x < a.x+a.Size && x < w; x++ {
			if res := a.table.DrawPixel(ctx, uint8(x), uint8(y), a.Colour()); res != abi.ResultOK {
				return res
			}
		}
	}
	return int32(a.frames)
}

func (a *App) input(ctx *abi.Context, ev abi.InputEvent) int32 {
	switch ev {
	case abi.InputLeft:
		a.colour = (a.colour + len(Colours) - 1) % len(Colours)
	case abi.InputRight:
		a.colour = (a.colour + 1) % len(Colours)
	case abi.InputMiddle:
		a.dx, a.dy = -a.dx, -a.dy
	}
	a.log(fmt.Sprintf("input %s", ev))
	return abi.ResultOK
}

func (a *App) log(msg string) {
	if a.table != nil {
		data := []byte(msg)
		a.table.Print(abi.NewInputContext(), data, len(data))
	}
}
