package abi

// FrameBuffer is an RGB565 pixel buffer, two bytes per pixel, big-endian.
type FrameBuffer struct {
	width  int
	height int
	pix    []byte
}

// NewFrameBuffer allocates a framebuffer.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*2),
	}
}

// Width returns the width in pixels.
func (f *FrameBuffer) Width() int { return f.width }

// Height returns the height in pixels.
func (f *FrameBuffer) Height() int { return f.height }

// Bytes returns the raw pixel memory.
func (f *FrameBuffer) Bytes() []byte { return f.pix }

// SetPixel writes a pixel, returns false if (x, y) is out of bounds.
func (f *FrameBuffer) SetPixel(x, y int, colour uint16) bool {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return false
	}
	off := (x + y*f.width) * 2
	f.pix[off], f.pix[off+1] = byte(colour>>8), byte(colour)
	return true
}

// Pixel reads a pixel, out of bounds reads are 0.
func (f *FrameBuffer) Pixel(x, y int) uint16 {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0
	}
	off := (x + y*f.width) * 2
	return uint16(f.pix[off])<<8 | uint16(f.pix[off+1])
}

// Clear blanks the framebuffer.
func (f *FrameBuffer) Clear() {
	for i := range f.pix {
		f.pix[i] = 0
	}
}
