package abi

// Context is handed to the application for the duration of one call.
type Context struct {
	framebuffer *FrameBuffer
	released    bool
}

// NewServiceContext creates a Context lending fb to the application.
func NewServiceContext(fb *FrameBuffer) *Context {
	return &Context{framebuffer: fb}
}

// NewInputContext creates a Context without framebuffer access.
func NewInputContext() *Context {
	return &Context{}
}

// Valid indicates the context has not been released.
func (c *Context) Valid() bool {
	return c != nil && !c.released
}

// FrameBuffer returns the lent framebuffer, if any.
func (c *Context) FrameBuffer() (*FrameBuffer, bool) {
	if !c.Valid() || c.framebuffer == nil {
		return nil, false
	}
	return c.framebuffer, true
}

// Release ends the lending. Any later use of c through a Table callback fails.
func (c *Context) Release() {
	c.framebuffer = nil
	c.released = true
}
