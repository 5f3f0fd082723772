// Package abi defines the boundary between the kernel and a loaded application.
package abi

// A loaded application receives the kernel Table once, during setup, and a
// fresh Context on every service or input call. The Table is the only path
// through which application code may reach kernel services (drawing and
// logging). A Context is only valid for the duration of the call it was
// created for and is released as soon as that call returns.
//
// Producer: kernel
// Consumer: loaded application
