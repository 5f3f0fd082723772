// Package app stages, verifies and runs the single loadable application.
//
// An image is streamed into a fixed RAM region byte by byte, gated on a CRC32
// digest sent ahead of it, and only a verified image may have its entry points
// resolved. Resolution of the addresses in the image header is delegated to a
// Runtime.
package app
