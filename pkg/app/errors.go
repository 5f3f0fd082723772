package app

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMemory indicates the RAM region or the checksum field is full.
	ErrNoMemory = errors.New("no memory")
	// ErrChecksumFailed indicates the staged image does not match its digest.
	ErrChecksumFailed = errors.New("checksum failed")
	// ErrNoApplication indicates no verified application is available.
	ErrNoApplication = errors.New("no application")
	// ErrInvalidServiceFn indicates there is no service entry point to call.
	ErrInvalidServiceFn = errors.New("invalid service function")
	// ErrInvalidInputFn indicates there is no input entry point to call.
	ErrInvalidInputFn = errors.New("invalid input function")
	// ErrExecuting indicates the operation is not allowed while an image is loaded.
	ErrExecuting = errors.New("application executing")
	// ErrInvalidImage indicates the image header can't be turned into entry points.
	ErrInvalidImage = errors.New("invalid image")
)

// ChecksumError is returned by Verify when digests differ.
type ChecksumError struct {
	Expected uint32
	Actual   uint32
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum failed: expected %08x, actual %08x", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrChecksumFailed) hold.
func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksumFailed
}

// UnresolvedError is returned when an entry address has no program behind it.
type UnresolvedError struct {
	Entry   string
	Address uint32
}

// Error implements error.
func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("invalid image: unresolved %s entry at 0x%08x", e.Entry, e.Address)
}

// Is makes errors.Is(err, ErrInvalidImage) hold.
func (e *UnresolvedError) Is(target error) bool {
	return target == ErrInvalidImage
}
