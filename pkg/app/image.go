package app

import (
	"encoding/binary"
	"fmt"

	"github.com/robotalks/mwatch.go/pkg/abi"
)

const (
	// HeaderSize is the size of the entry point table heading an image.
	HeaderSize = 12
	// ChecksumSize is the size of the digest preceding an image on the wire.
	ChecksumSize = 4
)

// Header lists the entry addresses of an image.
type Header struct {
	Setup   uint32
	Service uint32
	Input   uint32
}

// ParseHeader decodes the little-endian entry addresses at offsets 0, 4 and 8.
func ParseHeader(image []byte) (Header, error) {
	if len(image) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, header needs %d", ErrInvalidImage, len(image), HeaderSize)
	}
	return Header{
		Setup:   binary.LittleEndian.Uint32(image[0:4]),
		Service: binary.LittleEndian.Uint32(image[4:8]),
		Input:   binary.LittleEndian.Uint32(image[8:12]),
	}, nil
}

// Bytes encodes the header as it appears at the start of an image.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.Setup)
	binary.LittleEndian.PutUint32(b[4:8], h.Service)
	binary.LittleEndian.PutUint32(b[8:12], h.Input)
	return b
}

// DigestFromBytes rebuilds a digest from bytes sent most significant first.
func DigestFromBytes(b [ChecksumSize]byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// DigestBytes is the inverse of DigestFromBytes.
func DigestBytes(digest uint32) [ChecksumSize]byte {
	return [ChecksumSize]byte{byte(digest >> 24), byte(digest >> 16), byte(digest >> 8), byte(digest)}
}

// VerifiedImage is an image whose digest has been checked.
// It is only produced by Manager.Verify.
type VerifiedImage struct {
	data   []byte
	digest uint32
}

// Bytes returns the image content.
func (v *VerifiedImage) Bytes() []byte { return v.data }

// Digest returns the verified CRC32.
func (v *VerifiedImage) Digest() uint32 { return v.digest }

// EntryPoints are the callables recovered from a verified image.
type EntryPoints struct {
	Header  Header
	Setup   abi.SetupFn
	Service abi.ServiceFn
	Input   abi.InputFn
}

// BuildEntryPoints resolves the header of img through rt.
// This is the only place where addresses coming from the wire become callables.
func BuildEntryPoints(rt Runtime, img *VerifiedImage) (*EntryPoints, error) {
	if img == nil {
		return nil, ErrNoApplication
	}
	hdr, err := ParseHeader(img.data)
	if err != nil {
		return nil, err
	}
	ep := &EntryPoints{Header: hdr}
	if ep.Setup, err = rt.ResolveSetup(hdr.Setup); err != nil {
		return nil, err
	}
	if ep.Service, err = rt.ResolveService(hdr.Service); err != nil {
		return nil, err
	}
	if ep.Input, err = rt.ResolveInput(hdr.Input); err != nil {
		return nil, err
	}
	return ep, nil
}
