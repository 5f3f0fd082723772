package app

import "hash/crc32"

// RAM is the fixed region an application image is staged into.
type RAM struct {
	region []byte
	cursor int
}

// NewRAM wraps region, which is wiped before use.
func NewRAM(region []byte) *RAM {
	for i := range region {
		region[i] = 0
	}
	return &RAM{region: region}
}

// Write appends b at the cursor.
func (r *RAM) Write(b byte) error {
	if r.cursor >= len(r.region) {
		return ErrNoMemory
	}
	r.region[r.cursor] = b
	r.cursor++
	return nil
}

// Checksum computes the CRC32 (IEEE) of the written bytes.
func (r *RAM) Checksum() uint32 {
	return crc32.ChecksumIEEE(r.region[:r.cursor])
}

// Reset wipes the written bytes and rewinds the cursor.
func (r *RAM) Reset() {
	for i := 0; i < r.cursor; i++ {
		r.region[i] = 0
	}
	r.cursor = 0
}

// Len returns the number of bytes written.
func (r *RAM) Len() int { return r.cursor }

// Cap returns the size of the region.
func (r *RAM) Cap() int { return len(r.region) }

// Bytes returns the written bytes, valid until the next Write or Reset.
func (r *RAM) Bytes() []byte { return r.region[:r.cursor] }
