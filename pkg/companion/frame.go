// Package companion encodes frames the companion device sends to the watch.
package companion

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"github.com/robotalks/mwatch.go/pkg/app"
	"github.com/robotalks/mwatch.go/pkg/ingress"
)

// ErrControlByte indicates a text field contains a framing byte.
var ErrControlByte = errors.New("field contains control byte")

// Frame is one STX ... ETX unit. Each field is preceded by PAYLOAD.
type Frame struct {
	Type   byte
	Fields [][]byte
}

// Validate checks no field collides with the framing bytes.
func (f *Frame) Validate() error {
	for n, field := range f.Fields {
		if i := bytes.IndexAny(field, string([]byte{ingress.STX, ingress.ETX, ingress.PAYLOAD})); i >= 0 {
			return fmt.Errorf("%w: field %d offset %d", ErrControlByte, n, i)
		}
	}
	return nil
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() []byte {
	var buf bytes.Buffer
	f.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes encoded bytes.
func (f *Frame) WriteTo(w io.Writer) (n int64, err error) {
	write := func(b []byte) bool {
		var n1 int
		n1, err = w.Write(b)
		n += int64(n1)
		return err == nil
	}
	if !write([]byte{ingress.STX, f.Type}) {
		return
	}
	for _, field := range f.Fields {
		if !write([]byte{ingress.PAYLOAD}) || !write(field) {
			return
		}
	}
	write([]byte{ingress.ETX})
	return
}

func textFrame(typ byte, fields ...string) (*Frame, error) {
	f := &Frame{Type: typ}
	for _, s := range fields {
		f.Fields = append(f.Fields, []byte(s))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NotificationFrame builds a notification.
func NotificationFrame(source, title, body string) (*Frame, error) {
	return textFrame(ingress.TypeNotification, source, title, body)
}

// SyscallFrame builds a system call.
func SyscallFrame(cmd string) (*Frame, error) {
	return textFrame(ingress.TypeSyscall, cmd)
}

// TimeFrame builds the system call setting the time of day of t.
func TimeFrame(t time.Time) *Frame {
	f, _ := SyscallFrame(fmt.Sprintf("T%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second()))
	return f
}

// DateFrame builds the system call setting the date of t.
func DateFrame(t time.Time) *Frame {
	f, _ := SyscallFrame(fmt.Sprintf("D%d/%02d/%02d/%04d", int(t.Weekday()), t.Day(), int(t.Month()), t.Year()))
	return f
}

// ApplicationFrame builds an application upload, hex encoding the digest
// and the image.
func ApplicationFrame(image []byte) *Frame {
	digest := app.DigestBytes(crc32.ChecksumIEEE(image))
	return &Frame{
		Type: ingress.TypeApplication,
		Fields: [][]byte{
			[]byte(hex.EncodeToString(digest[:])),
			[]byte(hex.EncodeToString(image)),
		},
	}
}

// EncodeNotification encodes a notification frame.
func EncodeNotification(source, title, body string) ([]byte, error) {
	f, err := NotificationFrame(source, title, body)
	if err != nil {
		return nil, err
	}
	return f.Bytes(), nil
}

// EncodeSyscall encodes a system call frame.
func EncodeSyscall(cmd string) ([]byte, error) {
	f, err := SyscallFrame(cmd)
	if err != nil {
		return nil, err
	}
	return f.Bytes(), nil
}

// EncodeTime encodes the time setting frame.
func EncodeTime(t time.Time) []byte { return TimeFrame(t).Bytes() }

// EncodeDate encodes the date setting frame.
func EncodeDate(t time.Time) []byte { return DateFrame(t).Bytes() }

// EncodeApplication encodes an application upload frame.
func EncodeApplication(image []byte) []byte { return ApplicationFrame(image).Bytes() }
