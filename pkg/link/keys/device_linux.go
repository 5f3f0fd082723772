//go:build linux
// +build linux

package keys

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

const (
	iocGNAME uintptr = 0x80ff6a13

	jsEventInit   uint8 = 0x80
	jsEventButton uint8 = 0x01
)

// jsEvent is struct js_event of linux/joystick.h.
type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

type jsDevice struct {
	file *os.File
	name string
}

// DevicePath returns the path of joystick index.
func DevicePath(index int) string {
	return fmt.Sprintf("/dev/input/js%d", index)
}

// Open opens the joystick with index.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(DevicePath(index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &jsDevice{file: f}
	var buf [256]byte
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), iocGNAME, uintptr(unsafe.Pointer(&buf)))
	if errno != 0 {
		f.Close()
		return nil, errno
	}
	if pos := bytes.IndexByte(buf[:], 0); pos >= 0 {
		d.name = string(buf[:pos])
	} else {
		d.name = string(buf[:])
	}
	return d, nil
}

// Detect opens the first available joystick.
func Detect() (Device, error) {
	for index := 0; index < 32; index++ {
		d, err := Open(index)
		if os.IsNotExist(err) {
			continue
		}
		return d, err
	}
	return nil, os.ErrNotExist
}

func (d *jsDevice) Close() error { return d.file.Close() }

func (d *jsDevice) Name() string { return d.name }

func (d *jsDevice) ReadButton() (ButtonEvent, error) {
	var buf [8]byte
	for {
		if _, err := d.file.Read(buf[:]); err != nil {
			return ButtonEvent{}, err
		}
		var ev jsEvent
		if err := binary.Read(bytes.NewReader(buf[:]), binary.LittleEndian, &ev); err != nil {
			return ButtonEvent{}, err
		}
		if ev.Type&jsEventButton != 0 {
			return ButtonEvent{
				Init:    ev.Type&jsEventInit != 0,
				Button:  int(ev.Number),
				Pressed: ev.Value != 0,
			}, nil
		}
	}
}
