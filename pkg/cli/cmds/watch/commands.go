// Package watch provides the shell commands talking to a connected watch.
package watch

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mwatch.go/pkg/abi"
	"github.com/robotalks/mwatch.go/pkg/apps/demo"
	"github.com/robotalks/mwatch.go/pkg/cli/sh"
	"github.com/robotalks/mwatch.go/pkg/companion"
)

// FrameBuilder converts command arguments to frame bytes.
type FrameBuilder func(args []string) ([]byte, error)

// Now is the clock used when time or date is omitted.
var Now = time.Now

// NotifyFrame builds a notification from SOURCE TITLE BODY...
func NotifyFrame(args []string) ([]byte, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("SOURCE and TITLE required")
	}
	return companion.EncodeNotification(args[0], args[1], strings.Join(args[2:], " "))
}

// SyscallFrame builds a syscall from its command text.
func SyscallFrame(args []string) ([]byte, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("COMMAND required")
	}
	return companion.EncodeSyscall(args[0])
}

// TimeFrame builds a time syscall from HH:MM:SS, now when omitted.
func TimeFrame(args []string) ([]byte, error) {
	t := Now()
	if len(args) > 0 {
		parsed, err := time.Parse("15:04:05", args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid TIME: %w", err)
		}
		t = parsed
	}
	return companion.EncodeTime(t), nil
}

// DateFrame builds a date syscall from YYYY-MM-DD, today when omitted.
func DateFrame(args []string) ([]byte, error) {
	t := Now()
	if len(args) > 0 {
		parsed, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid DATE: %w", err)
		}
		t = parsed
	}
	return companion.EncodeDate(t), nil
}

// UploadFrame builds an application upload from an image file.
func UploadFrame(args []string) ([]byte, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("FILE required")
	}
	image, err := ioutil.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	return companion.EncodeApplication(image), nil
}

// DemoFrame builds the upload of the built-in demo application.
func DemoFrame([]string) ([]byte, error) {
	return companion.EncodeApplication(demo.Image()), nil
}

// RawFrame sends Go escaped text as is, e.g. \x02N\x1fa\x1fb\x1fc\x03
func RawFrame(args []string) ([]byte, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("TEXT required")
	}
	s, err := strconv.Unquote(`"` + strings.Join(args, " ") + `"`)
	if err != nil {
		return nil, fmt.Errorf("invalid TEXT: %w", err)
	}
	return []byte(s), nil
}

func sendCmd(build FrameBuilder) func(*ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		frame, err := build(c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		sh.SendFrame(c, frame)
	})
}

var (
	// NotifyCmd pushes a notification.
	NotifyCmd = ishell.Cmd{
		Name:    "notify",
		Aliases: []string{"n"},
		Help:    "SOURCE TITLE [BODY...]",
		Func:    sendCmd(NotifyFrame),
	}

	// SyscallCmd sends a raw syscall.
	SyscallCmd = ishell.Cmd{
		Name:    "syscall",
		Aliases: []string{"s"},
		Help:    "COMMAND, e.g. T12:30:00",
		Func:    sendCmd(SyscallFrame),
	}

	// TimeCmd sets the time of the watch.
	TimeCmd = ishell.Cmd{
		Name: "time",
		Help: "[HH:MM:SS]",
		Func: sendCmd(TimeFrame),
	}

	// DateCmd sets the date of the watch.
	DateCmd = ishell.Cmd{
		Name: "date",
		Help: "[YYYY-MM-DD]",
		Func: sendCmd(DateFrame),
	}

	// UploadCmd uploads an application image.
	UploadCmd = ishell.Cmd{
		Name:    "upload",
		Aliases: []string{"u"},
		Help:    "FILE",
		Func:    sendCmd(UploadFrame),
	}

	// DemoCmd uploads the demo application.
	DemoCmd = ishell.Cmd{
		Name: "demo",
		Help: "",
		Func: sendCmd(DemoFrame),
	}

	// RawCmd sends escaped bytes.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "TEXT",
		Func: sendCmd(RawFrame),
	}

	// InputCmd delivers an input event.
	InputCmd = ishell.Cmd{
		Name:    "input",
		Aliases: []string{"i"},
		Help:    "left|middle|right|dual|multi|left-middle|right-middle",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("EVENT required"))
				return
			}
			ev, err := abi.ParseInputEvent(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			if err := sh.ShellFrom(c).Session.Conn.SendInput(ev); err != nil {
				c.Err(err)
			}
		}),
	}
)

func init() {
	sh.AddCmds(
		&NotifyCmd,
		&SyscallCmd,
		&TimeCmd,
		&DateCmd,
		&UploadCmd,
		&DemoCmd,
		&RawCmd,
		&InputCmd,
	)
}
