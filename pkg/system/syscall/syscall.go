// Package syscall parses and executes the system calls sent by the companion.
//
// A system call is a short ASCII command, the first byte selecting the call:
//
//	D<weekday>/<day>/<month>/<year>   set the date, e.g. D0/12/02/2019
//	T<hours>:<minutes>:<seconds>      set the time, e.g. T12:21:11
package syscall

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
)

var (
	// ErrParse indicates malformed arguments.
	ErrParse = errors.New("syscall parse error")
	// ErrUnknownSyscall indicates an unknown leading byte.
	ErrUnknownSyscall = errors.New("unknown syscall")
)

// Kind is the leading byte of a system call.
type Kind byte

// Known system calls.
const (
	KindDate Kind = 'D'
	KindTime Kind = 'T'
)

// Date is a calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
	// Weekday as sent by the companion, informational only.
	Weekday int
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// String implements fmt.Stringer.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Clock is the real time clock a system call acts on.
type Clock interface {
	SetDate(Date)
	SetTime(TimeOfDay)
}

// Syscall is one parsed system call.
type Syscall struct {
	Kind Kind
	Date Date
	Time TimeOfDay
}

// String implements fmt.Stringer.
func (s Syscall) String() string {
	switch s.Kind {
	case KindDate:
		return "date " + s.Date.String()
	case KindTime:
		return "time " + s.Time.String()
	}
	return fmt.Sprintf("syscall(%q)", byte(s.Kind))
}

// Parse converts a command string to a Syscall.
func Parse(s string) (Syscall, error) {
	if len(s) == 0 {
		return Syscall{}, fmt.Errorf("%w: empty", ErrParse)
	}
	sc := Syscall{Kind: Kind(s[0])}
	var err error
	switch sc.Kind {
	case KindDate:
		sc.Date, err = parseDate(s[1:])
	case KindTime:
		sc.Time, err = parseTime(s[1:])
	default:
		return Syscall{}, fmt.Errorf("%w %q", ErrUnknownSyscall, s[0])
	}
	if err != nil {
		return Syscall{}, err
	}
	return sc, nil
}

// Execute applies the system call to clock.
func (s Syscall) Execute(clock Clock) error {
	switch s.Kind {
	case KindDate:
		glog.Infof("Setting the date to %s", s.Date)
		clock.SetDate(s.Date)
	case KindTime:
		glog.Infof("Setting the time to %s", s.Time)
		clock.SetTime(s.Time)
	default:
		return ErrUnknownSyscall
	}
	return nil
}

func parseInts(s, sep string, n int) ([]int, error) {
	fields := strings.Split(s, sep)
	if len(fields) != n {
		return nil, fmt.Errorf("%w: %q needs %d fields", ErrParse, s, n)
	}
	vals := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			glog.Errorf("Failed to convert %q into an integer: %v", f, err)
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseDate(s string) (Date, error) {
	vals, err := parseInts(s, "/", 4)
	if err != nil {
		return Date{}, err
	}
	d := Date{Weekday: vals[0], Day: vals[1], Month: time.Month(vals[2]), Year: vals[3]}
	if d.Month < time.January || d.Month > time.December || d.Day < 1 || d.Year < 0 {
		return Date{}, fmt.Errorf("%w: invalid date %s", ErrParse, d)
	}
	// time.Date normalizes overflowing days, a round trip catches them.
	if t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC); t.Day() != d.Day {
		return Date{}, fmt.Errorf("%w: invalid date %s", ErrParse, d)
	}
	return d, nil
}

func parseTime(s string) (TimeOfDay, error) {
	vals, err := parseInts(s, ":", 3)
	if err != nil {
		return TimeOfDay{}, err
	}
	t := TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: invalid time %s", ErrParse, t)
	}
	return t, nil
}
