package system

import (
	"sync"
	"time"

	"github.com/robotalks/mwatch.go/pkg/system/syscall"
)

// SoftClock is a real time clock kept as an offset from the host clock.
type SoftClock struct {
	// Now is the host clock, time.Now if nil.
	Now func() time.Time

	lock   sync.Mutex
	offset time.Duration
}

func (c *SoftClock) hostNow() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Time returns the current time of the watch.
func (c *SoftClock) Time() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.hostNow().Add(c.offset).UTC()
}

// Set moves the watch clock to t.
func (c *SoftClock) Set(t time.Time) {
	c.lock.Lock()
	c.offset = t.Sub(c.hostNow())
	c.lock.Unlock()
}

// SetDate implements syscall.Clock, the time of day is kept.
func (c *SoftClock) SetDate(d syscall.Date) {
	now := c.Time()
	c.Set(time.Date(d.Year, d.Month, d.Day, now.Hour(), now.Minute(), now.Second(), 0, time.UTC))
}

// SetTime implements syscall.Clock, the date is kept.
func (c *SoftClock) SetTime(t syscall.TimeOfDay) {
	now := c.Time()
	c.Set(time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, t.Second, 0, time.UTC))
}
