package system

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSections indicates section offsets out of order or range.
	ErrInvalidSections = errors.New("invalid notification sections")
	// ErrNotificationTooLarge indicates the payload exceeds a pool slot.
	ErrNotificationTooLarge = errors.New("notification too large")
)

// Notification is a stored push notification.
type Notification struct {
	payload  []byte
	sections [3]int
}

// Source returns what generated the notification.
func (n *Notification) Source() string { return string(n.payload[:n.sections[0]]) }

// Title returns the title.
func (n *Notification) Title() string { return string(n.payload[n.sections[0]:n.sections[1]]) }

// Body returns the body.
func (n *Notification) Body() string { return string(n.payload[n.sections[1]:n.sections[2]]) }

// NotificationManager keeps the most recent notifications in a fixed pool.
// Once full, the oldest is overwritten.
type NotificationManager struct {
	pool     []Notification
	slotSize int
	next     int
	count    int
}

// NewNotificationManager creates a pool of poolSize slots holding up to
// slotSize bytes each.
func NewNotificationManager(poolSize, slotSize int) *NotificationManager {
	m := &NotificationManager{pool: make([]Notification, poolSize), slotSize: slotSize}
	for i := range m.pool {
		m.pool[i].payload = make([]byte, 0, slotSize)
	}
	return m
}

// Add copies payload into the pool.
func (m *NotificationManager) Add(payload []byte, sections [3]int) (*Notification, error) {
	if len(payload) > m.slotSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotificationTooLarge, len(payload))
	}
	if sections[0] < 0 || sections[0] > sections[1] || sections[1] > sections[2] || sections[2] > len(payload) {
		return nil, fmt.Errorf("%w: %v over %d bytes", ErrInvalidSections, sections, len(payload))
	}
	n := &m.pool[m.next]
	n.payload = append(n.payload[:0], payload...)
	n.sections = sections
	m.next = (m.next + 1) % len(m.pool)
	if m.count < len(m.pool) {
		m.count++
	}
	return n, nil
}

// Len returns the number of stored notifications.
func (m *NotificationManager) Len() int { return m.count }

// Get returns the i-th most recent notification, 0 being the newest.
func (m *NotificationManager) Get(i int) (*Notification, bool) {
	if i < 0 || i >= m.count {
		return nil, false
	}
	idx := (m.next - 1 - i + 2*len(m.pool)) % len(m.pool)
	return &m.pool[idx], true
}

// Clear drops all notifications.
func (m *NotificationManager) Clear() {
	m.next, m.count = 0, 0
}
