// Package timefmt produces the wall-clock strings records are stamped
// with. Timestamps are stored as formatted strings at a fixed offset from
// UTC (the site office clock), not as native time values.
package timefmt

import "time"

const (
	// StampLayout is the timestamp layout, e.g. "17-Mar-25 02:41 PM".
	StampLayout = "02-Jan-06 03:04 PM"
	// DateLayout is the date-only layout used in generated documents.
	DateLayout = "02 Jan 2006"
)

// Clock formats the current time at a fixed offset.
type Clock struct {
	offset time.Duration
	now    func() time.Time
}

// New returns a clock at the given offset from UTC.
func New(offset time.Duration) *Clock {
	return &Clock{offset: offset, now: time.Now}
}

// NewFixed returns a clock pinned to t, for tests.
func NewFixed(t time.Time) *Clock {
	return &Clock{now: func() time.Time { return t }}
}

// Stamp returns the current timestamp string.
func (c *Clock) Stamp() string {
	return c.local().Format(StampLayout)
}

// Date returns the current date string.
func (c *Clock) Date() string {
	return c.local().Format(DateLayout)
}

func (c *Clock) local() time.Time {
	return c.now().UTC().Add(c.offset)
}
