package session

import "time"

// Ticket identifies one scheduled recomputation
type Ticket uint64

// Debouncer tracks the latest scheduled recomputation. It holds no timer;
// the event loop delivers the ticket back after Delay and asks Fire whether
// it is still current. Every Schedule or Cancel invalidates older tickets.
type Debouncer struct {
	Delay time.Duration
	seq   uint64
}

// NewDebouncer creates a debouncer; a zero delay disables debouncing
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{Delay: delay}
}

// Enabled reports whether recomputations should be deferred
func (d *Debouncer) Enabled() bool {
	return d != nil && d.Delay > 0
}

// Schedule returns a ticket that supersedes all earlier ones
func (d *Debouncer) Schedule() Ticket {
	d.seq++
	return Ticket(d.seq)
}

// Cancel invalidates every outstanding ticket
func (d *Debouncer) Cancel() {
	d.seq++
}

// Fire reports whether t is the latest ticket, consuming it
func (d *Debouncer) Fire(t Ticket) bool {
	if uint64(t) != d.seq {
		return false
	}
	d.seq++
	return true
}
