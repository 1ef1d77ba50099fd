// SPDX-License-Identifier: EPL-2.0

package sound

// Reason tells why an entry ended.
type Reason int

const (
	ReasonCompleted Reason = iota
	ReasonStopped
	// ReasonReplaced: the entity started another sound.
	ReasonReplaced
	// ReasonFlushed: the allocator needed the entry's slot type.
	ReasonFlushed
	// ReasonFaded: a demoted entry finished its fade-out.
	ReasonFaded
	ReasonUnavailable
	// ReasonDropped: the arena refused the entry and DropUncached is set.
	ReasonDropped
	// ReasonInvalid: the stream failed to decode.
	ReasonInvalid
)

var reasonNames = [...]string{
	ReasonCompleted:   "completed",
	ReasonStopped:     "stopped",
	ReasonReplaced:    "replaced",
	ReasonFlushed:     "flushed",
	ReasonFaded:       "faded",
	ReasonUnavailable: "unavailable",
	ReasonDropped:     "dropped",
	ReasonInvalid:     "invalid",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return "unknown"
	}
	return reasonNames[r]
}

// Notification tells the scripting layer that a bound sound ended.
type Notification struct {
	Entity string
	Name   string
	Reason Reason
}

// notifies reports whether ending a sound bound to entity is announced.
func (c Config) notifies(entity string) bool {
	switch entity {
	case "", NoEntity, BackgroundEntity:
		return false
	}
	return !c.isSinkEntity(entity)
}

// queueNotification records the end of e at most once. Caller holds q.mu.
func (q *Queue) queueNotification(e *Entry, reason Reason) {
	if e.notified {
		return
	}
	e.notified = true

	if !q.cfg.notifies(e.Entity) {
		return
	}

	q.pending = append(q.pending, Notification{Entity: e.Entity, Name: e.Name, Reason: reason})
	q.stats.notifications++
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// DrainNotifications returns and forgets the undelivered notifications.
func (q *Queue) DrainNotifications() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = nil
	return out
}

// Notifications is fed by Run when no Config.Listener is set. It is
// closed when Run returns.
func (q *Queue) Notifications() <-chan Notification {
	return q.notifyC
}
