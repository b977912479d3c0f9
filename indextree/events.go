package indextree

import log "github.com/sirupsen/logrus"

// EventKind identifies which of the three directory-lifecycle events
// fired.
type EventKind int

const (
	// Added fires when a new indexing root is registered.
	Added EventKind = iota
	// Removed fires when a root's last owner departs and the node is
	// torn down.
	Removed
	// Updated fires when a root's derived flags change because an owner
	// was added to or removed from an existing node.
	Updated
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously, within the mutating call that caused
// it, to every subscriber registered on an Events sink.
type Event struct {
	Kind EventKind
	Path Path
}

// Subscriber receives events. It must not mutate the tree that produced
// the event: re-entrant mutation during delivery is a programming error
// (a contract, not something this package enforces).
type Subscriber func(Event)

// Events is a synchronous, single-threaded subscriber registry. It has no
// internal locking - callers that mutate a Tree from multiple goroutines
// must serialize those calls themselves, exactly as spec.md §5 requires
// of the tree itself.
type Events struct {
	subscribers []Subscriber
}

// Subscribe registers fn to be called for every subsequent event. It
// returns an unsubscribe function.
func (e *Events) Subscribe(fn Subscriber) (unsubscribe func()) {
	e.subscribers = append(e.subscribers, fn)
	index := len(e.subscribers) - 1
	return func() {
		e.subscribers[index] = nil
	}
}

// emit delivers ev to every live subscriber, in registration order.
func (e *Events) emit(ev Event) {
	for _, fn := range e.subscribers {
		if fn != nil {
			fn(ev)
		}
	}
}

// LoggingSubscriber returns a Subscriber that logs every event at Debug
// level, matching the field-tagged style of the teacher's tree.go
// (log.WithFields(...).Error(...)) applied here to a lifecycle event
// instead of an inconsistency.
func LoggingSubscriber(fields log.Fields) Subscriber {
	return func(ev Event) {
		entry := log.WithFields(log.Fields{
			"event": ev.Kind.String(),
			"path":  ev.Path.String(),
		})
		for k, v := range fields {
			entry = entry.WithField(k, v)
		}
		entry.Debug("directory event")
	}
}
