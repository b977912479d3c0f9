package indextree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}

func TestEventsSubscribeAndUnsubscribe(t *testing.T) {
	var e Events
	var got []Event
	unsubscribe := e.Subscribe(func(ev Event) { got = append(got, ev) })

	e.emit(Event{Kind: Added, Path: MustParsePath("/a")})
	unsubscribe()
	e.emit(Event{Kind: Removed, Path: MustParsePath("/b")})

	assert.Len(t, got, 1)
	assert.Equal(t, Added, got[0].Kind)
}

func TestEventsMultipleSubscribers(t *testing.T) {
	var e Events
	var a, b int
	e.Subscribe(func(Event) { a++ })
	e.Subscribe(func(Event) { b++ })
	e.emit(Event{Kind: Added, Path: MustParsePath("/a")})
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestLoggingSubscriberDoesNotPanic(t *testing.T) {
	sub := LoggingSubscriber(nil)
	assert.NotPanics(t, func() {
		sub(Event{Kind: Updated, Path: MustParsePath("/a")})
	})
}
