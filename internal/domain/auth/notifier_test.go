package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_PublishInSubscriptionOrder(t *testing.T) {
	n := NewNotifier()
	var got []string

	n.Subscribe(func(ev Event) { got = append(got, "first:"+string(ev.Kind)) })
	n.Subscribe(func(ev Event) { got = append(got, "second:"+string(ev.Kind)) })

	n.Publish(Event{Kind: EventAuthChanged, Authenticated: true})
	n.Publish(Event{Kind: EventSessionEnded})

	assert.Equal(t, []string{
		"first:auth_changed",
		"second:auth_changed",
		"first:session_ended",
		"second:session_ended",
	}, got)
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := NewNotifier()
	calls := 0

	unsub := n.Subscribe(func(Event) { calls++ })
	n.Publish(Event{Kind: EventAuthChanged})
	unsub()
	unsub()
	n.Publish(Event{Kind: EventAuthChanged})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, n.Len())
}

func TestNotifier_NilListener(t *testing.T) {
	n := NewNotifier()
	unsub := n.Subscribe(nil)
	unsub()
	assert.Equal(t, 0, n.Len())
	assert.NotPanics(t, func() { n.Publish(Event{Kind: EventSessionEnded}) })
}

func TestNotifier_ListenerMayReadAndUnsubscribe(t *testing.T) {
	n := NewNotifier()
	var unsub func()
	calls := 0
	unsub = n.Subscribe(func(Event) {
		calls++
		unsub()
	})

	n.Publish(Event{Kind: EventAuthChanged})
	n.Publish(Event{Kind: EventAuthChanged})

	assert.Equal(t, 1, calls)
}
