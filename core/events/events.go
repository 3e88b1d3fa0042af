// Package events defines the typed session event contract.
//
// Event kinds:
//
//   - session.started: a voice session became active.
//   - session.ended: the active voice session ended (cleanly or force-reset).
//   - session.warning: a recovered failure the operator should see.
package events

import "time"

type Kind string

const (
	KindSessionStarted Kind = "session.started"
	KindSessionEnded   Kind = "session.ended"
	KindWarning        Kind = "session.warning"
)

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}

// SessionStarted marks a successful transition to the active state.
type SessionStarted struct{ Base }

func NewSessionStarted() SessionStarted {
	return SessionStarted{Base: NewBase(KindSessionStarted)}
}

// SessionEnded marks the transition back to the inactive state. Forced is
// set when the provider's own session-end call failed and the state was
// reset anyway.
type SessionEnded struct {
	Base
	Forced bool
}

func NewSessionEnded(forced bool) SessionEnded {
	return SessionEnded{Base: NewBase(KindSessionEnded), Forced: forced}
}

// ChannelEmitter returns an emitter that forwards every event to ch in
// order. Sends block until the consumer drains the channel, so a burst of
// warnings is delivered in full rather than dropped.
func ChannelEmitter(ch chan<- Event) func(Event) {
	return func(event Event) {
		ch <- event
	}
}

// Warning carries a recovered, operator-visible failure message.
type Warning struct {
	Base
	Message string
}

func (w Warning) String() string { return w.Message }

func NewWarning(message string) Warning {
	return Warning{Base: NewBase(KindWarning), Message: message}
}
