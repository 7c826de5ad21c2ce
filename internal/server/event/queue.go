// Package event carries the deferred effects that session handlers hand to
// the server for broadcasting once every session has ticked.
package event

// Kind discriminates the event payload.
type Kind uint8

const (
	KindSpawnPlayer Kind = iota
	KindDespawnPlayer
	KindChat
	KindSetBlock
)

// Event is a single deferred effect. Only the fields relevant to Kind are
// set; a flat struct keeps the queue free of per-event allocations.
type Event struct {
	Kind    Kind
	PID     int8
	Text    string
	X, Y, Z int16
	Block   byte
}

// SpawnPlayer announces a freshly authenticated session.
func SpawnPlayer(pid int8) Event {
	return Event{Kind: KindSpawnPlayer, PID: pid}
}

// DespawnPlayer removes a departed session from every client.
func DespawnPlayer(pid int8) Event {
	return Event{Kind: KindDespawnPlayer, PID: pid}
}

// Chat broadcasts a server chat line.
func Chat(text string) Event {
	return Event{Kind: KindChat, Text: text}
}

// SetBlock broadcasts a block mutation.
func SetBlock(x, y, z int16, block byte) Event {
	return Event{Kind: KindSetBlock, X: x, Y: y, Z: z, Block: block}
}

// Queue collects events during per-session ingress and is drained from the
// tail (newest first) at the end of the tick.
type Queue struct {
	events []Event
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// PopBack removes and returns the newest event. The second result is false
// when the queue is empty.
func (q *Queue) PopBack() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[len(q.events)-1]
	q.events = q.events[:len(q.events)-1]
	return e, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}
