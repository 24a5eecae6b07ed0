package testutil

import (
	"sync"

	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/presentation"
)

// EventKind identifies the Sink method that produced an Event.
type EventKind string

const (
	EventNotify       EventKind = "notify"
	EventCue          EventKind = "cue"
	EventProgress     EventKind = "progress"
	EventClear        EventKind = "clear"
	EventShowBlock    EventKind = "show-block"
	EventRestoreBlock EventKind = "restore-block"
)

// Event is one recorded Sink call.
type Event struct {
	Kind         EventKind
	Participant  string
	Key          string
	Placeholders []string
	Cue          presentation.Cue
	Progress     presentation.Progress
	Priority     int
	Block        geom.Block
	Material     geom.Material
	Variant      int
}

// RecordingSink is a presentation.Sink that remembers every call.
type RecordingSink struct {
	events []Event
	mu     sync.Mutex
}

var _ presentation.Sink = (*RecordingSink)(nil)

func (r *RecordingSink) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

func (r *RecordingSink) Notify(participant, key string, placeholders ...string) {
	r.record(Event{
		Kind:         EventNotify,
		Participant:  participant,
		Key:          key,
		Placeholders: placeholders,
	})
}

func (r *RecordingSink) PlayCue(participant string, cue presentation.Cue) {
	r.record(Event{Kind: EventCue, Participant: participant, Cue: cue})
}

func (r *RecordingSink) SetProgressWidget(participant string, priority int, p presentation.Progress) {
	r.record(Event{
		Kind:        EventProgress,
		Participant: participant,
		Priority:    priority,
		Progress:    p,
	})
}

func (r *RecordingSink) ClearProgressWidget(participant string, priority int) {
	r.record(Event{Kind: EventClear, Participant: participant, Priority: priority})
}

func (r *RecordingSink) ShowBlock(participant string, block geom.Block, material geom.Material, variant int) {
	r.record(Event{
		Kind:        EventShowBlock,
		Participant: participant,
		Block:       block,
		Material:    material,
		Variant:     variant,
	})
}

func (r *RecordingSink) RestoreBlock(participant string, block geom.Block) {
	r.record(Event{Kind: EventRestoreBlock, Participant: participant, Block: block})
}

// Events returns a copy of everything recorded so far.
func (r *RecordingSink) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)

	return out
}

// Of returns the recorded events of the given kind.
func (r *RecordingSink) Of(kind EventKind) []Event {
	var out []Event

	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}

	return out
}

// Keys returns the message keys notified so far, in order.
func (r *RecordingSink) Keys() []string {
	var keys []string

	for _, e := range r.Of(EventNotify) {
		keys = append(keys, e.Key)
	}

	return keys
}

// Cues returns the cues played so far, in order.
func (r *RecordingSink) Cues() []presentation.Cue {
	var cues []presentation.Cue

	for _, e := range r.Of(EventCue) {
		cues = append(cues, e.Cue)
	}

	return cues
}

// Reset forgets all recorded events.
func (r *RecordingSink) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}
