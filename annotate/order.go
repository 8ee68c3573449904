package annotate

import (
	"cmp"
	"slices"
)

// SortSpans orders spans by start ascending and, for equal starts, by end
// descending so the wider span always becomes the outer one. Spans equal on
// both bounds keep their relative order.
func SortSpans(spans []Span) {
	slices.SortStableFunc(spans, func(a, b Span) int {
		return cmp.Or(
			cmp.Compare(a.Start, b.Start),
			cmp.Compare(b.End, a.End),
		)
	})
}

// ordering phases of events sharing a position
const (
	phaseClose = iota
	phaseEmpty // both boundaries of zero width spans
	phaseOpen
)

type event struct {
	TagEvent
	phase int
	start int
	seq   int
}

// Events expands spans into opening and closing events and orders them by
// position. At the same position closing events go first. Opening events put
// entities before relations and then follow span order.
//
// Closing events do not repeat the entity first rule, they mirror opening
// order instead: the span opened later closes first, so a relation sharing
// bounds with an entity closes inside of it. Boundaries meeting at one
// position never cross this way.
//
// Zero width spans are placed between closes and opens with their own open
// right before their close.
func Events(spans []Span) []TagEvent {
	evs := make([]event, 0, 2*len(spans))
	for i, s := range spans {
		openPhase, closePhase := phaseOpen, phaseClose
		empty := s.Empty()
		if empty {
			openPhase, closePhase = phaseEmpty, phaseEmpty
		}
		evs = append(evs,
			event{TagEvent: TagEvent{Pos: s.Start, Opening: true, Class: s.Class, Kind: s.Kind, ZeroWidth: empty}, phase: openPhase, start: s.Start, seq: i},
			event{TagEvent: TagEvent{Pos: s.End, Class: s.Class, Kind: s.Kind, Trailing: s.Trailing, ZeroWidth: empty}, phase: closePhase, start: s.Start, seq: i},
		)
	}
	slices.SortFunc(evs, compareEvents)

	out := make([]TagEvent, len(evs))
	for i := range evs {
		out[i] = evs[i].TagEvent
	}
	return out
}

func compareEvents(a, b event) int {
	if c := cmp.Or(cmp.Compare(a.Pos, b.Pos), cmp.Compare(a.phase, b.phase)); c != 0 {
		return c
	}
	switch a.phase {
	case phaseClose:
		return cmp.Or(
			cmp.Compare(b.start, a.start),
			cmp.Compare(b.Kind, a.Kind),
			cmp.Compare(b.seq, a.seq),
		)
	case phaseEmpty:
		return cmp.Or(
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.seq, b.seq),
			openingFirst(a.Opening, b.Opening),
		)
	default:
		return cmp.Or(
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.seq, b.seq),
		)
	}
}

func openingFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
