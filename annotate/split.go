package annotate

import (
	"slices"
	"strings"
)

// activeLabels is a multiset of labels covering the current position. Labels
// keep the order in which they became active, a label leaves the set as soon
// as its count drops to zero.
type activeLabels struct {
	order []string
	count map[string]int
}

func newActiveLabels() *activeLabels {
	return &activeLabels{count: make(map[string]int)}
}

func (l *activeLabels) empty() bool {
	return len(l.order) == 0
}

func (l *activeLabels) add(class string) {
	if l.count[class] == 0 {
		l.order = append(l.order, class)
	}
	l.count[class]++
}

// remove returns false if class was not active.
func (l *activeLabels) remove(class string) bool {
	n := l.count[class]
	if n == 0 {
		return false
	}
	if n > 1 {
		l.count[class] = n - 1
		return true
	}
	delete(l.count, class)
	l.order = slices.DeleteFunc(l.order, func(c string) bool { return c == class })
	return true
}

func (l *activeLabels) union() string {
	return strings.Join(l.order, " ")
}

func (l *activeLabels) labels() []string {
	return slices.Clone(l.order)
}

// imbalanceHandler decides what to do with inconsistent events: returning
// non-nil error stops processing.
type imbalanceHandler func(err *SpanImbalanceError) error

func failOnImbalance(err *SpanImbalanceError) error {
	return err
}

// Split consumes ordered tag events and produces non-overlapping segments.
// Every segment is classed with the union of all labels active over it, so
// A=[0,5) and B=[3,8) become "A" [0,3), "A B" [3,5) and "B" [5,8). Closing a
// label which is not open or leaving labels open results in
// SpanImbalanceError.
func Split(events []TagEvent) ([]SplitTagEvent, error) {
	return split(events, 0, failOnImbalance)
}

func split(events []TagEvent, end int, onImbalance imbalanceHandler) ([]SplitTagEvent, error) {
	active := newActiveLabels()
	out := make([]SplitTagEvent, 0, 2*len(events))

	for _, ev := range events {
		if ev.Opening {
			if !active.empty() {
				// close combined span before new label joins
				out = append(out, SplitTagEvent{Pos: ev.Pos, Class: active.union()})
			}
			active.add(ev.Class)
			out = append(out, SplitTagEvent{Pos: ev.Pos, Opening: true, Class: active.union(), ZeroWidth: ev.ZeroWidth})
			continue
		}

		if !active.remove(ev.Class) {
			if err := onImbalance(&SpanImbalanceError{Pos: ev.Pos, Class: ev.Class}); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, SplitTagEvent{Pos: ev.Pos, Class: ev.Class, Trailing: ev.Trailing, ZeroWidth: ev.ZeroWidth})
		if !active.empty() {
			out = append(out, SplitTagEvent{Pos: ev.Pos, Opening: true, Class: active.union()})
		}
	}

	if !active.empty() {
		pos := max(end, lastPos(events))
		if err := onImbalance(&SpanImbalanceError{Pos: pos, Unterminated: active.labels()}); err != nil {
			return nil, err
		}
		out = append(out, SplitTagEvent{Pos: pos, Class: active.union()})
	}
	return out, nil
}

// Nest consumes ordered tag events and keeps a tag per label. Only spans which
// actually cross are split: closing a label which is not innermost closes
// everything opened inside of it and reopens those labels right after. Nested
// spans without overlap come out as plain bracket nesting.
func Nest(events []TagEvent) ([]SplitTagEvent, error) {
	return nest(events, 0, failOnImbalance)
}

func nest(events []TagEvent, end int, onImbalance imbalanceHandler) ([]SplitTagEvent, error) {
	var stack []string
	out := make([]SplitTagEvent, 0, 2*len(events))

	for _, ev := range events {
		if ev.Opening {
			stack = append(stack, ev.Class)
			out = append(out, SplitTagEvent{Pos: ev.Pos, Opening: true, Class: ev.Class, ZeroWidth: ev.ZeroWidth})
			continue
		}

		i := lastIndex(stack, ev.Class)
		if i < 0 {
			if err := onImbalance(&SpanImbalanceError{Pos: ev.Pos, Class: ev.Class}); err != nil {
				return nil, err
			}
			continue
		}
		inner := slices.Clone(stack[i+1:])
		for j := len(stack) - 1; j > i; j-- {
			out = append(out, SplitTagEvent{Pos: ev.Pos, Class: stack[j]})
		}
		out = append(out, SplitTagEvent{Pos: ev.Pos, Class: ev.Class, Trailing: ev.Trailing, ZeroWidth: ev.ZeroWidth})
		stack = append(stack[:i], inner...)
		for _, class := range inner {
			out = append(out, SplitTagEvent{Pos: ev.Pos, Opening: true, Class: class})
		}
	}

	if len(stack) > 0 {
		pos := max(end, lastPos(events))
		if err := onImbalance(&SpanImbalanceError{Pos: pos, Unterminated: slices.Clone(stack)}); err != nil {
			return nil, err
		}
		for j := len(stack) - 1; j >= 0; j-- {
			out = append(out, SplitTagEvent{Pos: pos, Class: stack[j]})
		}
	}
	return out, nil
}

// Collapse removes segments the splitters leave covering nothing: an opening
// immediately followed by a closing at the same position without trailing
// text, and a closing immediately followed by reopening of the very segment
// it closed. Segments of zero width input spans (ZeroWidth) are kept.
func Collapse(events []SplitTagEvent) []SplitTagEvent {
	type item struct {
		SplitTagEvent
		segment string // class of the segment closed by this event
	}
	var (
		out  = make([]item, 0, len(events))
		open []string
	)
	for _, ev := range events {
		if n := len(out); n > 0 && out[n-1].Pos == ev.Pos {
			last := out[n-1]
			switch {
			case last.Opening && !ev.Opening && len(ev.Trailing) == 0 && !(last.ZeroWidth && ev.ZeroWidth):
				out = out[:n-1]
				open = open[:len(open)-1]
				continue
			case !last.Opening && len(last.Trailing) == 0 && ev.Opening && last.segment == ev.Class && !last.ZeroWidth && !ev.ZeroWidth:
				out = out[:n-1]
				open = append(open, last.segment)
				continue
			}
		}
		it := item{SplitTagEvent: ev}
		if ev.Opening {
			open = append(open, ev.Class)
		} else if len(open) > 0 {
			it.segment = open[len(open)-1]
			open = open[:len(open)-1]
		}
		out = append(out, it)
	}

	res := make([]SplitTagEvent, len(out))
	for i := range out {
		res[i] = out[i].SplitTagEvent
	}
	return res
}

func lastIndex(stack []string, class string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == class {
			return i
		}
	}
	return -1
}

func lastPos(events []TagEvent) int {
	if len(events) == 0 {
		return 0
	}
	return events[len(events)-1].Pos
}
