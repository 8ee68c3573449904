// Package annotate turns labeled, possibly overlapping intervals over a text
// into a single linear markup string where every interval is represented by
// properly nested, non-overlapping spans.
//
// Processing runs strictly left to right: spans are extracted from entity and
// relation records, ordered, expanded into open/close tag events, split where
// they overlap and finally rendered together with the original text.
package annotate

import "fmt"

// Kind tells entity spans from relation spans.
type Kind int

const (
	KindEntity Kind = iota
	KindRelation
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindRelation:
		return "relation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Span is a labeled half-open interval [Start, End) over the source text.
// Trailing is written right before the closing tag, relations use it to show
// pattern metadata after the highlighted text.
type Span struct {
	Class    string
	Start    int
	End      int
	Kind     Kind
	Trailing string
}

// Empty reports whether span covers no characters.
func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%s %q [%d, %d)", s.Kind, s.Class, s.Start, s.End)
}

// TagEvent is an opening or closing boundary of a single span. ZeroWidth
// marks both boundaries of a span covering no characters.
type TagEvent struct {
	Pos       int
	Opening   bool
	Class     string
	Kind      Kind
	Trailing  string
	ZeroWidth bool
}

// SplitTagEvent is a boundary of an output segment. Class may be a space
// joined union of several labels. ZeroWidth is carried over from the event
// of a zero width span, Collapse never removes such segments.
type SplitTagEvent struct {
	Pos       int
	Opening   bool
	Class     string
	Trailing  string
	ZeroWidth bool
}
