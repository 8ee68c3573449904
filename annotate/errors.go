package annotate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoOffsets      = errors.New("record has no offsets")
	ErrBadOffsets     = errors.New("offsets must be a [start, end] pair")
	ErrInvertedBounds = errors.New("start is past end")
	ErrOutOfRange     = errors.New("bounds are outside of the text")
	ErrSplitRune      = errors.New("offset falls inside of a surrogate pair")
	ErrEmptyClass     = errors.New("empty class name")
)

// MalformedSpanError is returned for spans which cannot be placed over the
// text. Index is the position of the offending record in its own collection
// (entities or relations) or in the span list when spans were supplied
// directly.
type MalformedSpanError struct {
	Index int
	Span  Span
	Err   error
}

func (e *MalformedSpanError) Error() string {
	return fmt.Sprintf("malformed %s #%d %q [%d, %d): %v", e.Span.Kind, e.Index, e.Span.Class, e.Span.Start, e.Span.End, e.Err)
}

func (e *MalformedSpanError) Unwrap() error {
	return e.Err
}

// SpanImbalanceError signals inconsistent tag events: either Class was closed
// at Pos while not open, or Unterminated labels were still open after the last
// event.
type SpanImbalanceError struct {
	Pos          int
	Class        string
	Unterminated []string
}

func (e *SpanImbalanceError) Error() string {
	if len(e.Unterminated) > 0 {
		return fmt.Sprintf("unterminated labels at %d: %s", e.Pos, strings.Join(e.Unterminated, ", "))
	}
	return fmt.Sprintf("closing label %q at %d which is not open", e.Class, e.Pos)
}
