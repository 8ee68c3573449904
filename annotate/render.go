package annotate

import (
	"strings"

	"golang.org/x/net/html"
)

// RenderOptions controls markup generation.
type RenderOptions struct {
	// Escape HTML-escapes literal text and trailing text. Class attributes
	// are always escaped.
	Escape bool
}

// Fragment is a piece of rendered output: either a slice of the source text
// (Literal) or generated markup including trailing text.
type Fragment struct {
	Literal bool
	Text    string
}

// Fragments walks text and events interleaving literal slices with markup.
// Joining all literal fragments (after unescaping, when Escape is set)
// reproduces text exactly.
func Fragments(text string, events []SplitTagEvent, opts RenderOptions) []Fragment {
	out := make([]Fragment, 0, 2*len(events)+1)
	render(text, events, opts, func(f Fragment) {
		out = append(out, f)
	})
	return out
}

// Render produces annotated text.
func Render(text string, events []SplitTagEvent, opts RenderOptions) string {
	var b strings.Builder
	b.Grow(len(text) + 32*len(events))
	render(text, events, opts, func(f Fragment) {
		b.WriteString(f.Text)
	})
	return b.String()
}

func render(text string, events []SplitTagEvent, opts RenderOptions, emit func(Fragment)) {
	literal := func(s string) {
		if len(s) == 0 {
			return
		}
		if opts.Escape {
			s = html.EscapeString(s)
		}
		emit(Fragment{Literal: true, Text: s})
	}

	cursor := 0
	for _, ev := range events {
		if pos := min(ev.Pos, len(text)); pos > cursor {
			literal(text[cursor:pos])
			cursor = pos
		}
		if ev.Opening {
			emit(Fragment{Text: `<span class="` + html.EscapeString(ev.Class) + `">`})
			continue
		}
		trailing := ev.Trailing
		if opts.Escape {
			trailing = html.EscapeString(trailing)
		}
		emit(Fragment{Text: trailing + "</span>"})
	}
	literal(text[cursor:])
}
