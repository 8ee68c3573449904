package annotate

import (
	"hilite/debug"
)

// Trace keeps intermediate results of annotation: resolved spans in order,
// tag events and the final events which are rendered.
type Trace struct {
	Text   string
	Spans  []Span
	Events []TagEvent
	Output []SplitTagEvent
}

// Trace runs the same pipeline Annotate does without rendering.
func (a *Annotator) Trace(doc Document) (*Trace, error) {
	spans, origins, err := a.extract(doc)
	if err != nil {
		return nil, err
	}
	return a.trace(doc.Text, spans, origins)
}

func (t *Trace) String() string {
	tw := debug.NewTreeWriter()
	tw.TextBlock(0, "text", t.Text)

	tw.Section(0, "spans", len(t.Spans))
	for i, sp := range t.Spans {
		tw.Line(1, "#%d %s", i, sp)
		if len(sp.Trailing) > 0 {
			tw.TextBlock(2, "trailing", sp.Trailing)
		}
	}

	tw.Section(0, "events", len(t.Events))
	for _, ev := range t.Events {
		tw.Line(1, "%d %s %s %s", ev.Pos, direction(ev.Opening), ev.Kind, ev.Class)
	}

	tw.Section(0, "output", len(t.Output))
	for _, ev := range t.Output {
		tw.Line(1, "%d %s %q", ev.Pos, direction(ev.Opening), ev.Class)
		if len(ev.Trailing) > 0 {
			tw.TextBlock(2, "trailing", ev.Trailing)
		}
	}
	return tw.String()
}

func direction(opening bool) string {
	if opening {
		return "open"
	}
	return "close"
}
