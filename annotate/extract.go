package annotate

import (
	"strings"

	"go.uber.org/multierr"
)

// Document is a single unit of work: source text and records produced for it
// by NLP pipeline. Either record collection may be absent.
type Document struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Text      string     `json:"text" yaml:"text"`
	Entities  []Entity   `json:"entities,omitempty" yaml:"entities,omitempty"`
	Relations []Relation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Entity is a recognized entity mention. Only the first offsets pair is used.
type Entity struct {
	ID      string  `json:"id" yaml:"id"`
	Type    string  `json:"type" yaml:"type"`
	Offsets [][]int `json:"offsets" yaml:"offsets"`
}

// Relation is a recognized relation between entities. Only the first offsets
// pair is used.
type Relation struct {
	PatternID string  `json:"pattern_id" yaml:"pattern_id"`
	Type      string  `json:"type" yaml:"type"`
	Offsets   [][]int `json:"offsets" yaml:"offsets"`
}

// Extract builds spans out of document records using default settings. Span
// bounds are taken verbatim, they are checked against text later in the
// pipeline.
func Extract(doc Document, classes ClassMapper) ([]Span, error) {
	spans, _, err := New(WithClasses(classes)).extract(doc)
	if err != nil {
		return nil, err
	}
	return spans, nil
}

func firstPair(offsets [][]int) (int, int, error) {
	if len(offsets) == 0 {
		return 0, 0, ErrNoOffsets
	}
	if len(offsets[0]) != 2 {
		return 0, 0, ErrBadOffsets
	}
	return offsets[0][0], offsets[0][1], nil
}

// extract returns spans (entities first, then relations) along with index of
// the record every span came from.
func (a *Annotator) extract(doc Document) (spans []Span, origins []int, err error) {
	spans = make([]Span, 0, len(doc.Entities)+len(doc.Relations))
	origins = make([]int, 0, cap(spans))

	for i, ent := range doc.Entities {
		sp := Span{Class: a.classes.ClassName(ent.Type), Kind: KindEntity}
		var e error
		if sp.Start, sp.End, e = firstPair(ent.Offsets); e == nil && len(sp.Class) == 0 {
			e = ErrEmptyClass
		}
		if e != nil {
			err = multierr.Append(err, a.reject(&MalformedSpanError{Index: i, Span: sp, Err: e}))
			continue
		}
		spans = append(spans, sp)
		origins = append(origins, i)
	}

	// Relations sharing bounds collapse into a single span, their details are
	// concatenated in order of appearance.
	type group struct {
		span  Span
		index int
		types []string
		ids   []string
	}
	var (
		groups   []*group
		byBounds = make(map[[2]int]*group)
	)
	for i, rel := range doc.Relations {
		start, end, e := firstPair(rel.Offsets)
		if e != nil {
			sp := Span{Class: a.relationClass, Kind: KindRelation}
			err = multierr.Append(err, a.reject(&MalformedSpanError{Index: i, Span: sp, Err: e}))
			continue
		}
		key := [2]int{start, end}
		g, ok := byBounds[key]
		if !ok {
			g = &group{
				span:  Span{Class: a.relationClass, Start: start, End: end, Kind: KindRelation},
				index: i,
			}
			byBounds[key] = g
			groups = append(groups, g)
		}
		g.types = append(g.types, rel.Type)
		g.ids = append(g.ids, rel.PatternID)
	}
	for _, g := range groups {
		g.span.Trailing = "(" + strings.Join(g.types, ",") + ":" + strings.Join(g.ids, ",") + ")"
		spans = append(spans, g.span)
		origins = append(origins, g.index)
	}
	return spans, origins, err
}
