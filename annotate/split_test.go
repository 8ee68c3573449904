package annotate

import (
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"hilite/common"
)

func TestActiveLabels(t *testing.T) {
	l := newActiveLabels()
	l.add("A")
	l.add("B")
	l.add("A")
	if got := l.union(); got != "A B" {
		t.Fatalf("union() = %q, want %q", got, "A B")
	}
	if !l.remove("A") {
		t.Fatal("remove(A) = false, want true")
	}
	if got := l.union(); got != "A B" {
		t.Errorf("union() after first remove = %q, want %q", got, "A B")
	}
	l.remove("A")
	if got := l.union(); got != "B" {
		t.Errorf("union() after second remove = %q, want %q", got, "B")
	}
	if l.remove("C") {
		t.Error("remove(C) = true for label never added")
	}
	l.remove("B")
	if !l.empty() {
		t.Errorf("expected empty set, have %v", l.labels())
	}
	if len(l.count) != 0 {
		t.Errorf("counts not cleaned up: %v", l.count)
	}
}

func TestSplit_Overlap(t *testing.T) {
	got, err := Split(Events([]Span{
		{Class: "A", Start: 0, End: 5},
		{Class: "B", Start: 3, End: 8},
	}))
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	want := []SplitTagEvent{
		{Pos: 0, Opening: true, Class: "A"},
		{Pos: 3, Class: "A"},
		{Pos: 3, Opening: true, Class: "A B"},
		{Pos: 5, Class: "A"},
		{Pos: 5, Opening: true, Class: "B"},
		{Pos: 8, Class: "B"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Split() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestSplit_TrailingOnlyOnRealClose(t *testing.T) {
	got, err := Split([]TagEvent{
		{Pos: 0, Opening: true, Class: "R", Kind: KindRelation},
		{Pos: 2, Opening: true, Class: "E"},
		{Pos: 4, Class: "R", Kind: KindRelation, Trailing: "(t:p)"},
		{Pos: 6, Class: "E"},
	})
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	var trailing []string
	for _, ev := range got {
		if len(ev.Trailing) > 0 {
			trailing = append(trailing, ev.Class+ev.Trailing)
		}
	}
	if !slices.Equal(trailing, []string{"R(t:p)"}) {
		t.Errorf("trailing text emitted as %v", trailing)
	}
}

func TestSplit_Imbalance(t *testing.T) {
	tests := []struct {
		name         string
		events       []TagEvent
		class        string
		unterminated []string
	}{
		{
			name: "double close",
			events: []TagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 2, Class: "A"},
				{Pos: 4, Class: "A"},
			},
			class: "A",
		},
		{
			name: "close never opened",
			events: []TagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 2, Class: "B"},
			},
			class: "B",
		},
		{
			name: "unterminated",
			events: []TagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 1, Opening: true, Class: "B"},
				{Pos: 2, Class: "A"},
			},
			unterminated: []string{"B"},
		},
	}

	for _, tt := range tests {
		for name, fn := range map[string]func([]TagEvent) ([]SplitTagEvent, error){"flatten": Split, "nest": Nest} {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				out, err := fn(tt.events)
				if out != nil {
					t.Errorf("expected no output, got %+v", out)
				}
				var ie *SpanImbalanceError
				if !errors.As(err, &ie) {
					t.Fatalf("expected SpanImbalanceError, got %v", err)
				}
				if ie.Class != tt.class {
					t.Errorf("Class = %q, want %q", ie.Class, tt.class)
				}
				if !slices.Equal(ie.Unterminated, tt.unterminated) {
					t.Errorf("Unterminated = %v, want %v", ie.Unterminated, tt.unterminated)
				}
			})
		}
	}
}

func TestSplit_BestEffort(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	a := New(WithPolicy(common.PolicyBestEffort), WithLogger(zap.New(core)))

	got, err := split([]TagEvent{
		{Pos: 0, Opening: true, Class: "A"},
		{Pos: 3, Class: "B"},
	}, 10, a.imbalance)
	if err != nil {
		t.Fatalf("split() error: %v", err)
	}
	want := []SplitTagEvent{
		{Pos: 0, Opening: true, Class: "A"},
		{Pos: 10, Class: "A"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("split() =\n%+v\nwant\n%+v", got, want)
	}
	if n := logs.FilterMessage("Ignoring unbalanced span").Len(); n != 2 {
		t.Errorf("expected 2 warnings, got %d", n)
	}
}

func TestNest(t *testing.T) {
	tests := []struct {
		name  string
		spans []Span
		want  []SplitTagEvent
	}{
		{
			name:  "nested without overlap",
			spans: []Span{{Class: "A", Start: 0, End: 10}, {Class: "B", Start: 2, End: 4}},
			want: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 2, Opening: true, Class: "B"},
				{Pos: 4, Class: "B"},
				{Pos: 10, Class: "A"},
			},
		},
		{
			name:  "crossing",
			spans: []Span{{Class: "A", Start: 0, End: 5}, {Class: "B", Start: 3, End: 8}},
			want: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 3, Opening: true, Class: "B"},
				{Pos: 5, Class: "B"},
				{Pos: 5, Class: "A"},
				{Pos: 5, Opening: true, Class: "B"},
				{Pos: 8, Class: "B"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Nest(Events(tt.spans))
			if err != nil {
				t.Fatalf("Nest() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Nest() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestCollapse(t *testing.T) {
	tests := []struct {
		name string
		in   []SplitTagEvent
		want []SplitTagEvent
	}{
		{
			name: "zero width segment",
			in: []SplitTagEvent{
				{Pos: 2, Opening: true, Class: "E"},
				{Pos: 2, Class: "E"},
				{Pos: 2, Opening: true, Class: "E R"},
				{Pos: 5, Class: "R", Trailing: "(t:p)"},
				{Pos: 5, Opening: true, Class: "E"},
				{Pos: 5, Class: "E"},
			},
			want: []SplitTagEvent{
				{Pos: 2, Opening: true, Class: "E R"},
				{Pos: 5, Class: "R", Trailing: "(t:p)"},
			},
		},
		{
			name: "reopen of same class cascades",
			in: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 3, Class: "A"},
				{Pos: 3, Opening: true, Class: "A Z"},
				{Pos: 3, Class: "Z"},
				{Pos: 3, Opening: true, Class: "A"},
				{Pos: 5, Class: "A"},
			},
			want: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 5, Class: "A"},
			},
		},
		{
			name: "trailing text keeps empty segment",
			in: []SplitTagEvent{
				{Pos: 3, Opening: true, Class: "R"},
				{Pos: 3, Class: "R", Trailing: "(t:p)"},
			},
			want: []SplitTagEvent{
				{Pos: 3, Opening: true, Class: "R"},
				{Pos: 3, Class: "R", Trailing: "(t:p)"},
			},
		},
		{
			name: "real close is not merged into wider segment",
			in: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "D"},
				{Pos: 1, Class: "D"},
				{Pos: 1, Opening: true, Class: "D C"},
				{Pos: 5, Class: "C"},
				{Pos: 5, Opening: true, Class: "D"},
				{Pos: 5, Class: "D"},
				{Pos: 5, Opening: true, Class: "C"},
				{Pos: 8, Class: "C"},
			},
			want: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "D"},
				{Pos: 1, Class: "D"},
				{Pos: 1, Opening: true, Class: "D C"},
				{Pos: 5, Class: "C"},
				{Pos: 5, Opening: true, Class: "C"},
				{Pos: 8, Class: "C"},
			},
		},
		{
			name: "zero width input span is kept",
			in: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 3, Class: "A"},
				{Pos: 3, Opening: true, Class: "A Z", ZeroWidth: true},
				{Pos: 3, Class: "Z", ZeroWidth: true},
				{Pos: 3, Opening: true, Class: "A"},
				{Pos: 5, Class: "A"},
			},
			want: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 3, Class: "A"},
				{Pos: 3, Opening: true, Class: "A Z", ZeroWidth: true},
				{Pos: 3, Class: "Z", ZeroWidth: true},
				{Pos: 3, Opening: true, Class: "A"},
				{Pos: 5, Class: "A"},
			},
		},
		{
			name: "zero width segment is not merged into same class",
			in: []SplitTagEvent{
				{Pos: 4, Opening: true, Class: "Z", ZeroWidth: true},
				{Pos: 4, Class: "Z", ZeroWidth: true},
				{Pos: 4, Opening: true, Class: "Z"},
				{Pos: 6, Class: "Z"},
			},
			want: []SplitTagEvent{
				{Pos: 4, Opening: true, Class: "Z", ZeroWidth: true},
				{Pos: 4, Class: "Z", ZeroWidth: true},
				{Pos: 4, Opening: true, Class: "Z"},
				{Pos: 6, Class: "Z"},
			},
		},
		{
			name: "different class is kept",
			in: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 3, Class: "A"},
				{Pos: 3, Opening: true, Class: "B"},
				{Pos: 5, Class: "B"},
			},
			want: []SplitTagEvent{
				{Pos: 0, Opening: true, Class: "A"},
				{Pos: 3, Class: "A"},
				{Pos: 3, Opening: true, Class: "B"},
				{Pos: 5, Class: "B"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collapse(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("Collapse() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}
