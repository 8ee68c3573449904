package annotate

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hilite/common"
)

// Annotator runs complete annotation pipeline. It is immutable once created
// and could be shared between goroutines, every call keeps its state local.
type Annotator struct {
	policy        common.Policy
	strategy      common.Strategy
	unit          common.OffsetUnit
	classes       ClassMapper
	relationClass string
	keepEmpty     bool
	escape        bool
	log           *zap.Logger
}

// Option configures Annotator.
type Option func(*Annotator)

// WithPolicy selects between failing on inconsistent input and dropping
// offending spans.
func WithPolicy(p common.Policy) Option {
	return func(a *Annotator) { a.policy = p }
}

func WithStrategy(s common.Strategy) Option {
	return func(a *Annotator) { a.strategy = s }
}

func WithOffsetUnit(u common.OffsetUnit) Option {
	return func(a *Annotator) { a.unit = u }
}

// WithClasses sets entity type to class mapping, nil keeps identifiers as is.
func WithClasses(m ClassMapper) Option {
	return func(a *Annotator) {
		if m != nil {
			a.classes = m
		}
	}
}

func WithRelationClass(class string) Option {
	return func(a *Annotator) {
		if len(class) > 0 {
			a.relationClass = class
		}
	}
}

// WithKeepEmpty preserves segments covering no text which splitting leaves
// at shared boundaries. Zero width input spans are rendered either way.
func WithKeepEmpty(keep bool) Option {
	return func(a *Annotator) { a.keepEmpty = keep }
}

func WithEscape(escape bool) Option {
	return func(a *Annotator) { a.escape = escape }
}

func WithLogger(log *zap.Logger) Option {
	return func(a *Annotator) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates Annotator. Defaults are fail-fast policy, flatten strategy and
// byte offsets.
func New(opts ...Option) *Annotator {
	a := &Annotator{
		classes:       identityClasses,
		relationClass: DefaultRelationClass,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate is a shortcut for annotating document with default settings.
func Annotate(doc Document, classes ClassMapper) (string, error) {
	return New(WithClasses(classes)).Annotate(doc)
}

// Annotate returns document text with all entity and relation spans rendered
// as markup. With fail-fast policy any malformed or unbalanced span results in
// error and no output.
func (a *Annotator) Annotate(doc Document) (string, error) {
	spans, origins, err := a.extract(doc)
	if err != nil {
		return "", err
	}
	return a.annotate(doc.Text, spans, origins)
}

// AnnotateSpans is like Annotate for callers which already have spans. Span
// bounds are expressed in configured offset unit.
func (a *Annotator) AnnotateSpans(text string, spans []Span) (string, error) {
	return a.annotate(text, spans, nil)
}

func (a *Annotator) annotate(text string, spans []Span, origins []int) (string, error) {
	tr, err := a.trace(text, spans, origins)
	if err != nil {
		return "", err
	}
	return a.Markup(tr), nil
}

// Markup renders previously traced annotation.
func (a *Annotator) Markup(tr *Trace) string {
	return Render(tr.Text, tr.Output, RenderOptions{Escape: a.escape})
}

// trace runs pipeline up to rendering.
func (a *Annotator) trace(text string, spans []Span, origins []int) (*Trace, error) {
	spans, err := a.resolve(text, spans, origins)
	if err != nil {
		return nil, err
	}
	tr := &Trace{Text: text, Spans: spans}
	if len(spans) == 0 {
		return tr, nil
	}

	SortSpans(spans)
	tr.Events = Events(spans)

	switch a.strategy {
	case common.StrategyNest:
		tr.Output, err = nest(tr.Events, len(text), a.imbalance)
	default:
		tr.Output, err = split(tr.Events, len(text), a.imbalance)
	}
	if err != nil {
		return nil, err
	}
	if !a.keepEmpty {
		tr.Output = Collapse(tr.Output)
	}

	a.log.Debug("Text annotated",
		zap.Int("spans", len(spans)),
		zap.Int("events", len(tr.Events)),
		zap.Int("segments", len(tr.Output)),
		zap.Stringer("strategy", a.strategy))

	return tr, nil
}

// resolve validates spans against text and converts their bounds to byte
// offsets. Result never shares memory with spans.
func (a *Annotator) resolve(text string, spans []Span, origins []int) ([]Span, error) {
	var (
		err      error
		idx      = newOffsetIndex(text, a.unit)
		resolved = make([]Span, 0, len(spans))
	)
	for i, sp := range spans {
		rs, e := idx.resolve(sp)
		if e == nil && len(sp.Class) == 0 {
			e = ErrEmptyClass
		}
		if e != nil {
			index := i
			if origins != nil {
				index = origins[i]
			}
			err = multierr.Append(err, a.reject(&MalformedSpanError{Index: index, Span: sp, Err: e}))
			continue
		}
		resolved = append(resolved, rs)
	}
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// reject returns err back for fail-fast policy, otherwise logs it so the span
// is skipped.
func (a *Annotator) reject(err *MalformedSpanError) error {
	if a.policy == common.PolicyFailFast {
		return err
	}
	a.log.Warn("Skipping malformed span", zap.Error(err))
	return nil
}

func (a *Annotator) imbalance(err *SpanImbalanceError) error {
	if a.policy == common.PolicyFailFast {
		return err
	}
	a.log.Warn("Ignoring unbalanced span", zap.Error(err))
	return nil
}
