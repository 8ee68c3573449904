package annotate

import (
	"unicode/utf8"

	"hilite/common"
)

// offsetIndex translates span bounds expressed in unit to byte offsets into
// text. For byte units translation is identity and no table is built.
type offsetIndex struct {
	unit  common.OffsetUnit
	size  int
	bytes []int // unit offset -> byte offset, -1 marks second half of surrogate pair
}

func newOffsetIndex(text string, unit common.OffsetUnit) *offsetIndex {
	x := &offsetIndex{unit: unit}
	switch unit {
	case common.OffsetUnitRune:
		x.bytes = make([]int, 0, utf8.RuneCountInString(text)+1)
		for i := range text {
			x.bytes = append(x.bytes, i)
		}
		x.bytes = append(x.bytes, len(text))
		x.size = len(x.bytes) - 1
	case common.OffsetUnitUtf16:
		x.bytes = make([]int, 0, len(text)+1)
		for i, r := range text {
			x.bytes = append(x.bytes, i)
			if r >= 0x10000 && r <= utf8.MaxRune {
				x.bytes = append(x.bytes, -1)
			}
		}
		x.bytes = append(x.bytes, len(text))
		x.size = len(x.bytes) - 1
	default:
		x.size = len(text)
	}
	return x
}

// resolve checks bounds of span and converts them to byte offsets.
func (x *offsetIndex) resolve(sp Span) (Span, error) {
	if sp.Start > sp.End {
		return sp, ErrInvertedBounds
	}
	if sp.Start < 0 || sp.End > x.size {
		return sp, ErrOutOfRange
	}
	if x.bytes == nil {
		return sp, nil
	}
	start, end := x.bytes[sp.Start], x.bytes[sp.End]
	if start < 0 || end < 0 {
		return sp, ErrSplitRune
	}
	sp.Start, sp.End = start, end
	return sp, nil
}
