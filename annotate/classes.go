package annotate

import (
	"github.com/gosimple/slug"
)

// DefaultRelationClass is class name given to all relation spans.
const DefaultRelationClass = "relation-annotation"

// ClassMapper maps raw label identifier coming from NLP pipeline to display
// class name.
type ClassMapper interface {
	ClassName(typeID string) string
}

// ClassMapperFunc adapts ordinary function to ClassMapper.
type ClassMapperFunc func(typeID string) string

func (f ClassMapperFunc) ClassName(typeID string) string {
	return f(typeID)
}

// ClassMap is a static lookup table. Unknown identifiers are passed as is, or
// slugified when Slug is set, so they are usable as class attribute tokens.
type ClassMap struct {
	Classes map[string]string
	Slug    bool
}

func (m ClassMap) ClassName(typeID string) string {
	if c, ok := m.Classes[typeID]; ok {
		return c
	}
	if m.Slug {
		return slug.Make(typeID)
	}
	return typeID
}

var identityClasses = ClassMapperFunc(func(typeID string) string { return typeID })
