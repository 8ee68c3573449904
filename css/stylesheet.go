package css

import (
	"slices"
	"strings"
)

// Stylesheet summarizes parsed CSS.
type Stylesheet struct {
	// Rules is number of rulesets, including nested ones.
	Rules int
	// Classes maps class name to number of rulesets referencing it.
	Classes  map[string]int
	Imports  []string
	Warnings []string
}

// Has reports whether any ruleset references class.
func (s *Stylesheet) Has(class string) bool {
	return s.Classes[class] > 0
}

// Missing returns sorted list of classes without rules. Every element of
// classes may hold several space separated names, as in class attribute.
func (s *Stylesheet) Missing(classes []string) []string {
	var missing []string
	for _, attr := range classes {
		for _, class := range strings.Fields(attr) {
			if !s.Has(class) && !slices.Contains(missing, class) {
				missing = append(missing, class)
			}
		}
	}
	slices.Sort(missing)
	return missing
}
