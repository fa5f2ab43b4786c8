package format

import (
	"github.com/abdul-hamid-achik/referee/packages/matcher"
)

// ActualForMatch narrows actual to the parts a matcher looks at. For an object
// pattern matched against an object, only the keys named by the pattern and
// present on actual are kept, recursively. Any other combination returns
// actual unchanged.
func ActualForMatch(actual, m any) any {
	pattern, err := matcher.From(m)
	if err != nil {
		return actual
	}
	return narrow(actual, pattern)
}

func narrow(actual any, m matcher.Matcher) any {
	if m.Kind() != matcher.KindPattern || !matcher.IsObject(actual) {
		return actual
	}
	subset := make(map[string]any)
	for key, sub := range m.Fields() {
		value, ok := matcher.Lookup(actual, key)
		if !ok {
			continue
		}
		subset[key] = narrow(value, sub)
	}
	return subset
}
