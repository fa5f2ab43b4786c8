// Package format renders values for assertion failure messages.
package format

import (
	"encoding/json"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/referee/packages/matcher"
	"github.com/davecgh/go-spew/spew"
	"github.com/tidwall/gjson"
)

const (
	// DefaultMaxDepth is how deep maps and lists are rendered before being elided.
	DefaultMaxDepth = 5
)

var spewConfig = spew.ConfigState{
	Indent:                  "",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Formatter renders values in a compact, human-readable form.
type Formatter struct {
	MaxDepth  int // 0 uses DefaultMaxDepth
	MaxLength int // 0 disables truncation
}

// Default is the formatter used by Format.
var Default = &Formatter{MaxDepth: DefaultMaxDepth}

// Format renders v with the default formatter.
func Format(v any) string {
	return Default.Format(v)
}

// Format renders v. Top-level strings are returned as-is; strings nested in
// maps or lists are quoted.
func (f *Formatter) Format(v any) string {
	out := f.render(v, 0, false)
	if f.MaxLength > 0 && utf8.RuneCountInString(out) > f.MaxLength {
		runes := []rune(out)
		out = string(runes[:f.MaxLength]) + "..."
	}
	return out
}

func (f *Formatter) maxDepth() int {
	if f.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return f.MaxDepth
}

func (f *Formatter) render(v any, depth int, nested bool) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case matcher.Matcher:
		return f.renderMatcher(val, depth, nested)
	case string:
		if nested {
			return strconv.Quote(val)
		}
		return val
	case bool:
		return strconv.FormatBool(val)
	case *regexp.Regexp:
		if val == nil {
			return "null"
		}
		return "/" + val.String() + "/"
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case json.RawMessage:
		return string(val)
	case gjson.Result:
		return f.render(matcher.Normalize(val), depth, nested)
	case error:
		return val.Error()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.String:
		return f.render(rv.String(), depth, nested)
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Func:
		if rv.IsNil() {
			return "null"
		}
		return "function"
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "null"
		}
		return f.render(rv.Elem().Interface(), depth, nested)
	case reflect.Map:
		if rv.IsNil() {
			return "null"
		}
		if depth >= f.maxDepth() {
			return "{...}"
		}
		entries := make(map[string]string, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := f.render(iter.Key().Interface(), depth+1, false)
			entries[key] = f.render(iter.Value().Interface(), depth+1, true)
		}
		return joinObject(entries)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "null"
		}
		if depth >= f.maxDepth() {
			return "[...]"
		}
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = f.render(rv.Index(i).Interface(), depth+1, true)
		}
		return "[" + strings.Join(items, ", ") + "]"
	}

	return spewConfig.Sprintf("%+v", v)
}

func (f *Formatter) renderMatcher(m matcher.Matcher, depth int, nested bool) string {
	switch m.Kind() {
	case matcher.KindLiteral:
		return f.render(m.Literal(), depth, nested)
	case matcher.KindRegex:
		return f.render(m.Regexp(), depth, nested)
	case matcher.KindPredicate:
		return "function"
	case matcher.KindPattern:
		if depth >= f.maxDepth() {
			return "{...}"
		}
		entries := make(map[string]string)
		for key, sub := range m.Fields() {
			entries[key] = f.renderMatcher(sub, depth+1, true)
		}
		return joinObject(entries)
	case matcher.KindList:
		if depth >= f.maxDepth() {
			return "[...]"
		}
		items := m.Items()
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = f.renderMatcher(item, depth+1, true)
		}
		return "[" + strings.Join(out, ", ") + "]"
	case matcher.KindGlob:
		return "glob(" + m.GlobPattern() + ")"
	case matcher.KindTime:
		return f.render(m.Instant(), depth, nested)
	case matcher.KindNull:
		return "null"
	}
	return "invalid matcher"
}

func joinObject(entries map[string]string) string {
	if len(entries) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + entries[k]
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
