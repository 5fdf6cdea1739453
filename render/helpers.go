package render

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Truthy reports whether a template value selects a branch: false, nil, zero
// numbers, empty strings, and empty collections are falsy.
func Truthy(v any) bool {
	return !IsEmpty(v)
}

// IsEmpty reports whether a template value renders as "nothing": nil, false,
// numeric zero, the empty string, or a collection with no elements.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	default:
		return false
	}
}

// Entry is one iteration element produced by Entries. For slices Key is the
// int index; for maps it is the map key.
type Entry struct {
	Index int
	Key   any
	Value any
}

// Entries normalizes an iterable template value into an ordered entry list.
// Maps iterate in sorted key order so compiled output is deterministic. Nil
// and non-iterable values yield an empty list, which routes rendering into
// the loop's empty-collection branch.
func Entries(v any) []Entry {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]Entry, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Entry{Index: i, Key: i, Value: rv.Index(i).Interface()}
		}
		return out
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		out := make([]Entry, len(keys))
		for i, k := range keys {
			out[i] = Entry{Index: i, Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
		}
		return out
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Entries(rv.Elem().Interface())
	default:
		return nil
	}
}

// Loop is the per-iteration metadata a repetition directive exposes to its
// body as the `loop` variable.
type Loop struct {
	Index  int // 0-based
	Index1 int // 1-based
	Count  int
	First  bool
	Last   bool
}

// NewLoop creates loop metadata for a collection of the given size.
func NewLoop(count int) *Loop {
	return &Loop{Count: count}
}

// Advance positions the metadata at iteration i.
func (l *Loop) Advance(i int) {
	l.Index = i
	l.Index1 = i + 1
	l.First = i == 0
	l.Last = i == l.Count-1
}

// Classes composes a class attribute value from strings, string slices, and
// map[string]bool-style conditional sets. Empty pieces vanish; map keys are
// emitted in sorted order.
func Classes(args ...any) string {
	var names []string
	for _, arg := range args {
		switch t := arg.(type) {
		case nil:
		case string:
			if t != "" {
				names = append(names, t)
			}
		case []string:
			for _, s := range t {
				if s != "" {
					names = append(names, s)
				}
			}
		case map[string]bool:
			names = append(names, sortedTrueKeys(t)...)
		case map[string]any:
			on := make(map[string]bool, len(t))
			for k, v := range t {
				on[k] = Truthy(v)
			}
			names = append(names, sortedTrueKeys(on)...)
		default:
			if s := Stringify(t); s != "" {
				names = append(names, s)
			}
		}
	}
	return strings.Join(names, " ")
}

func sortedTrueKeys(m map[string]bool) []string {
	var keys []string
	for k, on := range m {
		if on && k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// BoolAttr renders a conditional boolean attribute: ` name` when the value is
// truthy, nothing otherwise.
func BoolAttr(name string, v any) string {
	if Truthy(v) {
		return " " + name
	}
	return ""
}

// Attrs renders a spread attribute map as ` name="value"` pairs in sorted
// order. Boolean true renders the bare attribute, false and nil skip it, and
// excluded names (attributes the element already carries) are dropped.
func Attrs(m map[string]any, exclude ...string) string {
	if len(m) == 0 {
		return ""
	}
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	names := make([]string, 0, len(m))
	for name := range m {
		if name != "" && !skip[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		switch v := m[name].(type) {
		case nil:
		case bool:
			if v {
				b.WriteString(" ")
				b.WriteString(name)
			}
		default:
			b.WriteString(" ")
			b.WriteString(name)
			b.WriteString(`="`)
			b.WriteString(EscapeAttr(Stringify(v)))
			b.WriteString(`"`)
		}
	}
	return b.String()
}
