package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero int", 0, false},
		{"nonzero int", 3, true},
		{"zero float", 0.0, false},
		{"empty string", "", false},
		{"string", "x", true},
		{"empty slice", []int{}, false},
		{"slice", []int{1}, true},
		{"empty map", map[string]int{}, false},
		{"map", map[string]int{"a": 1}, true},
		{"nil pointer", (*int)(nil), false},
		{"struct", struct{}{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Truthy(tc.in); got != tc.want {
				t.Errorf("Truthy(%v) = %t, want %t", tc.in, got, tc.want)
			}
		})
	}
}

func TestEntries(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []Entry
	}{
		{
			name: "slice keeps order",
			in:   []string{"a", "b"},
			want: []Entry{
				{Index: 0, Key: 0, Value: "a"},
				{Index: 1, Key: 1, Value: "b"},
			},
		},
		{
			name: "map iterates in sorted key order",
			in:   map[string]int{"b": 2, "a": 1, "c": 3},
			want: []Entry{
				{Index: 0, Key: "a", Value: 1},
				{Index: 1, Key: "b", Value: 2},
				{Index: 2, Key: "c", Value: 3},
			},
		},
		{name: "nil yields nothing", in: nil, want: nil},
		{name: "non-iterable yields nothing", in: 42, want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Entries(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoopMetadata(t *testing.T) {
	loop := NewLoop(3)
	want := []Loop{
		{Index: 0, Index1: 1, Count: 3, First: true, Last: false},
		{Index: 1, Index1: 2, Count: 3, First: false, Last: false},
		{Index: 2, Index1: 3, Count: 3, First: false, Last: true},
	}
	for i, w := range want {
		loop.Advance(i)
		if diff := cmp.Diff(w, *loop); diff != "" {
			t.Errorf("iteration %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestClasses(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"strings join", []any{"a", "b"}, "a b"},
		{"empty strings vanish", []any{"a", "", "b"}, "a b"},
		{"slice expands", []any{[]string{"x", "y"}}, "x y"},
		{
			"bool map keeps true keys sorted",
			[]any{map[string]bool{"b": true, "a": true, "c": false}},
			"a b",
		},
		{
			"any map applies truthiness",
			[]any{map[string]any{"on": 1, "off": 0}},
			"on",
		},
		{"nil vanishes", []any{"a", nil}, "a"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classes(tc.args...); got != tc.want {
				t.Errorf("Classes(%v) = %q, want %q", tc.args, got, tc.want)
			}
		})
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]any
		exclude []string
		want    string
	}{
		{
			name: "sorted pairs with escaping",
			in:   map[string]any{"title": `a"b`, "id": "x"},
			want: ` id="x" title="a&#34;b"`,
		},
		{
			name: "boolean true renders bare",
			in:   map[string]any{"disabled": true, "checked": false},
			want: " disabled",
		},
		{
			name:    "excluded names are dropped",
			in:      map[string]any{"href": "/a", "rel": "nofollow"},
			exclude: []string{"href"},
			want:    ` rel="nofollow"`,
		},
		{name: "nil values are dropped", in: map[string]any{"x": nil}, want: ""},
		{name: "empty map", in: nil, want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Attrs(tc.in, tc.exclude...); got != tc.want {
				t.Errorf("Attrs() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBoolAttr(t *testing.T) {
	if got := BoolAttr("disabled", true); got != " disabled" {
		t.Errorf("BoolAttr(true) = %q, want %q", got, " disabled")
	}
	if got := BoolAttr("disabled", ""); got != "" {
		t.Errorf("BoolAttr(falsy) = %q, want empty", got)
	}
}
