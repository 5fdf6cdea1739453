package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Expression
	}{
		{
			name: "plain expression",
			in:   "user.Name",
			want: Expression{Inner: "user.Name"},
		},
		{
			name: "filter chain",
			in:   "name | upper | truncate(10)",
			want: Expression{Inner: "name", Filters: []string{"upper", "truncate(10)"}},
		},
		{
			name: "raw marker is consumed",
			in:   "html | raw",
			want: Expression{Inner: "html", Raw: true},
		},
		{
			name: "json marker is consumed",
			in:   "payload | json",
			want: Expression{Inner: "payload", Data: true},
		},
		{
			name: "logical or does not split",
			in:   "a || b",
			want: Expression{Inner: "a || b"},
		},
		{
			name: "pipe inside string does not split",
			in:   `join(xs, "|")`,
			want: Expression{Inner: `join(xs, "|")`},
		},
		{
			name: "pipe inside parens does not split",
			in:   "f(a | b)",
			want: Expression{Inner: "f(a | b)"},
		},
		{
			name: "marker mixed with filters",
			in:   "body | markdown | raw",
			want: Expression{Inner: "body", Filters: []string{"markdown"}, Raw: true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseExpression(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseExpression(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name    string
		inner   string
		filters []string
		want    string
	}{
		{"no filters", "x", nil, "x"},
		{"single", "x", []string{"upper"}, "upper(x)"},
		{"nests inside out", "x", []string{"f", "g"}, "g(f(x))"},
		{"extra arguments append", "x", []string{"truncate(10)"}, "truncate(x, 10)"},
		{"empty call parens", "x", []string{"trim()"}, "trim(x)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ApplyFilters(tc.inner, tc.filters); got != tc.want {
				t.Errorf("ApplyFilters(%q, %v) = %q, want %q", tc.inner, tc.filters, got, tc.want)
			}
		})
	}
}
