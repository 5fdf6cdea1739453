package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBufferContexts(t *testing.T) {
	tests := []struct {
		name  string
		write func(b *Buffer)
		want  string
	}{
		{
			name:  "text is written verbatim",
			write: func(b *Buffer) { b.Text(`<div class="x">`) },
			want:  `<div class="x">`,
		},
		{
			name:  "html escapes markup characters",
			write: func(b *Buffer) { b.HTML(`<b>&"'`) },
			want:  "&lt;b&gt;&amp;&#34;&#39;",
		},
		{
			name:  "attrval escapes quotes",
			write: func(b *Buffer) { b.AttrVal(`a"b`) },
			want:  "a&#34;b",
		},
		{
			name:  "js escapes breakouts",
			write: func(b *Buffer) { b.JS(`a'b</script>`) },
			want:  `a\'b\u003C/script\u003E`,
		},
		{
			name:  "url escapes components",
			write: func(b *Buffer) { b.URL("a b&c") },
			want:  "a+b%26c",
		},
		{
			name:  "json encodes values",
			write: func(b *Buffer) { b.JSON(map[string]int{"n": 1}) },
			want:  `{"n":1}`,
		},
		{
			name:  "json breaks embedded close tags",
			write: func(b *Buffer) { b.JSON("</script>") },
			want:  `"<\/script>"`,
		},
		{
			name:  "json keeps other specials literal",
			write: func(b *Buffer) { b.JSON("a&b<c") },
			want:  `"a&b<c"`,
		},
		{
			name:  "json failure renders null",
			write: func(b *Buffer) { b.JSON(func() {}) },
			want:  "null",
		},
		{
			name:  "raw passes through",
			write: func(b *Buffer) { b.Raw("<i>") },
			want:  "<i>",
		},
		{
			name:  "nil renders empty",
			write: func(b *Buffer) { b.HTML(nil) },
			want:  "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuffer()
			tc.write(b)
			if diff := cmp.Diff(tc.want, b.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBufferCapture(t *testing.T) {
	b := NewBuffer()
	b.Text("before|")
	b.BeginCapture()
	b.Text("inner")
	got := b.EndCapture()
	if got != "inner" {
		t.Errorf("EndCapture() = %q, want %q", got, "inner")
	}
	if b.String() != "before|" {
		t.Errorf("buffer after capture = %q, want %q", b.String(), "before|")
	}
}

func TestBufferCaptureNests(t *testing.T) {
	b := NewBuffer()
	b.BeginCapture()
	b.Text("outer:")
	b.BeginCapture()
	b.Text("inner")
	if got := b.EndCapture(); got != "inner" {
		t.Errorf("inner capture = %q, want %q", got, "inner")
	}
	if got := b.EndCapture(); got != "outer:" {
		t.Errorf("outer capture = %q, want %q", got, "outer:")
	}
	if b.Len() != 0 {
		t.Errorf("buffer length after captures = %d, want 0", b.Len())
	}
}

func TestBufferEndCaptureWithoutBegin(t *testing.T) {
	b := NewBuffer()
	b.Text("kept")
	if got := b.EndCapture(); got != "" {
		t.Errorf("EndCapture() = %q, want empty", got)
	}
	if b.String() != "kept" {
		t.Errorf("buffer = %q, want %q", b.String(), "kept")
	}
}

type stamp struct{}

func (stamp) String() string { return "stamped" }

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"stringer", stamp{}, "stamped"},
		{"int", 42, "42"},
		{"bool", true, "true"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Stringify(tc.in); got != tc.want {
				t.Errorf("Stringify(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
