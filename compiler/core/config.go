package core

// Config controls the concrete syntax the compiler recognizes. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	// Prefix is the directive attribute marker: attributes named
	// "<Prefix>:<name>" and wrapper tags "<Prefix>:<name>" are directives.
	Prefix string
	// FragmentTag is the pseudo-element that carries attributes without
	// rendering a wrapper tag of its own.
	FragmentTag string
	// ComponentPrefix marks tags that reference components expanded by an
	// external stage, e.g. "c:" for <c:card>.
	ComponentPrefix string
	// SlotAttr and BindAttr are attribute markers consumed by the external
	// component-expansion stage; the compiler carries them through untouched.
	SlotAttr string
	BindAttr string
	// VoidTags close without an explicit slash (<br>, <img src=...>).
	VoidTags map[string]bool
	// RawTags suppress parsing of their body; the lexer emits it as one
	// opaque RawBody token.
	RawTags map[string]bool
	// KeepComments passes HTML comments through to the generated output.
	KeepComments bool
	// Debug prepends a header with the template path and compile time to the
	// generated source.
	Debug bool
}

// DefaultConfig returns the standard syntax configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:          "s",
		FragmentTag:     "s:fragment",
		ComponentPrefix: "c:",
		SlotAttr:        "slot",
		BindAttr:        "bind",
		VoidTags: map[string]bool{
			"area": true, "base": true, "br": true, "col": true,
			"embed": true, "hr": true, "img": true, "input": true,
			"link": true, "meta": true, "source": true, "track": true,
			"wbr": true,
		},
		RawTags: map[string]bool{
			"script": true,
			"style":  true,
		},
	}
}

// DirectiveAttr reports whether an attribute name carries a directive, and if
// so returns the bare directive name.
func (c Config) DirectiveAttr(name string) (string, bool) {
	marker := c.Prefix + ":"
	if len(name) > len(marker) && name[:len(marker)] == marker {
		return name[len(marker):], true
	}
	return "", false
}

// DirectiveTag reports whether a tag name is a directive wrapper element, and
// if so returns the bare directive name. The fragment pseudo-element is not a
// directive tag.
func (c Config) DirectiveTag(tag string) (string, bool) {
	if tag == c.FragmentTag {
		return "", false
	}
	return c.DirectiveAttr(tag)
}

// ComponentTag reports whether a tag name references a component, and if so
// returns the bare component name.
func (c Config) ComponentTag(tag string) (string, bool) {
	p := c.ComponentPrefix
	if p != "" && len(tag) > len(p) && tag[:len(p)] == p {
		return tag[len(p):], true
	}
	return "", false
}
