package ast

// ValueKind tags the shape of an attribute value.
type ValueKind int

const (
	// ValueBoolean is a presence-only attribute (<input disabled>).
	ValueBoolean ValueKind = iota
	// ValueStatic is a single literal string.
	ValueStatic
	// ValueOutput is a single dynamic expression.
	ValueOutput
	// ValueParts is an ordered mix of literals and dynamic expressions.
	ValueParts
)

func (k ValueKind) String() string {
	switch k {
	case ValueBoolean:
		return "boolean"
	case ValueStatic:
		return "static"
	case ValueOutput:
		return "output"
	default:
		return "parts"
	}
}

// ValuePart is one segment of a ValueParts attribute value.
type ValuePart struct {
	// Static holds literal text when Output is nil.
	Static string
	// Output holds a dynamic expression segment.
	Output *Output
}

// AttributeValue is the union of attribute value shapes. Invariant: the value
// always collapses to its simplest shape, so a Parts list of length one
// becomes Static or Output. Every mutator maintains this through Simplify.
type AttributeValue struct {
	Kind   ValueKind
	Static string
	Output *Output
	Parts  []ValuePart
}

// BooleanValue returns a presence-only value.
func BooleanValue() *AttributeValue {
	return &AttributeValue{Kind: ValueBoolean}
}

// StaticValue returns a literal value.
func StaticValue(s string) *AttributeValue {
	return &AttributeValue{Kind: ValueStatic, Static: s}
}

// OutputValue returns a single-expression value.
func OutputValue(out *Output) *AttributeValue {
	return &AttributeValue{Kind: ValueOutput, Output: out}
}

// PartsValue returns a mixed value, already simplified.
func PartsValue(parts []ValuePart) *AttributeValue {
	v := &AttributeValue{Kind: ValueParts, Parts: parts}
	v.Simplify()
	return v
}

// Simplify collapses the value to its simplest shape: an empty Parts list
// becomes Boolean, a singleton becomes Static or Output. Idempotent.
func (v *AttributeValue) Simplify() {
	if v.Kind != ValueParts {
		return
	}
	switch len(v.Parts) {
	case 0:
		v.Kind = ValueBoolean
		v.Parts = nil
	case 1:
		p := v.Parts[0]
		v.Parts = nil
		if p.Output != nil {
			v.Kind = ValueOutput
			v.Output = p.Output
		} else {
			v.Kind = ValueStatic
			v.Static = p.Static
		}
	}
}

// Append adds a segment and re-simplifies, so mutation history never leaves a
// singleton Parts list behind.
func (v *AttributeValue) Append(part ValuePart) {
	switch v.Kind {
	case ValueBoolean:
		v.Kind = ValueParts
		v.Parts = []ValuePart{part}
	case ValueStatic:
		v.Kind = ValueParts
		v.Parts = []ValuePart{{Static: v.Static}, part}
		v.Static = ""
	case ValueOutput:
		v.Kind = ValueParts
		v.Parts = []ValuePart{{Output: v.Output}, part}
		v.Output = nil
	case ValueParts:
		v.Parts = append(v.Parts, part)
	}
	v.Simplify()
}

// Attribute is a named attribute with its source position.
type Attribute struct {
	Name   string
	Value  *AttributeValue
	Line   int
	Column int
}
