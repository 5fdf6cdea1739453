// Package directive defines the compiler-capability framework: a descriptor
// per directive name, a registry resolving names lazily at extraction time,
// and the built-in control-flow and attribute compilers.
package directive

import (
	"sort"
	"sync"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
)

// Kind classifies what a directive compiles into.
type Kind int

const (
	// ControlFlow directives wrap their children in generated control
	// structures: conditionals, loops, switch, try.
	ControlFlow Kind = iota
	// Attribute directives rewrite into inline output expressions merged
	// onto the host element's attributes.
	Attribute
	// PassThrough directives are consumed by an earlier specialized stage;
	// they are registered only so unknown-name validation accepts them, and
	// extraction leaves them untouched.
	PassThrough
)

func (k Kind) String() string {
	switch k {
	case ControlFlow:
		return "control-flow"
	case Attribute:
		return "attribute"
	default:
		return "pass-through"
	}
}

// MergeMode declares how an emitted attribute value composes with a
// same-named attribute from another source.
type MergeMode int

const (
	// MergeReplace drops the other value.
	MergeReplace MergeMode = iota
	// MergeCombine joins both values through a combinator helper.
	MergeCombine
	// MergeSpreadExclude spreads a map but excludes names the element
	// already carries.
	MergeSpreadExclude
)

// MergePolicy is the optional attribute-composition capability.
type MergePolicy struct {
	// Target is the attribute name the emitted value lands on; empty means
	// the directive injects raw attribute text instead of a named value.
	Target string
	Mode   MergeMode
	// Combinator is the render helper joining values under MergeCombine.
	Combinator string
}

// CompileFunc replaces a directive node with the generated nodes for it.
type CompileFunc func(d *ast.Directive, ctx *core.Context) ([]ast.Node, error)

// ExtractFunc overrides the default "wrap element as child" extraction. It
// receives the host element and the index of the marker attribute and builds
// the directive node itself.
type ExtractFunc func(el *ast.Element, attrIndex int, ctx *core.Context) (*ast.Directive, error)

// Descriptor declares a directive's capabilities as explicit optional
// fields, so the capability set is exhaustive and statically checkable.
type Descriptor struct {
	Name string
	Kind Kind

	// Compile is required for ControlFlow directives and nil for PassThrough.
	// Attribute directives may leave it nil and declare Merge instead; the
	// registry derives their compiler from the policy.
	Compile CompileFunc

	// PairedWith names a directive that may follow as a sibling contributing
	// the alternate branch (if→else, for→empty, try→finally).
	PairedWith string

	// ClaimAttr enables wrapper-element syntax: the expression is read from
	// this named attribute on the host element instead of the directive's
	// own value.
	ClaimAttr string

	// Extract overrides default extraction.
	Extract ExtractFunc

	// Merge declares attribute composition for Attribute directives.
	Merge *MergePolicy
}

// Registry maps directive names to descriptors. Lookups happen lazily during
// extraction; registration after construction is allowed, so access is
// synchronized.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]*Descriptor)}
}

// Register adds or replaces a descriptor. An Attribute descriptor carrying a
// MergePolicy but no Compile func gets its compiler derived from the policy.
func (r *Registry) Register(d *Descriptor) {
	if d.Compile == nil && d.Merge != nil {
		d.Compile = mergeCompile(d.Merge)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[d.Name] = d
}

// Lookup resolves a directive name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	return d, ok
}

// Names returns all registered names, sorted, for suggestion matching.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default builds a registry with every built-in directive. Each compiler
// gets its own instance; nothing is shared between compilations.
func Default() *Registry {
	r := NewRegistry()
	r.Register(If())
	r.Register(Else())
	r.Register(For())
	r.Register(Empty())
	r.Register(Switch())
	r.Register(Case())
	r.Register(CaseDefault())
	r.Register(Try())
	r.Register(Finally())
	r.Register(Class())
	r.Register(Spread())
	for _, name := range []string{"disabled", "checked", "selected", "hidden"} {
		r.Register(BoolAttr(name))
	}
	r.Register(IfContent())
	// Consumed by the external component-expansion stage.
	r.Register(&Descriptor{Name: "slot", Kind: PassThrough})
	r.Register(&Descriptor{Name: "use", Kind: PassThrough})
	return r
}
