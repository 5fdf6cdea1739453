// Package pipeline applies an ordered list of tree-rewriting passes to a
// parsed document. Traversal is depth-first: at each node every pass's before
// hook runs in priority order, children recurse, then after hooks run. Hooks
// steer traversal through Actions.
package pipeline

import (
	"sort"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/diag"
)

type actionKind int

const (
	actionNone actionKind = iota
	actionSkip
	actionReplace
)

// Action is the signal a pass hook returns describing how traversal should
// continue. Transient; never stored in the tree.
type Action struct {
	kind    actionKind
	nodes   []ast.Node
	restart bool
}

// None continues traversal unchanged.
func None() Action { return Action{} }

// SkipChildren stops this pass from descending into the current subtree.
// Other passes still descend. Honored from before hooks only.
func SkipChildren() Action { return Action{kind: actionSkip} }

// Replace splices nodes into the parent's child list at the current position.
// Replacements re-enter normal traversal as fresh nodes; when restart is true
// each replacement is first fed back through the same pass's before hook, so
// one rewrite can chain directly into the next.
func Replace(restart bool, nodes ...ast.Node) Action {
	return Action{kind: actionReplace, nodes: nodes, restart: restart}
}

// Pass is one stage of the rewrite pipeline.
type Pass interface {
	Name() string
	Before(n ast.Node, ctx *core.Context) (Action, error)
	After(n ast.Node, ctx *core.Context) (Action, error)
}

// Hooks is a no-op pass implementation for embedding, so passes only spell
// out the hooks they use.
type Hooks struct{}

func (Hooks) Before(ast.Node, *core.Context) (Action, error) { return None(), nil }
func (Hooks) After(ast.Node, *core.Context) (Action, error)  { return None(), nil }

type entry struct {
	pass     Pass
	priority int
}

const (
	// DefaultMaxDepth caps traversal recursion against pathological nesting.
	DefaultMaxDepth = 512
	// DefaultMaxReplaces caps replacement churn, since nothing guarantees a
	// rewrite chain terminates.
	DefaultMaxReplaces = 1000
)

// Pipeline is an ordered pass list. Order is (priority, insertion sequence),
// recomputed by a stable sort on every insertion.
type Pipeline struct {
	entries     []entry
	MaxDepth    int
	MaxReplaces int

	replaces int
}

// New creates an empty pipeline with default limits.
func New() *Pipeline {
	return &Pipeline{MaxDepth: DefaultMaxDepth, MaxReplaces: DefaultMaxReplaces}
}

// Add registers a pass at a priority. Lower priorities run first; equal
// priorities run in insertion order.
func (p *Pipeline) Add(pass Pass, priority int) {
	p.entries = append(p.entries, entry{pass: pass, priority: priority})
	p.resort()
}

// InsertBefore registers a pass immediately before the named anchor pass, at
// the anchor's priority.
func (p *Pipeline) InsertBefore(anchor string, pass Pass) error {
	return p.insertAt(anchor, pass, 0)
}

// InsertAfter registers a pass immediately after the named anchor pass, at
// the anchor's priority.
func (p *Pipeline) InsertAfter(anchor string, pass Pass) error {
	return p.insertAt(anchor, pass, 1)
}

func (p *Pipeline) insertAt(anchor string, pass Pass, offset int) error {
	for i, e := range p.entries {
		if e.pass.Name() != anchor {
			continue
		}
		at := i + offset
		inserted := entry{pass: pass, priority: e.priority}
		p.entries = append(p.entries[:at], append([]entry{inserted}, p.entries[at:]...)...)
		p.resort()
		return nil
	}
	return diag.New(diag.SyntaxError, 0, 0, "unknown anchor pass %q", anchor)
}

// resort re-establishes the total order. The sort is stable, so entries with
// equal priority keep their current relative order.
func (p *Pipeline) resort() {
	sort.SliceStable(p.entries, func(i, j int) bool {
		return p.entries[i].priority < p.entries[j].priority
	})
}

// Passes returns the pass names in execution order.
func (p *Pipeline) Passes() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.pass.Name()
	}
	return names
}

// Execute runs every pass over the document and returns the rewritten root.
// Fatal unless the result is still a single Document.
func (p *Pipeline) Execute(doc *ast.Document, ctx *core.Context) (*ast.Document, error) {
	p.replaces = 0
	skip := make([]bool, len(p.entries))
	result, err := p.processChildren(nil, []ast.Node{doc}, skip, 0, ctx)
	if err != nil {
		return nil, err
	}
	if len(result) != 1 {
		return nil, diag.New(diag.UnsupportedNodeError, doc.Position().Line, doc.Position().Column,
			"pipeline produced %d root nodes, want exactly one document", len(result))
	}
	out, ok := result[0].(*ast.Document)
	if !ok {
		return nil, diag.New(diag.UnsupportedNodeError, doc.Position().Line, doc.Position().Column,
			"pipeline replaced the document root with %T", result[0])
	}
	return out, nil
}

// processChildren traverses one child list, applying hooks and splicing
// replacements in place. skip flags suppress passes that chose not to descend
// into this subtree.
func (p *Pipeline) processChildren(parent ast.Node, children []ast.Node, skip []bool, depth int, ctx *core.Context) ([]ast.Node, error) {
	if depth > p.MaxDepth {
		pos := ast.Pos{}
		if len(children) > 0 {
			pos = children[0].Position()
		}
		return nil, diag.Limit(pos.Line, pos.Column,
			"template nesting exceeds %d levels", p.MaxDepth)
	}

	i := 0
	for i < len(children) {
		node := children[i]
		node.SetParent(parent)

		childSkip := make([]bool, len(skip))
		copy(childSkip, skip)

		replaced := false
		for pi := range p.entries {
			if skip[pi] {
				continue
			}
			act, err := p.entries[pi].pass.Before(node, ctx)
			if err != nil {
				return nil, err
			}
			switch act.kind {
			case actionSkip:
				childSkip[pi] = true
			case actionReplace:
				children, err = p.splice(children, i, act.nodes, node)
				if err != nil {
					return nil, err
				}
				if act.restart {
					children, err = p.replay(pi, children, i, len(act.nodes), parent, ctx)
					if err != nil {
						return nil, err
					}
				}
				replaced = true
			}
			if replaced {
				break
			}
		}
		if replaced {
			continue // reprocess the splice point as fresh nodes
		}

		if err := p.descend(node, childSkip, depth+1, ctx); err != nil {
			return nil, err
		}

		advance := 1
		for pi := range p.entries {
			if skip[pi] {
				continue
			}
			act, err := p.entries[pi].pass.After(node, ctx)
			if err != nil {
				return nil, err
			}
			if act.kind != actionReplace {
				continue
			}
			children, err = p.splice(children, i, act.nodes, node)
			if err != nil {
				return nil, err
			}
			if act.restart {
				replaced = true
			} else {
				// After-hook replacements without restart are final; the
				// subtree was already traversed.
				advance = len(act.nodes)
			}
			break
		}
		if replaced {
			continue
		}
		i += advance
	}
	return children, nil
}

// replay feeds freshly spliced nodes back through the replacing pass's before
// hook, chaining further replacements through an explicit worklist instead of
// recursion so the iteration cap is enforceable.
func (p *Pipeline) replay(pi int, children []ast.Node, start, count int, parent ast.Node, ctx *core.Context) ([]ast.Node, error) {
	pending := make([]int, 0, count)
	for k := count - 1; k >= 0; k-- {
		pending = append(pending, start+k)
	}
	for len(pending) > 0 {
		j := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if j >= len(children) {
			continue
		}
		node := children[j]
		node.SetParent(parent)
		act, err := p.entries[pi].pass.Before(node, ctx)
		if err != nil {
			return nil, err
		}
		if act.kind != actionReplace {
			continue
		}
		children, err = p.splice(children, j, act.nodes, node)
		if err != nil {
			return nil, err
		}
		// Later pending indices shift with every splice, restart or not.
		if delta := len(act.nodes) - 1; delta != 0 {
			for k := range pending {
				if pending[k] > j {
					pending[k] += delta
				}
			}
		}
		if act.restart {
			for k := len(act.nodes) - 1; k >= 0; k-- {
				pending = append(pending, j+k)
			}
		}
	}
	return children, nil
}

func (p *Pipeline) splice(children []ast.Node, at int, nodes []ast.Node, replacedNode ast.Node) ([]ast.Node, error) {
	p.replaces++
	if p.replaces > p.MaxReplaces {
		pos := replacedNode.Position()
		return nil, diag.Limit(pos.Line, pos.Column,
			"rewrite did not settle after %d replacements", p.MaxReplaces)
	}
	out := make([]ast.Node, 0, len(children)+len(nodes)-1)
	out = append(out, children[:at]...)
	out = append(out, nodes...)
	out = append(out, children[at+1:]...)
	return out, nil
}

// descend recurses into every container kind with the same protocol.
func (p *Pipeline) descend(node ast.Node, skip []bool, depth int, ctx *core.Context) error {
	var err error
	switch t := node.(type) {
	case *ast.Document:
		t.Children, err = p.processChildren(t, t.Children, skip, depth, ctx)
	case *ast.Element:
		t.Children, err = p.processChildren(t, t.Children, skip, depth, ctx)
	case *ast.Fragment:
		t.Children, err = p.processChildren(t, t.Children, skip, depth, ctx)
	case *ast.Component:
		t.Children, err = p.processChildren(t, t.Children, skip, depth, ctx)
	case *ast.Directive:
		t.Children, err = p.processChildren(t, t.Children, skip, depth, ctx)
		if err == nil {
			t.Alternate, err = p.processChildren(t, t.Alternate, skip, depth, ctx)
		}
	}
	return err
}
