// Package compiler is the template compiler facade: it wires the lexer,
// parser, rewrite pipeline, and code generator into a single Compile call.
// Outer stages (component expansion, inheritance, caching) build on the
// sub-packages directly; nothing here depends on them.
package compiler

import (
	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/codegen"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/diag"
	"github.com/sproutlang/sprout/compiler/directive"
	"github.com/sproutlang/sprout/compiler/lexer"
	"github.com/sproutlang/sprout/compiler/parser"
	"github.com/sproutlang/sprout/compiler/passes"
	"github.com/sproutlang/sprout/compiler/pipeline"
)

// Pass priorities of the built-in stages. Custom passes slot between them.
const (
	PriorityPairing    = 10
	PriorityExtraction = 20
	PriorityContext    = 30
	PriorityCompile    = 40
)

// Compiler compiles templates under one syntax configuration and directive
// registry. It is safe for concurrent use; every Compile call builds its own
// context and pipeline.
type Compiler struct {
	cfg      core.Config
	registry *directive.Registry
}

// New creates a compiler with the built-in directives registered.
func New(cfg core.Config) *Compiler {
	return &Compiler{cfg: cfg, registry: directive.Default()}
}

// Registry exposes the directive registry so callers can register custom
// directives before compiling.
func (c *Compiler) Registry() *directive.Registry { return c.registry }

// Compile turns one template source into the text of a render function
// literal. Component references found in the tree are reported to sink; a nil
// sink discards them. Errors carry the template path and a source snippet.
func (c *Compiler) Compile(path, source string, sink core.DependencySink) (string, error) {
	ctx := core.NewContext(c.cfg, path, source)
	if sink != nil {
		ctx.Deps = sink
	}

	tokens := lexer.New(c.cfg).Lex(source)
	doc, err := parser.Parse(tokens, ctx)
	if err != nil {
		return "", c.located(err, ctx)
	}

	doc, err = c.pipeline().Execute(doc, ctx)
	if err != nil {
		return "", c.located(err, ctx)
	}

	reportComponents(doc.Children, ctx)

	src, err := codegen.Generate(doc, ctx)
	if err != nil {
		return "", c.located(err, ctx)
	}
	return src, nil
}

// pipeline assembles the built-in stages in priority order. Built per compile;
// the pipeline carries replacement counters and must not be shared.
func (c *Compiler) pipeline() *pipeline.Pipeline {
	p := pipeline.New()
	p.Add(passes.NewPairing(c.registry), PriorityPairing)
	p.Add(passes.NewExtraction(c.registry), PriorityExtraction)
	p.Add(passes.NewContextAnalysis(), PriorityContext)
	p.Add(passes.NewCompile(c.registry), PriorityCompile)
	return p
}

// located attaches the template path and source to a diagnostic so its
// rendered form includes a caret snippet.
func (c *Compiler) located(err error, ctx *core.Context) error {
	if de, ok := err.(*diag.Error); ok && de.Source == "" {
		return de.WithSource(ctx.Path, ctx.Source)
	}
	return err
}

// reportComponents walks the rewritten tree and reports every component
// reference. The compiler never expands components; an external stage decides
// what to do with the report.
func reportComponents(nodes []ast.Node, ctx *core.Context) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *ast.Component:
			ctx.Deps.AddComponent(t.Name)
			reportComponents(t.Children, ctx)
		case *ast.Element:
			reportComponents(t.Children, ctx)
		case *ast.Fragment:
			reportComponents(t.Children, ctx)
		}
	}
}
