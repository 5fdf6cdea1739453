package core

import (
	"strconv"
	"time"
)

// Loader resolves and reads externally referenced templates. The compiler core
// never calls it; inheritance and component expansion stages built on top do,
// between pipeline runs.
type Loader interface {
	// Resolve canonicalizes path relative to the template it was referenced
	// from.
	Resolve(path, fromPath string) (string, error)
	// Load returns the source text of a resolved template path.
	Load(path string) (string, error)
}

// DependencySink receives every externally loaded template a compilation
// consumed, so the artifact cache can invalidate when any of them changes.
// This is the compiler's only write obligation toward the cache subsystem.
type DependencySink interface {
	AddDependency(path string)
	AddComponent(path string)
}

// NopSink discards dependency reports.
type NopSink struct{}

func (NopSink) AddDependency(string) {}
func (NopSink) AddComponent(string)  {}

// Context carries per-compile state through every stage. It is created fresh
// for each compilation and threaded explicitly; nothing here is global.
type Context struct {
	Config Config
	// Path is the template path compiled, used in diagnostics and the debug
	// header.
	Path string
	// Source is the full template text, used for diagnostic snippets.
	Source string
	// Deps receives dependency reports; never nil after NewContext.
	Deps DependencySink
	// CompiledAt is stamped at context creation for the debug header.
	CompiledAt time.Time

	varSeq int
}

// NewContext creates a compilation context for one template.
func NewContext(cfg Config, path, source string) *Context {
	return &Context{
		Config:     cfg,
		Path:       path,
		Source:     source,
		Deps:       NopSink{},
		CompiledAt: time.Now(),
	}
}

// FreshVar returns a generated-code identifier unique within this compile,
// with the given descriptive stem.
func (c *Context) FreshVar(stem string) string {
	c.varSeq++
	return stem + strconv.Itoa(c.varSeq)
}
