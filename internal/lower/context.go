package lower

import "github.com/foursquare/rtpreproc/internal/symbols"

// Context is the per-node traversal context threaded by the visitor (§3
// "Context stack", §4.2.1). It is cloned (not mutated) on each descent so
// sibling subtrees never observe each other's frame, mirroring PatchCtx in
// the Python original. Each ifdef frame stores only the single condition
// it introduces, not a running union of its ancestors' — IfdefCondStack
// does the concatenation by walking the parent chain, exactly as
// get_ifdef_cond_stack does over parent_ctx.
type Context struct {
	parent *Context

	// Scope identifies the nearest enclosing non-conditional scope that
	// hoisted declarations settle into: the function body or translation
	// unit a marker should materialize against.
	Scope interface{}

	InIfdef bool
	// IfdefCond is the single macro condition introduced at this frame
	// (not cumulative with ancestors) — mirroring PatchCtx's ifdef_cond in
	// the Python original, which stores one condition per frame and lets
	// get_ifdef_cond_stack concatenate them on the way up. Only meaningful
	// when InIfdef is true.
	IfdefCond symbols.Macro

	// FuncName is set while visiting a function_definition's body; used by
	// §4.2.5's main-vs-non-main branch.
	FuncName string
}

// Root returns the top-level context for one pass invocation.
func Root(scope interface{}) *Context {
	return &Context{Scope: scope}
}

// Clone returns a context for descending into a different child of the
// same node. It does not push a new frame onto the condition stack — its
// parent link is the same as the source's — mirroring PatchCtx.clone in
// the Python original, which always rebuilds parent_ctx from
// self.parent_ctx rather than nesting a level deeper for an ordinary
// descent. Only EnterIfdef pushes a real frame.
func (c *Context) Clone() *Context {
	cp := *c
	return &cp
}

// EnterIfdef returns a new frame carrying exactly the one macro condition
// introduced at this point (§4.2.2 step 2), pushed ahead of c. Unlike
// Clone, this genuinely adds a level, so IfdefCondStack visits it once per
// #ifdef nesting rather than once per ordinary descent.
func (c *Context) EnterIfdef(m symbols.Macro) *Context {
	return &Context{
		parent:    c,
		Scope:     c.Scope,
		InIfdef:   true,
		IfdefCond: m,
		FuncName:  c.FuncName,
	}
}

// EnterScope returns a child context whose Scope is the given node,
// clearing ifdef state — a function body is always a fresh
// non-conditional scope for hoisting purposes even if declared lexically
// inside an #ifdef (hoisting targets the nearest *enclosing* scope, not
// crossing back out of it). The parent link is dropped, so every enclosing
// #ifdef frame is bypassed: a nested #ifdef inside this scope starts its
// own condition stack rather than inheriting the one already accounted for
// by the lifted definition's assert.
func (c *Context) EnterScope(scope interface{}) *Context {
	cp := c.Clone()
	cp.parent = nil
	cp.Scope = scope
	cp.InIfdef = false
	cp.IfdefCond = symbols.Macro{}
	return cp
}

// IfdefCondStack walks to the root collecting each ifdef frame's single
// condition, innermost first — the Go analogue of get_ifdef_cond_stack().
func (c *Context) IfdefCondStack() []symbols.Macro {
	var out []symbols.Macro
	for f := c; f != nil; f = f.parent {
		if f.InIfdef {
			out = append(out, f.IfdefCond)
		}
	}
	return out
}
