// Package lower implements the variability lowering engine (§4.2): the
// single top-down tree walk that hoists declarations, rewrites #ifdef into
// runtime conditionals, disambiguates macro-conditional identifiers, and
// synthesizes the startup prelude. Grounded throughout on the Python
// original's visitors/patch/patch.py.
package lower

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/symbols"
)

// InvariantError reports a violated structural expectation (§4.2.8):
// these are bugs in the input CST or the pass itself, not ordinary
// unsupported-construct warnings.
type InvariantError struct {
	Kind    cst.Kind
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation at %s: %s", e.Kind, e.Message)
}

// Pass holds the state threaded through one lowering run: the symbol
// tracker, accumulated warnings, and translation-unit-scoped statements
// deferred into main (§4.2.2 step 5). A fresh Pass is created per
// invocation — see symbols.Tracker's own doc comment on lifecycle scoping.
type Pass struct {
	Tracker  *symbols.Tracker
	warnings error // accumulated via multierr, never fatal

	deferredToMain []*cst.Node
	mainFound      bool
}

// NewPass allocates a Pass with a fresh Tracker.
func NewPass() *Pass {
	return &Pass{Tracker: symbols.NewTracker()}
}

// Run lowers root in place and returns the rewritten translation unit plus
// any accumulated non-fatal warnings. The only warning recorded is for
// file-scope #ifdef statements deferred into a main that the translation
// unit does not define; unsupported constructs (e.g. #elif) pass through
// unchanged without a warning. Invariant violations are recovered once
// here and turned into a returned error with a nil result, matching the
// Python original's bare asserts without using panic as cross-package
// control flow (§7 EXPANDED).
func (p *Pass) Run(root *cst.Node) (result *cst.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*InvariantError); ok {
				err = ie
				return
			}
			panic(r)
		}
	}()

	ctx := Root(root)
	msg := p.visit(root, ctx)
	replaced := root
	if msg.Replacement != nil {
		replaced = msg.Replacement
	}

	lowered := prependPrelude(replaced, p.Tracker)
	return lowered, p.warnings
}

func (p *Pass) invariant(kind cst.Kind, format string, args ...interface{}) {
	panic(&InvariantError{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (p *Pass) warn(format string, args ...interface{}) {
	p.warnings = multierr.Append(p.warnings, fmt.Errorf(format, args...))
}

// visit dispatches on node kind, the direct analogue of the Python
// original's @multimethod table (§9 EXPANDED "Dynamic dispatch on node
// kind"): one case per handled cst.Kind, default falls through to
// visitDefault which recurses unchanged.
func (p *Pass) visit(n *cst.Node, ctx *Context) MoveUpMsg {
	if n == nil {
		return Empty()
	}
	switch n.Kind {
	case cst.KindTranslationUnit:
		return p.visitTranslationUnit(n, ctx)
	case cst.KindPreprocIfdef:
		return p.visitIfdef(n, ctx)
	case cst.KindPreprocElse:
		// Only reached if a caller recurses into it directly instead of
		// through visitIfdef's own extraction; treat it as transparent.
		return p.visitDefault(n, ctx)
	case cst.KindPreprocDef:
		return p.visitPreprocDef(n, ctx)
	case cst.KindPreprocFunctionDef:
		return p.visitPreprocFunctionDef(n, ctx)
	case cst.KindDeclaration:
		return p.visitDeclaration(n, ctx)
	case cst.KindFunctionDefinition:
		return p.visitFunctionDefinition(n, ctx)
	case cst.KindExpressionStatement:
		return p.visitExpressionStatement(n, ctx)
	case cst.KindIdentifier:
		return p.visitIdentifier(n, ctx)
	default:
		return p.visitDefault(n, ctx)
	}
}

// visitIdentifier records the leaf's name as an ident-use; it never
// replaces or moves anything (VariableUsageMarker is unimplemented in the
// Python original too — ast_ext.py's comment on that class applies here).
func (p *Pass) visitIdentifier(n *cst.Node, ctx *Context) MoveUpMsg {
	msg := Empty()
	if n.IsLeaf() {
		msg.IdentUses = symbols.NewIdentSet(n.Text)
	}
	return msg
}

// visitDefault recurses into children unchanged, propagating move-ups and
// ident uses — the catch-all AstNode handler from the Python original.
func (p *Pass) visitDefault(n *cst.Node, ctx *Context) MoveUpMsg {
	msg := Empty()
	if n.IsLeaf() {
		return msg
	}
	n.Children = p.visitChildren(n, ctx, &msg)
	return msg
}

// visitChildren is the core traversal/splice loop (§4.2.1): for each
// child it visits with a cloned context, applies any replacement, and
// either propagates move-ups upward (if the current scope is itself
// conditional) or materializes and splices them immediately before the
// child.
func (p *Pass) visitChildren(n *cst.Node, ctx *Context, msg *MoveUpMsg) []*cst.Node {
	out := make([]*cst.Node, 0, len(n.Children))
	for _, child := range n.Children {
		childMsg := p.visit(child, ctx.Clone())

		if ctx.InIfdef {
			msg.MoveUps = append(msg.MoveUps, childMsg.MoveUps...)
		} else {
			for _, mv := range childMsg.MoveUps {
				out = append(out, p.materialize(mv)...)
			}
		}
		msg.IdentUses = msg.IdentUses.Union(childMsg.IdentUses)

		if childMsg.Replacement != nil {
			out = append(out, childMsg.Replacement)
		} else {
			out = append(out, child)
		}
	}
	return out
}

// visitTranslationUnit walks top-level declarations, then warns if
// statements deferred from file-scope #ifdef rewriting (§4.2.2 step 5)
// had no main to go into — injection into main itself happens in
// visitFunctionDefinition, which reads p.deferredToMain.
func (p *Pass) visitTranslationUnit(n *cst.Node, ctx *Context) MoveUpMsg {
	msg := Empty()
	n.Children = p.visitChildren(n, ctx, &msg)
	if !p.mainFound && len(p.deferredToMain) > 0 {
		p.warn("translation unit defines no main; %d deferred statement(s) dropped", len(p.deferredToMain))
	}
	return msg
}
