package lower

import (
	"fmt"
	"strings"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/printer"
	"github.com/foursquare/rtpreproc/internal/symbols"
)

// renameCandidate is one element of the rename map built by
// buildRenameDict: a concrete variant name plus the condition-set
// "remainder" still unresolved relative to the ambient context (§4.2.6).
type renameCandidate struct {
	ident     string
	variant   string
	remainder *symbols.ConditionSet
}

// buildRenameDict computes, for each identifier read across texts that has
// more than one live declaration in the current scope, the list of
// (renamed-identifier, remainder-condition-set) candidates — the Go
// analogue of patch.py's build_rename_dict, over variables only: the
// function and define tables are not consulted, so a call to a function
// with several definitions (f, f_2, …) is not duplicated.
func (p *Pass) buildRenameDict(ctx *Context, texts []string) map[string][]renameCandidate {
	ctxConds := symbols.NewConditionSet(ctx.IfdefCondStack()...)
	rd := make(map[string][]renameCandidate)

	byName := map[string][]symbols.VarDecl{}
	for _, v := range p.Tracker.ScopeVars(ctx.Scope) {
		byName[v.OrigName] = append(byName[v.OrigName], v)
	}

	for ident, decls := range byName {
		if len(decls) < 2 {
			continue
		}
		mentioned := false
		for _, t := range texts {
			if strings.Contains(t, ident) {
				mentioned = true
				break
			}
		}
		if !mentioned {
			continue
		}
		for _, d := range decls {
			remainder := d.Conditions.Difference(ctxConds)
			rd[ident] = append(rd[ident], renameCandidate{
				ident:     ident,
				variant:   d.Name,
				remainder: remainder,
			})
		}
	}
	return rd
}

// multiversalDuplication clones stmt once per element of the Cartesian
// product of rd, substituting identifiers per variant and wrapping each
// clone in an if/else-if arm guarded by its remainder condition set,
// closed by `else { assert(0); }` (§4.2.6). Returns nil if rd is empty
// (no variability to express).
func (p *Pass) multiversalDuplication(stmt *cst.Node, ctx *Context, rd map[string][]renameCandidate) *cst.Node {
	if len(rd) == 0 {
		return nil
	}

	idents := make([]string, 0, len(rd))
	for ident := range rd {
		idents = append(idents, ident)
	}

	combos := cartesianProduct(rd, idents)
	if len(combos) == 0 {
		return nil
	}

	var b strings.Builder
	for i, combo := range combos {
		clone := stmt.DeepCopy()
		var guards []string
		for _, cand := range combo {
			clone.ReplaceIdent(cand.ident, cand.variant)
			for _, m := range cand.remainder.Macros() {
				guards = append(guards, m.String())
			}
		}
		kw := "if"
		if i > 0 {
			kw = "else if"
		}
		cond := "1"
		if len(guards) > 0 {
			cond = strings.Join(guards, " && ")
		}
		fmt.Fprintf(&b, "%s (%s) {\n%s\n} ", kw, cond, printer.Print(clone))
	}
	b.WriteString("else { assert(0); }")
	return cst.Custom(b.String())
}

// cartesianProduct expands rd into every combination of one candidate per
// identifier, in first-seen order, matching the Python original's ordinal
// numbering of variants (§4.2.6 "Ordering and tie-breaks").
func cartesianProduct(rd map[string][]renameCandidate, idents []string) [][]renameCandidate {
	if len(idents) == 0 {
		return nil
	}
	result := [][]renameCandidate{{}}
	for _, ident := range idents {
		var next [][]renameCandidate
		for _, prefix := range result {
			for _, cand := range rd[ident] {
				combo := append(append([]renameCandidate{}, prefix...), cand)
				next = append(next, combo)
			}
		}
		result = next
	}
	return result
}

// visitExpressionStatement implements the variable half of §4.2.6: if the
// statement reads variables with more than one live variant in the current
// scope, it is expanded via multiversal duplication; otherwise it passes
// through unchanged. Calls to multiply-defined functions are left as
// written.
func (p *Pass) visitExpressionStatement(n *cst.Node, ctx *Context) MoveUpMsg {
	msg := p.visitDefault(n, ctx)
	text := printer.Print(n)
	rd := p.buildRenameDict(ctx, []string{text})
	if dup := p.multiversalDuplication(n, ctx, rd); dup != nil {
		return msg.WithReplacement(dup)
	}
	return msg
}
