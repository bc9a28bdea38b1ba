package lower

import (
	"strings"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/printer"
	"github.com/foursquare/rtpreproc/internal/symbols"
)

// visitDeclaration implements §4.2.3: inside an #ifdef, a declaration is
// turned into a hoisted marker plus a left-behind assignment; outside one,
// a declaration whose initializer references macro-conditional
// identifiers is expanded via multiversal duplication.
func (p *Pass) visitDeclaration(n *cst.Node, ctx *Context) MoveUpMsg {
	msg := Empty()

	typeNode := n.Field("type")
	declNode := n.Field("declarator")
	if typeNode == nil || declNode == nil {
		return p.visitDefault(n, ctx)
	}
	typ := strings.TrimSpace(printer.Print(typeNode))

	name, init := splitDeclarator(declNode)
	for _, c := range n.Children {
		msg.IdentUses = msg.IdentUses.Union(p.visit(c, ctx.Clone()).IdentUses)
	}

	if ctx.InIfdef {
		settledName := p.Tracker.AddScopeVar(ctx.Scope, symbols.VarDecl{
			OrigName:    name,
			Type:        typ,
			Initializer: init,
			Conditions:  symbols.NewConditionSet(ctx.IfdefCondStack()...),
		})
		marker := &cst.Node{
			Kind:      cst.KindVariableDeclarationMarker,
			VarMarker: &cst.VariableDeclarationMarker{Name: settledName, Type: typ},
		}
		msg.MoveUps = append(msg.MoveUps, marker)

		if init == "" {
			return msg.WithReplacement(cst.Whitespace(""))
		}
		return msg.WithReplacement(cst.Custom(settledName + " = " + init + ";"))
	}

	if init == "" || !p.referencesVariant(init, ctx) {
		return msg
	}

	rd := p.buildRenameDict(ctx, []string{init})
	duplicated := p.multiversalDuplication(cst.Custom(name+" = "+init+";"), ctx, rd)
	if duplicated == nil {
		return msg
	}
	block := cst.Custom(typ + " " + name + " = UNDEFINED_" + sentinelType(typ) + ";\n" + printer.Print(duplicated))
	return msg.WithReplacement(block)
}

// splitDeclarator returns the declared name and, for an init_declarator,
// the rendered initializer text (empty for a bare declaration).
func splitDeclarator(decl *cst.Node) (name, init string) {
	if decl.Kind == cst.KindInitDeclarator {
		declarator := decl.Field("declarator")
		value := decl.Field("value")
		if declarator != nil {
			name = strings.TrimSpace(printer.Print(declarator))
		}
		if value != nil {
			init = strings.TrimSpace(printer.Print(value))
		}
		return
	}
	return strings.TrimSpace(printer.Print(decl)), ""
}

// referencesVariant is a coarse check for whether text mentions any
// identifier that has more than one variant in the per-scope var table of
// the enclosing scope (§4.2.6): it matches names as substrings of text,
// not as parsed identifiers.
func (p *Pass) referencesVariant(text string, ctx *Context) bool {
	counts := map[string]int{}
	for _, v := range p.Tracker.ScopeVars(ctx.Scope) {
		counts[v.OrigName]++
	}
	for _, v := range p.Tracker.ScopeVars(ctx.Scope) {
		if counts[v.OrigName] > 1 && strings.Contains(text, v.OrigName) {
			return true
		}
	}
	return false
}
