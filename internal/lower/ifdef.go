package lower

import (
	"fmt"
	"strings"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/printer"
	"github.com/foursquare/rtpreproc/internal/symbols"
)

// visitIfdef rewrites `#ifdef M { BODY } [#else { ALT }]` into a runtime
// `if (M != UNDEFINED_Int) { BODY } [else { ALT }]`, per §4.2.2. The
// rewritten statement is represented as a cst.Custom node holding rendered
// C text — the Design Notes explicitly sanction this for "synthesized C
// statements assembled from string templates" rather than fully modeling
// every grammar production for if-statements.
func (p *Pass) visitIfdef(n *cst.Node, ctx *Context) MoveUpMsg {
	nameNode := n.Field("name")
	if nameNode == nil {
		p.invariant(n.Kind, "preproc_ifdef missing name field")
	}
	macroName := strings.TrimSpace(printer.Print(nameNode))
	isNegated := strings.Contains(leadingKeyword(n), "ifndef")

	macro := p.Tracker.RecordMacro(macroName)

	named := n.NamedChildren()
	var body, elseNode *cst.Node
	var bodyChildren []*cst.Node
	for _, c := range named {
		if c == nameNode {
			continue
		}
		if c.Kind == cst.KindPreprocElse {
			elseNode = c
			continue
		}
		bodyChildren = append(bodyChildren, c)
	}
	body = &cst.Node{Kind: cst.KindCompoundStatement, Children: bodyChildren}
	for range bodyChildren {
		body.NamedIdx = append(body.NamedIdx, 0)
	}

	positiveCtx := ctx.EnterIfdef(symbols.Macro{Name: macro.Name, Type: macro.Type, Defined: isNegated})
	bodyMsg := p.visit(body, positiveCtx)
	if bodyMsg.Replacement != nil {
		body = bodyMsg.Replacement
	}

	msg := Empty()
	msg.MoveUps = append(msg.MoveUps, bodyMsg.MoveUps...)
	msg.IdentUses = msg.IdentUses.Union(bodyMsg.IdentUses)

	op := "!="
	if isNegated {
		op = "=="
	}

	var rendered strings.Builder
	fmt.Fprintf(&rendered, "if (%s %s UNDEFINED_%s) {\n%s\n}", macro.Name, op, sentinelType(macro.Type), printer.Print(body))

	altBlank := true
	if elseNode != nil {
		altCtx := ctx.EnterIfdef(symbols.Macro{Name: macro.Name, Type: macro.Type, Defined: !isNegated})
		altBody := &cst.Node{Kind: cst.KindCompoundStatement, Children: elseNode.NamedChildren()}
		for range altBody.Children {
			altBody.NamedIdx = append(altBody.NamedIdx, 0)
		}
		altMsg := p.visit(altBody, altCtx)
		if altMsg.Replacement != nil {
			altBody = altMsg.Replacement
		}
		msg.MoveUps = append(msg.MoveUps, altMsg.MoveUps...)
		msg.IdentUses = msg.IdentUses.Union(altMsg.IdentUses)
		altBlank = altBody.IsBlank()
		if !altBlank {
			fmt.Fprintf(&rendered, " else {\n%s\n}", printer.Print(altBody))
		}
	}

	if body.IsBlank() && altBlank {
		return msg.WithReplacement(cst.Whitespace(""))
	}

	replacement := cst.Custom(rendered.String())

	if tu, ok := ctx.Scope.(*cst.Node); ok && tu.Kind == cst.KindTranslationUnit && !ctx.InIfdef {
		// Translation-unit scope: C forbids bare statements here, so defer
		// injection into main's body (§4.2.2 step 5).
		p.deferredToMain = append(p.deferredToMain, replacement)
		return msg.WithReplacement(cst.Whitespace(""))
	}

	return msg.WithReplacement(replacement)
}

// leadingKeyword returns the first leaf's text under n, used to
// distinguish #ifdef from #ifndef (the grammar encodes the keyword as an
// anonymous leading token, not a field).
func leadingKeyword(n *cst.Node) string {
	for _, c := range n.Children {
		if c.IsLeaf() && c.Kind != cst.KindWhitespace {
			return c.Text
		}
	}
	return ""
}

func sentinelType(typ string) string {
	if typ == "" {
		return "Int"
	}
	return strings.ToUpper(typ[:1]) + typ[1:]
}
