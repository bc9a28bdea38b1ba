package lower

import (
	"strconv"
	"strings"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/printer"
	"github.com/foursquare/rtpreproc/internal/symbols"
)

// defDeclFor builds the define descriptor for name/value under the
// current ifdef condition stack (§3 "Define descriptor").
func defDeclFor(name, value string, ctx *Context) symbols.DefDecl {
	return symbols.DefDecl{
		Name:       name,
		Value:      value,
		Conditions: symbols.NewConditionSet(ctx.IfdefCondStack()...),
		OrigName:   name,
	}
}

// visitPreprocDef implements the object-like half of §4.2.4: inside an
// #ifdef, #define N V becomes a PreprocDefinitionMarker move-up tagged
// with the current condition set; elsewhere it is left as-is (only
// conditional defines need hoisting — an unconditional #define is already
// valid wherever it sits).
func (p *Pass) visitPreprocDef(n *cst.Node, ctx *Context) MoveUpMsg {
	msg := Empty()
	nameNode, valueNode := n.Field("name"), n.Field("value")
	if nameNode == nil {
		return p.visitDefault(n, ctx)
	}
	name := strings.TrimSpace(printer.Print(nameNode))
	value := ""
	if valueNode != nil {
		value = strings.TrimSpace(printer.Print(valueNode))
	}

	if !ctx.InIfdef {
		p.Tracker.AddDefine(name, defDeclFor(name, value, ctx))
		return msg
	}

	ordinal := p.Tracker.AddDefine(name, defDeclFor(name, value, ctx))
	emitName := name
	if ordinal > 1 {
		emitName = suffixedDefine(name, ordinal)
	}
	marker := &cst.Node{
		Kind:      cst.KindPreprocDefinitionMarker,
		DefMarker: &cst.PreprocDefinitionMarker{Text: "#define " + emitName + " " + value},
	}
	msg.MoveUps = append(msg.MoveUps, marker)
	return msg.WithReplacement(cst.Whitespace(""))
}

// visitPreprocFunctionDef handles the function-like half of §4.2.4,
// mirroring visitPreprocDef but preserving the parameter list text.
func (p *Pass) visitPreprocFunctionDef(n *cst.Node, ctx *Context) MoveUpMsg {
	msg := Empty()
	nameNode := n.Field("name")
	paramsNode := n.Field("parameters")
	valueNode := n.Field("value")
	if nameNode == nil {
		return p.visitDefault(n, ctx)
	}
	name := strings.TrimSpace(printer.Print(nameNode))
	params := ""
	if paramsNode != nil {
		params = strings.Trim(strings.TrimSpace(printer.Print(paramsNode)), "()")
	}
	value := ""
	if valueNode != nil {
		value = strings.TrimSpace(printer.Print(valueNode))
	}

	decl := symbols.DefFnDecl{
		Name:       name,
		Params:     params,
		Value:      value,
		Conditions: symbols.NewConditionSet(ctx.IfdefCondStack()...),
		OrigName:   name,
	}

	if !ctx.InIfdef {
		p.Tracker.AddDefineFn(name, decl)
		return msg
	}

	ordinal := p.Tracker.AddDefineFn(name, decl)
	emitName := name
	if ordinal > 1 {
		emitName = suffixedDefine(name, ordinal)
	}
	marker := &cst.Node{
		Kind:      cst.KindPreprocDefinitionMarker,
		DefMarker: &cst.PreprocDefinitionMarker{Text: "#define " + emitName + "(" + params + ") " + value},
	}
	msg.MoveUps = append(msg.MoveUps, marker)
	return msg.WithReplacement(cst.Whitespace(""))
}

func suffixedDefine(name string, ordinal int) string {
	if ordinal <= 1 {
		return name
	}
	return name + "_" + strconv.Itoa(ordinal)
}
