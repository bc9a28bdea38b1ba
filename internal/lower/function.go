package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/printer"
	"github.com/foursquare/rtpreproc/internal/symbols"
)

// visitFunctionDefinition implements §4.2.5: registers the definition,
// renames on collision, and special-cases main (prelude call injection +
// deferred file-scope statements) versus a conditional non-main definition
// (assert guard injection + lift to file scope).
func (p *Pass) visitFunctionDefinition(n *cst.Node, ctx *Context) MoveUpMsg {
	msg := Empty()
	declNode := n.Field("declarator")
	bodyNode := n.Field("body")
	if declNode == nil || bodyNode == nil {
		return p.visitDefault(n, ctx)
	}

	name, declText := functionName(declNode)
	conditions := symbols.NewConditionSet(ctx.IfdefCondStack()...)
	ordinal := p.Tracker.AddFunction(name, symbols.FuncDecl{Declarator: declText, Conditions: conditions})

	bodyScope := n
	bodyCtx := ctx.EnterScope(bodyScope)
	bodyCtx.FuncName = name
	bodyMsg := p.visit(bodyNode, bodyCtx)
	msg.IdentUses = msg.IdentUses.Union(bodyMsg.IdentUses)
	if bodyMsg.Replacement != nil {
		bodyNode = bodyMsg.Replacement
	}

	emitName := name
	if ordinal > 1 {
		emitName = name + "_" + strconv.Itoa(ordinal)
	}
	renamedDecl := declText
	if emitName != name {
		renamedDecl = strings.Replace(declText, name, emitName, 1)
	}

	if name == "main" {
		p.mainFound = true
		var prelude strings.Builder
		prelude.WriteString("if (setup_env_vars() != 0) { fprintf(stderr, \"failed to parse environment\\n\"); return 1; }\n")
		for _, deferred := range p.deferredToMain {
			prelude.WriteString(printer.Print(deferred))
			prelude.WriteString("\n")
		}
		bodyText := injectAtTop(printer.Print(bodyNode), prelude.String())
		rendered := n.Field("type") // may be nil for implicit-int
		typeText := ""
		if rendered != nil {
			typeText = strings.TrimSpace(printer.Print(rendered)) + " "
		}
		return msg.WithReplacement(cst.Custom(typeText + renamedDecl + " " + bodyText))
	}

	if ctx.InIfdef {
		var asserts strings.Builder
		for _, cond := range symbols.NewConditionSet(ctx.IfdefCondStack()...).Macros() {
			asserts.WriteString(fmt.Sprintf("assert(%s);\n", cond.String()))
		}
		bodyText := injectAtTop(printer.Print(bodyNode), asserts.String())
		typeText := ""
		if t := n.Field("type"); t != nil {
			typeText = strings.TrimSpace(printer.Print(t)) + " "
		}
		lifted := cst.Custom(typeText + renamedDecl + " " + bodyText)
		msg.MoveUps = append(msg.MoveUps, lifted)
		return msg.WithReplacement(cst.Whitespace(""))
	}

	var out strings.Builder
	if t := n.Field("type"); t != nil {
		out.WriteString(strings.TrimSpace(printer.Print(t)))
		out.WriteString(" ")
	}
	out.WriteString(renamedDecl)
	out.WriteString(" ")
	out.WriteString(printer.Print(bodyNode))
	return msg.WithReplacement(cst.Custom(out.String()))
}

// functionName extracts the declared name and the full rendered declarator
// text (return type excluded) from a function_declarator subtree.
func functionName(decl *cst.Node) (name, text string) {
	text = strings.TrimSpace(printer.Print(decl))
	inner := decl.Field("declarator")
	if inner != nil {
		name = strings.TrimSpace(printer.Print(inner))
	} else {
		name = text
		if idx := strings.IndexByte(name, '('); idx >= 0 {
			name = name[:idx]
		}
	}
	return
}

// injectAtTop inserts extra statements immediately after a compound
// statement's opening brace.
func injectAtTop(body, extra string) string {
	if extra == "" {
		return body
	}
	idx := strings.IndexByte(body, '{')
	if idx < 0 {
		return body
	}
	return body[:idx+1] + "\n" + extra + body[idx+1:]
}
