package lower

import (
	"fmt"
	"sort"
	"strings"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/symbols"
)

// prependPrelude emits the fixed preamble (§4.2.7): includes, one
// UNDEFINED_<Type> sentinel per encountered type, one global per macro,
// and setup_env_vars(). Macro names are sorted for deterministic output —
// the tracker itself makes no ordering promise (internal/symbols/tracker.go).
func prependPrelude(root *cst.Node, tracker *symbols.Tracker) *cst.Node {
	names := tracker.MacroNames()
	sort.Strings(names)

	types := map[string]bool{}
	for _, n := range names {
		types[tracker.Macros[n].Type] = true
	}
	typeNames := make([]string, 0, len(types))
	for t := range types {
		typeNames = append(typeNames, t)
	}
	sort.Strings(typeNames)

	var b strings.Builder
	b.WriteString("#include <stdio.h>\n#include <stdlib.h>\n#include <assert.h>\n\n")
	for _, t := range typeNames {
		fmt.Fprintf(&b, "#define UNDEFINED_%s 0xdeadbeef\n", sentinelType(t))
	}
	b.WriteString("\n")
	for _, name := range names {
		m := tracker.Macros[name]
		fmt.Fprintf(&b, "%s %s = UNDEFINED_%s;\n", m.Type, m.Name, sentinelType(m.Type))
	}
	b.WriteString("\nint setup_env_vars() {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  char* %s_env_str = getenv(\"%s\");\n", name, name)
		fmt.Fprintf(&b, "  if (%s_env_str) { %s = strtol(%s_env_str, NULL, 10); }\n", name, name, name)
	}
	b.WriteString("  return 0;\n}\n\n")

	prelude := cst.Custom(b.String())
	out := &cst.Node{Kind: cst.KindTranslationUnit}
	out.Children = append(out.Children, prelude, cst.Whitespace("\n"))
	out.NamedIdx = append(out.NamedIdx, 0, -1)
	out.Children = append(out.Children, root.Children...)
	for range root.Children {
		out.NamedIdx = append(out.NamedIdx, 0)
	}
	return out
}
