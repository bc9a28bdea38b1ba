// Package symbols holds the process-scoped registries the lowering pass
// populates as it walks: the macro table, function table, define table, and
// per-scope variable declaration maps (§3 "Data model").
package symbols

import (
	"fmt"
	"strings"
)

// Macro is the triple (name, type, polarity) from §3. Polarity distinguishes
// a condition introduced by the positive arm of an #ifdef from one
// introduced by its #else arm.
type Macro struct {
	Name    string
	Type    string // always "int" in the initial implementation (§9 note i)
	Defined bool   // true iff this condition came from a #else arm
}

func (m Macro) String() string {
	op := "!="
	if m.Defined {
		op = "=="
	}
	return fmt.Sprintf("%s %s UNDEFINED_%s", m.Name, op, sentinelSuffix(m.Type))
}

func sentinelSuffix(typ string) string {
	if typ == "" {
		return "Int"
	}
	return strings.ToUpper(typ[:1]) + typ[1:]
}

// compareMacros orders two Macro values for use as a treeset comparator,
// grounded on the teacher's use of emirpasic/gods/sets/treeset with the
// built-in string comparator (jvm/config.go) — extended here with a custom
// comparator since ConditionSet elements are structs, not strings.
func compareMacros(a, b interface{}) int {
	ma, mb := a.(Macro), b.(Macro)
	if ma.Name != mb.Name {
		if ma.Name < mb.Name {
			return -1
		}
		return 1
	}
	if ma.Type != mb.Type {
		if ma.Type < mb.Type {
			return -1
		}
		return 1
	}
	switch {
	case ma.Defined == mb.Defined:
		return 0
	case !ma.Defined:
		return -1
	default:
		return 1
	}
}
