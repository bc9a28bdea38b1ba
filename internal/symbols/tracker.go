package symbols

import "strconv"

// Tracker is the process-scoped registry populated during one lowering
// pass (§3 "Lifecycle"): macro table, function table keyed by original
// name, define table keyed by original name, and a per-scope variable
// declaration map. A fresh Tracker is created per invocation of the pass —
// there is no package-level mutable state here, unlike the teacher's own
// mavenInstallCache global (§9 EXPANDED "Global mutable tables").
type Tracker struct {
	Macros map[string]Macro

	Functions map[string][]FuncDecl
	Defines   map[string][]DefDecl
	DefineFns map[string][]DefFnDecl

	// scopeVars maps a scope key (the enclosing function definition or
	// translation unit node, as passed by the caller) to the variable
	// declarations observed in it.
	scopeVars map[interface{}][]VarDecl

	typeOrdinal map[string]int
}

// NewTracker allocates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		Macros:      make(map[string]Macro),
		Functions:   make(map[string][]FuncDecl),
		Defines:     make(map[string][]DefDecl),
		DefineFns:   make(map[string][]DefFnDecl),
		scopeVars:   make(map[interface{}][]VarDecl),
		typeOrdinal: make(map[string]int),
	}
}

// RecordMacro registers a macro's inferred type the first time it is seen;
// later sightings are no-ops (the type, once inferred, does not change —
// §9 note i, "always int" for the initial implementation).
func (t *Tracker) RecordMacro(name string) Macro {
	if m, ok := t.Macros[name]; ok {
		return m
	}
	m := Macro{Name: name, Type: "int"}
	t.Macros[name] = m
	return m
}

// MacroNames returns the known macro names in map order; callers that need
// deterministic prelude output should sort the result themselves — this
// is the prelude synthesizer's job (§4.2.7), not the tracker's.
func (t *Tracker) MacroNames() []string {
	names := make([]string, 0, len(t.Macros))
	for n := range t.Macros {
		names = append(names, n)
	}
	return names
}

// AddFunction appends a definition to F's function table entry, returning
// its ordinal (1-based) among definitions of that name (§4.2.5).
func (t *Tracker) AddFunction(name string, decl FuncDecl) int {
	t.Functions[name] = append(t.Functions[name], decl)
	return len(t.Functions[name])
}

// AddDefine appends an object-like define to N's table entry.
func (t *Tracker) AddDefine(name string, d DefDecl) int {
	t.Defines[name] = append(t.Defines[name], d)
	return len(t.Defines[name])
}

// AddDefineFn appends a function-like define to N's table entry.
func (t *Tracker) AddDefineFn(name string, d DefFnDecl) int {
	t.DefineFns[name] = append(t.DefineFns[name], d)
	return len(t.DefineFns[name])
}

// ScopeVars returns the variable declarations recorded against scope.
func (t *Tracker) ScopeVars(scope interface{}) []VarDecl {
	return t.scopeVars[scope]
}

// AddScopeVar records a variable declaration against scope, returning the
// disambiguated name it should be emitted under (ordinal-suffixed on
// collision, per §3 "Variable descriptor").
func (t *Tracker) AddScopeVar(scope interface{}, v VarDecl) string {
	existing := t.scopeVars[scope]
	origName := v.OrigName
	if origName == "" {
		origName = v.Name
	}
	ordinal := 1
	for _, e := range existing {
		if e.OrigName == origName {
			ordinal++
		}
	}
	name := origName
	if ordinal > 1 {
		name = suffixed(origName, ordinal)
	}
	v.OrigName = origName
	v.Name = name
	t.scopeVars[scope] = append(existing, v)
	return name
}

func suffixed(name string, ordinal int) string {
	if ordinal <= 1 {
		return name
	}
	return name + "_" + strconv.Itoa(ordinal)
}
