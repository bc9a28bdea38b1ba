package symbols

import "fmt"

// VarDecl is a variable descriptor (§3): name, type, optional initializer
// text, and the condition set it was declared under. Grounded on the
// Python original's data.py VarDecl.
type VarDecl struct {
	Name        string // settled, possibly ordinal-suffixed emitted name
	OrigName    string // name as written at the declaration site
	Type        string
	Initializer string // empty if bare declaration
	Conditions  *ConditionSet
}

// FuncDecl is a function descriptor (§3): the rendered declarator text and
// the condition set the definition lives under.
type FuncDecl struct {
	Declarator string
	Conditions *ConditionSet
}

// DefDecl is an object-like #define descriptor.
type DefDecl struct {
	Name       string
	Value      string
	Conditions *ConditionSet
	OrigName   string
}

// Render produces the #define line using Name as given (which may already
// carry an ordinal suffix from collision resolution).
func (d *DefDecl) Render() string {
	return fmt.Sprintf("#define %s %s", d.Name, d.Value)
}

// DefFnDecl is a function-like #define descriptor.
type DefFnDecl struct {
	Name       string
	Params     string
	Value      string
	Conditions *ConditionSet
	OrigName   string
}

// Render produces the #define line for a function-like macro.
func (d *DefFnDecl) Render() string {
	return fmt.Sprintf("#define %s(%s) %s", d.Name, d.Params, d.Value)
}
