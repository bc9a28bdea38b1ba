package symbols

import "github.com/emirpasic/gods/sets/treeset"

// ConditionSet is the conjunction of macro conditions active at a program
// point (§3 "Condition set"). Backed by the same treeset library the
// teacher uses for string sets (jvm/config.go, scala/parser.go), extended
// with a struct comparator.
type ConditionSet struct {
	set *treeset.Set
}

// NewConditionSet builds a ConditionSet from zero or more macros.
func NewConditionSet(macros ...Macro) *ConditionSet {
	s := treeset.NewWith(compareMacros)
	for _, m := range macros {
		s.Add(m)
	}
	return &ConditionSet{set: s}
}

// Add returns a new set with m included, leaving the receiver untouched —
// condition sets are threaded through a context stack (§3 "Context stack")
// and must not alias between sibling frames.
func (c *ConditionSet) Add(m Macro) *ConditionSet {
	next := treeset.NewWith(compareMacros, c.set.Values()...)
	next.Add(m)
	return &ConditionSet{set: next}
}

// Contains reports whether m is in the set.
func (c *ConditionSet) Contains(m Macro) bool {
	return c.set.Contains(m)
}

// Macros returns the set's elements in comparator order.
func (c *ConditionSet) Macros() []Macro {
	vals := c.set.Values()
	out := make([]Macro, len(vals))
	for i, v := range vals {
		out[i] = v.(Macro)
	}
	return out
}

// Size reports the number of conditions in the set.
func (c *ConditionSet) Size() int { return c.set.Size() }

// Difference returns the macros in c that are not in other — used to
// compute a variant's "remainder" condition set relative to the ambient
// context (§4.2.6's build_rename_dict: remainder_macro_set = decl.macro_set
// - ctx_macro_set).
func (c *ConditionSet) Difference(other *ConditionSet) *ConditionSet {
	diff := treeset.NewWith(compareMacros)
	for _, m := range c.Macros() {
		if !other.Contains(m) {
			diff.Add(m)
		}
	}
	return &ConditionSet{set: diff}
}

// IdentSet is the "set of identifier names read inside the subtree" from
// §4.2.1's ident-uses, backed by the teacher's plain string treeset.
type IdentSet struct {
	set *treeset.Set
}

// NewIdentSet builds an IdentSet from zero or more names.
func NewIdentSet(names ...string) *IdentSet {
	s := treeset.NewWithStringComparator()
	for _, n := range names {
		s.Add(n)
	}
	return &IdentSet{set: s}
}

// Union merges two identifier sets without mutating either argument.
func (s *IdentSet) Union(other *IdentSet) *IdentSet {
	if s == nil {
		return other
	}
	if other == nil {
		return s
	}
	return &IdentSet{set: s.set.Union(other.set)}
}

// Contains reports whether name was read in the subtree.
func (s *IdentSet) Contains(name string) bool {
	return s != nil && s.set.Contains(name)
}

// Names returns the set's elements.
func (s *IdentSet) Names() []string {
	if s == nil {
		return nil
	}
	vals := s.set.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}
