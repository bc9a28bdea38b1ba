package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foursquare/rtpreproc/internal/symbols"
)

func TestConditionSetAddDoesNotAliasReceiver(t *testing.T) {
	base := symbols.NewConditionSet()
	extended := base.Add(symbols.Macro{Name: "FOO", Type: "int"})

	require.Equal(t, 0, base.Size())
	require.Equal(t, 1, extended.Size())
}

func TestConditionSetDifference(t *testing.T) {
	foo := symbols.Macro{Name: "FOO", Type: "int"}
	bar := symbols.Macro{Name: "BAR", Type: "int"}

	full := symbols.NewConditionSet(foo, bar)
	ctx := symbols.NewConditionSet(foo)

	remainder := full.Difference(ctx)
	require.Equal(t, []symbols.Macro{bar}, remainder.Macros())
}

func TestTrackerAddScopeVarSuffixesOnCollision(t *testing.T) {
	tracker := symbols.NewTracker()
	scope := "main-body"

	first := tracker.AddScopeVar(scope, symbols.VarDecl{Name: "x", Type: "int"})
	second := tracker.AddScopeVar(scope, symbols.VarDecl{Name: "x", Type: "int"})

	require.Equal(t, "x", first)
	require.Equal(t, "x_2", second)
	require.Len(t, tracker.ScopeVars(scope), 2)
}
