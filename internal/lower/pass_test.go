package lower_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/foursquare/rtpreproc/internal/csource"
	"github.com/foursquare/rtpreproc/internal/lower"
	"github.com/foursquare/rtpreproc/internal/printer"
	"github.com/foursquare/rtpreproc/internal/symbols"
)

func macroNamed(name string) symbols.Macro {
	return symbols.Macro{Name: name, Type: "int"}
}

func lowerSource(t *testing.T, src string) string {
	t.Helper()
	parser := csource.NewParser()
	root, err := parser.Parse(context.Background(), "fixture.c", []byte(src))
	require.NoError(t, err)

	pass := lower.NewPass()
	rewritten, err := pass.Run(root)
	require.NoError(t, err)

	return printer.Print(rewritten)
}

func TestPreludeDefinesSentinelAndSetup(t *testing.T) {
	src := `#ifdef FOO
int main() { return 1; }
#else
int main() { return 0; }
#endif
`
	out := lowerSource(t, src)
	require.Contains(t, out, "UNDEFINED_Int")
	require.Contains(t, out, "int setup_env_vars()")
	require.Contains(t, out, `getenv("FOO")`)
}

func TestMainInjectsSetupCall(t *testing.T) {
	src := "int main() { return 0; }\n"
	out := lowerSource(t, src)
	require.Contains(t, out, "setup_env_vars()")
}

func TestIfdefBecomesRuntimeConditional(t *testing.T) {
	src := `int main() {
#ifdef FOO
  return 1;
#else
  return 0;
#endif
}
`
	out := lowerSource(t, src)
	require.Contains(t, out, "FOO != UNDEFINED_Int")
	require.NotContains(t, out, "#ifdef")
}

func TestIfdefCondStackInnermostFirst(t *testing.T) {
	root := lower.Root("scope")
	outer := root.EnterIfdef(macroNamed("OUTER"))
	inner := outer.EnterIfdef(macroNamed("INNER"))

	got := inner.IfdefCondStack()
	require.Len(t, got, 2, "each #ifdef nesting level must contribute exactly one condition")

	names := []string{got[0].Name, got[1].Name}
	if diff := cmp.Diff([]string{"INNER", "OUTER"}, names); diff != "" {
		t.Fatalf("unexpected condition stack order (-want +got):\n%s", diff)
	}
}

func TestIfdefCondStackDoesNotDoubleCountAcrossClone(t *testing.T) {
	root := lower.Root("scope")
	positive := root.EnterIfdef(macroNamed("FOO"))
	// An ordinary descent (what visitChildren does for every child) must
	// not introduce an extra frame on top of the one EnterIfdef pushed.
	descended := positive.Clone().Clone()

	require.Len(t, descended.IfdefCondStack(), 1)
}

func TestNonMainFunctionUnderIfdefGetsSingleAssert(t *testing.T) {
	src := `#ifdef FOO
int f() { return 1; }
#else
int f() { return 2; }
#endif
int main() { return 0; }
`
	out := lowerSource(t, src)

	require.Equal(t, 1, strings.Count(out, "assert(FOO != UNDEFINED_Int);"),
		"the positive arm's lifted f() must assert its condition exactly once, not once per descent")
	require.Equal(t, 1, strings.Count(out, "assert(FOO == UNDEFINED_Int);"),
		"the #else arm's lifted f() must assert its condition exactly once, not once per descent")
}

func TestEmptyTranslationUnitLowersWithoutError(t *testing.T) {
	parser := csource.NewParser()
	root, err := parser.Parse(context.Background(), "empty.c", []byte(""))
	require.NoError(t, err)

	pass := lower.NewPass()
	_, err = pass.Run(root)
	require.NoError(t, err)
}
