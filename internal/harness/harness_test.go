package harness_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foursquare/rtpreproc/internal/harness"
)

func compilerOrSkip(t *testing.T) string {
	t.Helper()
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "clang"
	}
	if _, err := exec.LookPath(cc); err != nil {
		t.Skipf("no C compiler (%s) on PATH, skipping differential harness test", cc)
	}
	return cc
}

func TestAssignmentsExpandsCartesianProduct(t *testing.T) {
	one, two := 1, 2
	conf := harness.Conf{
		"FOO": {&one, nil},
		"BAR": {&two},
	}
	assignments := harness.Assignments(conf)
	require.Len(t, assignments, 2)
}

func TestRunAgainstGoldenFixture(t *testing.T) {
	cc := compilerOrSkip(t)

	dir := filepath.Join("testdata", "simple_ifdef")
	outcomes, err := harness.Run(cc, dir, filepath.Join(dir, "post.c"), nil)
	require.NoError(t, err)
	require.NotEmpty(t, outcomes)
	for _, o := range outcomes {
		require.True(t, o.Equivalent || o.AssertedAsExpected, "assignment %s: %s", o.Assignment.Key(), o.Detail)
	}
}
