package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Conf is the conf.json shape: macro name -> list of values, nil meaning
// "leave the macro undefined" (grounded on the original's conf.json,
// loaded via json.load(open(conf_path)) in patch_test.py).
type Conf map[string][]*int

// Assignment is one concrete choice of macro -> value (or undefined) drawn
// from the Cartesian product of a Conf.
type Assignment map[string]*int

// Key renders a canonical, sorted string form of the assignment for use as
// a cache key.
func (a Assignment) Key() string {
	names := make([]string, 0, len(a))
	for n := range a {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, n := range names {
		if v := a[n]; v != nil {
			fmt.Fprintf(&b, "%s=%d;", n, *v)
		} else {
			fmt.Fprintf(&b, "%s=undef;", n)
		}
	}
	return b.String()
}

// Env renders the assignment as "NAME=value" pairs for a defined macro
// subset, matching env_conf in patch_test.py (undefined macros are simply
// absent from the environment).
func (a Assignment) Env() []string {
	var env []string
	for n, v := range a {
		if v != nil {
			env = append(env, fmt.Sprintf("%s=%d", n, *v))
		}
	}
	sort.Strings(env)
	return env
}

// DefineFlags renders "-DNAME=value" flags for the compiler invocation
// that builds the original source with macros baked in at compile time.
func (a Assignment) DefineFlags() []string {
	var flags []string
	for n, v := range a {
		if v != nil {
			flags = append(flags, fmt.Sprintf("-D%s=%d", n, *v))
		}
	}
	sort.Strings(flags)
	return flags
}

// Assignments expands conf into the Cartesian product of its macro value
// lists, mirroring patch_test.py's itertools.product(*conf_set_tup_gen).
func Assignments(conf Conf) []Assignment {
	names := make([]string, 0, len(conf))
	for n := range conf {
		names = append(names, n)
	}
	sort.Strings(names)

	combos := []Assignment{{}}
	for _, name := range names {
		var next []Assignment
		for _, prefix := range combos {
			for _, v := range conf[name] {
				combo := make(Assignment, len(prefix)+1)
				for k, pv := range prefix {
					combo[k] = pv
				}
				combo[name] = v
				next = append(next, combo)
			}
		}
		combos = next
	}
	return combos
}

// LoadConf reads a conf.json fixture file.
func LoadConf(path string) (Conf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string][]*json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	conf := make(Conf, len(raw))
	for name, vals := range raw {
		vs := make([]*int, len(vals))
		for i, v := range vals {
			if v == nil {
				vs[i] = nil
				continue
			}
			n, err := strconv.Atoi(v.String())
			if err != nil {
				return nil, fmt.Errorf("conf.json: macro %s value %q not an int: %w", name, v.String(), err)
			}
			vs[i] = &n
		}
		conf[name] = vs
	}
	return conf, nil
}

// Outcome is the comparison result for one assignment.
type Outcome struct {
	Assignment         Assignment
	Equivalent         bool
	AssertedAsExpected bool
	Detail             string
}

// Run drives the full differential comparison for one fixture directory
// (expected to contain orig.c and conf.json) against a pre-rewritten
// source file at postPath, mirroring check_patch_equiv in patch_test.py.
func Run(compiler, dirPath, postPath string, cache *Cache) ([]Outcome, error) {
	origPath := filepath.Join(dirPath, "orig.c")
	confPath := filepath.Join(dirPath, "conf.json")

	conf, err := LoadConf(confPath)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "rtpreproc-harness-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	postBin := filepath.Join(tmpDir, "post")
	if out, err := exec.Command(compiler, postPath, "-o", postBin).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("compiling rewritten source: %w: %s", err, out)
	}

	var outcomes []Outcome
	for _, assignment := range Assignments(conf) {
		if cache != nil {
			if cached, ok := cache.Get(assignment.Key()); ok {
				outcomes = append(outcomes, outcomeFromCache(assignment, cached, postBin))
				continue
			}
		}

		origBin := filepath.Join(tmpDir, "orig")
		compileArgs := append([]string{origPath}, assignment.DefineFlags()...)
		compileArgs = append(compileArgs, "-o", origBin)
		compileErr := exec.Command(compiler, compileArgs...).Run()

		outcome := Outcome{Assignment: assignment}
		if compileErr != nil {
			outcome.AssertedAsExpected, outcome.Detail, err = runExpectAssert(postBin, assignment)
			if err != nil {
				return nil, err
			}
			if cache != nil {
				cache.Put(assignment.Key(), &Result{ShouldAssert: true})
			}
			outcomes = append(outcomes, outcome)
			continue
		}

		origOut, origCode, err := runBinary(origBin, nil)
		if err != nil {
			return nil, err
		}
		postOut, postCode, err := runBinary(postBin, assignment.Env())
		if err != nil {
			return nil, err
		}

		outcome.Equivalent = bytes.Equal(origOut, postOut) && origCode == postCode
		if cache != nil {
			cache.Put(assignment.Key(), &Result{Stdout: origOut, ExitCode: origCode})
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// runExpectAssert runs the rewritten binary and checks the undefined
// guardrail fires: non-zero exit and "Assertion " on stderr (§8 "Undefined
// guardrail", mirroring patch_test.py's should_fail_assert branch).
func runExpectAssert(bin string, assignment Assignment) (bool, string, error) {
	cmd := exec.Command(bin)
	cmd.Env = assignment.Env()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitErr, isExit := err.(*exec.ExitError)
	nonZero := isExit && exitErr.ExitCode() != 0
	hasAssertion := strings.Contains(stderr.String(), "Assertion ")
	if !nonZero || !hasAssertion {
		return false, stderr.String(), nil
	}
	return true, stderr.String(), nil
}

func runBinary(bin string, env []string) ([]byte, int, error) {
	cmd := exec.Command(bin)
	if env != nil {
		cmd.Env = env
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		return nil, 0, err
	}
	return stdout.Bytes(), code, nil
}

func outcomeFromCache(assignment Assignment, cached *Result, postBin string) Outcome {
	if cached.ShouldAssert {
		ok, detail, _ := runExpectAssert(postBin, assignment)
		return Outcome{Assignment: assignment, AssertedAsExpected: ok, Detail: detail}
	}
	postOut, postCode, err := runBinary(postBin, assignment.Env())
	if err != nil {
		return Outcome{Assignment: assignment, Detail: err.Error()}
	}
	return Outcome{
		Assignment: assignment,
		Equivalent: bytes.Equal(cached.Stdout, postOut) && cached.ExitCode == postCode,
	}
}
