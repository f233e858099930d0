package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trivialInstance = `trivial
3
0 0 0 0
1 10 0 1
2 0 10 1
3 -10 0 1
`

func TestRunSolvesTrivialInstanceAndWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "trivial.vrp")
	out := filepath.Join(dir, "trivial.sol")
	require.NoError(t, os.WriteFile(in, []byte(trivialInstance), 0o644))

	code := run([]string{
		"-i", in,
		"-o", out,
		"-t", "500ms",
		"--iterations", "500",
		"--min_pop_size", "8",
		"--generation_size", "6",
		"--seed", "7",
		"--log-level", "error",
	})
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Cost ")
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
}

func TestRunReportsExitCodeTwoOnInfeasibleInstance(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.vrp")
	out := filepath.Join(dir, "bad.sol")
	const overload = "overload\n3\n0 0 0 0\n1 1 0 5\n"
	require.NoError(t, os.WriteFile(in, []byte(overload), 0o644))

	code := run([]string{"-i", in, "-o", out, "--log-level", "error"})
	assert.Equal(t, 2, code)
}

func TestRunReportsExitCodeOneOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{"-i", filepath.Join(dir, "missing.vrp"), "-o", filepath.Join(dir, "out.sol")})
	assert.Equal(t, 1, code)
}

func TestRunReportsExitCodeOneOnMalformedInstance(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "malformed.vrp")
	out := filepath.Join(dir, "out.sol")
	require.NoError(t, os.WriteFile(in, []byte("name\nnot-a-number\n"), 0o644))

	code := run([]string{"-i", in, "-o", out})
	assert.Equal(t, 1, code)
}
