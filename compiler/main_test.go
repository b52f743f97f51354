package main

import (
	"bytes"
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minProgram = "a,b:float;{input(a);input(b);if(a<b)output(a);else output(b);}"

func writeSource(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(paths []string, opts options) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), paths, opts, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestOutputPathFor(t *testing.T) {
	testData := []struct {
		path     string
		expected string
	}{
		{path: "min.ou", expected: "min.qud"},
		{path: "dir/prog.ou", expected: "dir/prog.qud"},
		{path: "a.b.ou", expected: "a.b.qud"},
	}
	for _, data := range testData {
		assert.True(t, isCPLFile(data.path))
		assert.Equal(t, data.expected, outputPathFor(data.path))
	}
	assert.False(t, isCPLFile("min.txt"))
	assert.False(t, isCPLFile("min.ou.bak"))
	assert.False(t, isCPLFile("ou"))
}

func TestRun_Compile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "min.ou", minProgram)
	code, stdout, stderr := runCLI([]string{path}, options{signature: "by cpq"})
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
	content, err := os.ReadFile(filepath.Join(dir, "min.qud"))
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	assert.Equal(t, "RINPUT a", lines[0])
	assert.Equal(t, "HALT", lines[len(lines)-2])
	assert.Equal(t, "by cpq", lines[len(lines)-1])
}

func TestRun_OutputAndVerbose(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "min.ou", minProgram)
	target := filepath.Join(dir, "custom.out")
	code, stdout, stderr := runCLI([]string{path}, options{output: target, verbose: true, signature: "sig"})
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasSuffix(stdout, "HALT\n"))
	assert.Contains(t, stderr, "[cpq]: compiling "+path)
	assert.Contains(t, stderr, "[cpq]: saved "+target)
	_, err := os.Stat(filepath.Join(dir, "min.qud"))
	assert.True(t, os.IsNotExist(err))
	content, err := os.ReadFile(target)
	require.Nil(t, err)
	assert.Equal(t, stdout+"sig\n", string(content))
}

func TestRun_CompileErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "bad.ou", "a:int;b:float;\n{a=b;\n}")
	code, _, stderr := runCLI([]string{path}, options{})
	assert.Equal(t, 1, code)
	assert.Equal(t, "line 2: type mismatch: cannot assign float to int variable a\n", stderr)
	_, err := os.Stat(filepath.Join(dir, "bad.qud"))
	assert.True(t, os.IsNotExist(err), "no output file on errors")
}

func TestRun_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeSource(t, dir, "first.ou", minProgram)
	bad := writeSource(t, dir, "bad.ou", "x:int;{y=1;}")
	second := writeSource(t, dir, "second.ou", "x:int;{input(x);output(x*2);}")
	wrongExt := writeSource(t, dir, "third.cpl", minProgram)
	code, _, stderr := runCLI([]string{first, bad, second, wrongExt}, options{signature: "s"})
	assert.Equal(t, 1, code)
	assert.Equal(t, bad+": line 1: undeclared identifier \"y\"\n"+wrongExt+": not a .ou file\n", stderr)
	for _, name := range []string{"first.qud", "second.qud"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.Nil(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, "bad.qud"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_Tokens(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "tokens.ou", "a:int;\n{a = 1 @;}")
	code, stdout, stderr := runCLI([]string{path}, options{tokens: true})
	assert.Equal(t, 1, code)
	assert.Equal(t, "line 2: bad character '@'\n", stderr)
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "1\tID\ta", lines[0])
	assert.Equal(t, "2\tNUM\t1", lines[7])
	_, err := os.Stat(filepath.Join(dir, "tokens.qud"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(nil, options{})
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: cpq")

	code, _, stderr = runCLI([]string{"a.ou", "b.ou"}, options{output: "x.qud"})
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "-o can only be used with a single source file")

	code, _, stderr = runCLI([]string{filepath.Join(t.TempDir(), "missing.ou")}, options{})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "[cpq]: failed to read")
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestRun_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "min.ou", minProgram)
	var stderr bytes.Buffer
	code := run(context.Background(), []string{path}, options{verbose: true}, brokenWriter{}, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[cpq]: failed to write messages, err: broken pipe")
	// the generated file is still saved.
	_, err := os.Stat(filepath.Join(dir, "min.qud"))
	assert.Nil(t, err)
}
