package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configFlag, outputFlag, nameFlag, messageFlag = "", "", "", ""
	verboseFlag, noColorFlag, bailFlag, parallelFlag, watchFlag = false, true, false, false, false
	refuteFlag, forceInit = false, false
	concurrencyFlag = 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "pattern", args: []string{"match", `{"name": "Ann", "age": 30}`, `{"name": "Ann"}`}},
		{name: "plain strings", args: []string{"match", "Hello World", "hello"}},
		{name: "regex operator", args: []string{"match", `{"id": "a1"}`, `{"id": {"$regex": "^a\\d$"}}`}},
		{name: "refute", args: []string{"match", "--refute", "[1, 2, 3]", "[3, 2]"}},
		{
			name:    "mismatch",
			args:    []string{"match", `{"name": "Ann", "age": 30}`, `{"name": "Bob"}`},
			wantErr: `{ name: "Ann" } expected to match { name: "Bob" }`,
		},
		{
			name:    "custom message",
			args:    []string{"match", "-m", "numbers", "1", "2"},
			wantErr: "numbers: 1 expected to match 2",
		},
		{
			name:    "null matcher",
			args:    []string{"match", "1", "null"},
			wantErr: "Matcher (null) was not a string, a number, a function, a boolean or an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Contains(t, out, "passed")
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, ExitTestFailure, exitCode(err))
		})
	}
}

func TestMatchCommand_InvalidOperator(t *testing.T) {
	_, err := execute(t, "match", "1", `{"$regex": "("}`)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "pass.match.yaml", `
name: passing
cases:
  - actual: {name: Ann}
    match: {name: Ann}
  - actual: [1, 2, 3]
    match: [2, 3]
`)

	out, err := execute(t, "check", dir, "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.Get(out, "summary.passed").Int())
	assert.Equal(t, int64(0), gjson.Get(out, "summary.failed").Int())
	assert.NotEmpty(t, gjson.Get(out, "runId").String())

	writeDocument(t, dir, "fail.match.yaml", `
cases:
  - name: wrong
    actual: {name: Ann}
    match: {name: Bob}
`)

	out, err = execute(t, "check", dir, "--output", "tap")
	require.Error(t, err)
	assert.Equal(t, ExitTestFailure, exitCode(err))
	assert.Contains(t, out, "not ok")
}

func TestCheckCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))

	writeDocument(t, dir, "broken.match.yaml", "cases: [")
	_, err = execute(t, "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitParseError, exitCode(err))

	_, err = execute(t, "check", dir, "--output", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestValidateAndList(t *testing.T) {
	dir := t.TempDir()
	good := writeDocument(t, dir, "good.match.yaml", `
cases:
  - name: has a name
    actual: {name: Ann}
    match: {name: Ann}
`)

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Valid: "+good)

	out, err = execute(t, "list", good)
	require.NoError(t, err)
	assert.Contains(t, out, "has a name")
	assert.Contains(t, out, `assert { name: "Ann" }`)

	writeDocument(t, dir, "bad.match.yaml", "cases:\n  - actual: 1\n")
	_, err = execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitParseError, exitCode(err))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "referee project initialized")
	assert.FileExists(t, filepath.Join(dir, ".referee.yaml"))
	assert.FileExists(t, filepath.Join(dir, "example.match.yaml"))

	_, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out, err = execute(t, "check", "example.match.yaml", "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, int64(6), gjson.Get(out, "summary.passed").Int())

	_, err = execute(t, "init", "--force")
	require.NoError(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitConfigError, exitCode(withExitCode(ExitConfigError, assert.AnError)))
	assert.Equal(t, ExitTestFailure, exitCode(assert.AnError))
	assert.NoError(t, withExitCode(ExitConfigError, nil))
}

func TestSerialize(t *testing.T) {
	var running, maxRunning, calls atomic.Int32
	onChange := serialize(func(string) {
		n := running.Add(1)
		for {
			current := maxRunning.Load()
			if n <= current || maxRunning.CompareAndSwap(current, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		calls.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			onChange("cases.match.yaml")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(8), calls.Load())
	assert.Equal(t, int32(1), maxRunning.Load(), "reruns must not overlap")
}
