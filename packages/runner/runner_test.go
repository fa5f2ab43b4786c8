package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/referee/packages/assertions"
	"github.com/abdul-hamid-achik/referee/packages/casefile"
	"github.com/abdul-hamid-achik/referee/packages/referee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `
name: users
cases:
  - name: has a name
    actual: {name: Ann, age: 30}
    match: {name: Ann}
  - name: wrong name
    actual: {name: Ann}
    match: {name: Bob}
  - name: not an admin
    actual: {admin: false}
    refute: {admin: true}
  - name: broken matcher
    actual: 1
    match: null
  - name: later
    actual: 1
    match: 1
    skip: not ready
`

func newRunner(t *testing.T, cfg *Config) *Runner {
	t.Helper()
	r, err := assertions.NewReferee()
	require.NoError(t, err)
	return NewRunner(r, cfg)
}

func parse(t *testing.T) *casefile.Document {
	t.Helper()
	doc, err := casefile.Parse([]byte(document), "")
	require.NoError(t, err)
	return doc
}

func TestRunner_Run(t *testing.T) {
	result := newRunner(t, nil).Run(parse(t))

	assert.Equal(t, "users", result.Name)
	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Results, 5)

	assert.True(t, result.Results[0].Passed)

	wrong := result.Results[1]
	assert.False(t, wrong.Passed)
	assert.Equal(t, `{ name: "Ann" } expected to match { name: "Bob" }`, wrong.Message)
	assert.NoError(t, wrong.Error)

	assert.True(t, result.Results[2].Passed)
	assert.Equal(t, "refute", result.Results[2].Operator)

	broken := result.Results[3]
	assert.False(t, broken.Passed)
	assert.Equal(t, "Matcher (null) was not a string, a number, a function, a boolean or an object", broken.Message)

	later := result.Results[4]
	assert.True(t, later.Skipped)
	assert.Equal(t, "not ready", later.SkipReason)
}

func TestRunner_Bail(t *testing.T) {
	result := newRunner(t, &Config{Bail: true}).Run(parse(t))

	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, "bail", result.Results[2].SkipReason)
}

func TestRunner_NameFilter(t *testing.T) {
	result := newRunner(t, &Config{NameFilter: "ADMIN"}).Run(parse(t))

	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 4, result.Skipped)
}

func TestRunner_Parallel(t *testing.T) {
	sequential := newRunner(t, nil).Run(parse(t))
	parallel := newRunner(t, &Config{Parallel: true, Concurrency: 2}).Run(parse(t))

	require.Len(t, parallel.Results, len(sequential.Results))
	for i := range sequential.Results {
		assert.Equal(t, sequential.Results[i].Name, parallel.Results[i].Name)
		assert.Equal(t, sequential.Results[i].Passed, parallel.Results[i].Passed)
		assert.Equal(t, sequential.Results[i].Message, parallel.Results[i].Message)
	}
}

func TestRunner_UsesRefereeTemplates(t *testing.T) {
	r := referee.New(referee.WithMessages(map[string]string{
		"assert.match": "${customMessage}nope",
	}))
	require.NoError(t, assertions.Register(r))

	doc, err := casefile.Parse([]byte("cases:\n  - actual: 1\n    match: 2\n    message: numbers\n"), "")
	require.NoError(t, err)

	result := NewRunner(r, nil).Run(doc)
	assert.Equal(t, "numbers: nope", result.Results[0].Message)
	assert.Equal(t, int64(1), r.Count())
}

func TestRunner_RunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.match.yaml")
	require.NoError(t, os.WriteFile(path, []byte(document), 0644))

	result, err := newRunner(t, nil).RunFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, result.File)
	assert.Len(t, result.Results, 5)

	_, err = newRunner(t, nil).RunFile(filepath.Join(t.TempDir(), "missing.match.yaml"))
	assert.Error(t, err)
}
