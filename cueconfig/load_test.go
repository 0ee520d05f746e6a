package cueconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/filter"
)

func fromSource(t *testing.T, src string) (filter.Config, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	return FromValue(v)
}

func loadCode(t *testing.T, err error) string {
	t.Helper()
	var le *LoadError
	require.True(t, errors.As(err, &le), "expected LoadError, got %v", err)
	return le.Code
}

func TestFromValue_FullConfig(t *testing.T) {
	cfg, err := fromSource(t, `
columns: {
	age:    {type: "numeric"}
	height: {type: "numeric"}
	name:   {type: "string"}
	email:  {type: "string", nullable: true}
}
aliases: {
	and: ["and", "&&"]
	or:  "or"
}
limits: {
	depth:    32
	elements: 128
}
`)
	require.NoError(t, err)

	assert.ElementsMatch(t, filter.StringList{"age", "height"}, cfg.Columns.Numeric)
	assert.ElementsMatch(t, filter.StringList{"name", "email"}, cfg.Columns.String)
	assert.Equal(t, filter.StringList{"email"}, cfg.Columns.Nullable)

	assert.Equal(t, filter.StringList{"and", "&&"}, cfg.Aliases.And)
	assert.Equal(t, filter.StringList{"or"}, cfg.Aliases.Or)
	// Unconfigured roles keep their defaults.
	assert.Equal(t, filter.StringList{"not"}, cfg.Aliases.Not)

	assert.Equal(t, filter.Limits{MaxDepth: 32, MaxElements: 128}, cfg.Limits)
}

func TestFromValue_Defaults(t *testing.T) {
	cfg, err := fromSource(t, `columns: {age: {type: "numeric"}}`)
	require.NoError(t, err)

	assert.Equal(t, filter.DefaultAliases(), cfg.Aliases)
	assert.Equal(t, filter.Limits{}, cfg.Limits)
}

func TestFromValue_ColumnErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code string
	}{
		{"missing columns", `aliases: {and: "and"}`, ErrCodeNoColumns},
		{"empty columns", `columns: {}`, ErrCodeNoColumns},
		{"missing type", `columns: {age: {nullable: true}}`, ErrCodeBadColumn},
		{"bad type", `columns: {age: {type: "date"}}`, ErrCodeBadColumn},
		{"non-bool nullable", `columns: {age: {type: "numeric", nullable: "yes"}}`, ErrCodeBadColumn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fromSource(t, tc.src)
			require.Error(t, err)
			assert.Equal(t, tc.code, loadCode(t, err))
		})
	}
}

func TestFromValue_AliasAndLimitErrors(t *testing.T) {
	_, err := fromSource(t, `
columns: {age: {type: "numeric"}}
aliases: {and: 7}
`)
	require.Error(t, err)
	assert.Equal(t, ErrCodeBadAlias, loadCode(t, err))

	_, err = fromSource(t, `
columns: {age: {type: "numeric"}}
limits: {depth: "deep"}
`)
	require.Error(t, err)
	assert.Equal(t, ErrCodeBadLimit, loadCode(t, err))

	_, err = fromSource(t, `
columns: {age: {type: "numeric"}}
limits: {depth: -1}
`)
	require.Error(t, err)
	assert.Equal(t, ErrCodeBadLimit, loadCode(t, err))
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	src := `
columns: {
	age:  {type: "numeric"}
	name: {type: "string"}
}
limits: {elements: 16}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "filter.cue"), []byte(src), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filter.StringList{"age"}, cfg.Columns.Numeric)
	assert.Equal(t, filter.StringList{"name"}, cfg.Columns.String)
	assert.Equal(t, 16, cfg.Limits.MaxElements)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, loadCode(t, err))
}

func TestLoad_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.cue")
	require.NoError(t, os.WriteFile(file, []byte(`columns: {}`), 0o644))

	_, err := Load(file)
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, loadCode(t, err))
}

func TestLoad_MalformedCUE(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cue"), []byte(`columns: {age: {type:`), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
