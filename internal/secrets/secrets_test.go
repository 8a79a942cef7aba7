package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pokedex-go/internal/errors"
)

func TestExpandString(t *testing.T) {
	t.Setenv("POKEDEX_TEST_TOKEN", "secret123")
	t.Setenv("POKEDEX_TEST_EMPTY", "")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty", input: "", want: ""},
		{name: "literal", input: "literal-value", want: "literal-value"},
		{name: "variable", input: "${POKEDEX_TEST_TOKEN}", want: "secret123"},
		{name: "prefix and suffix", input: "Bearer ${POKEDEX_TEST_TOKEN}!", want: "Bearer secret123!"},
		{name: "fallback unused", input: "${POKEDEX_TEST_TOKEN:-other}", want: "secret123"},
		{name: "fallback used", input: "${POKEDEX_TEST_MISSING:-other}", want: "other"},
		{name: "empty fallback", input: "${POKEDEX_TEST_MISSING:-}", want: ""},
		{name: "empty variable treated as missing", input: "${POKEDEX_TEST_EMPTY}", wantErr: true},
		{name: "missing", input: "${POKEDEX_TEST_MISSING}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	got, err := ReadFile(write("jwt", "s3cret\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	got, err = ReadFile(write("spaces", "  padded  \r\n"))
	require.NoError(t, err)
	assert.Equal(t, "  padded  ", got)

	_, err = ReadFile(write("empty", "\n"))
	require.Error(t, err)

	_, err = ReadFile(filepath.Join(dir, "missing"))
	require.Error(t, err)

	_, err = ReadFile(dir)
	require.Error(t, err)

	_, err = ReadFile("")
	require.Error(t, err)
}

func TestResolvePrefersFile(t *testing.T) {
	t.Setenv("POKEDEX_TEST_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))

	got, err := Resolve(path, "${POKEDEX_TEST_TOKEN}")
	require.NoError(t, err)
	assert.Equal(t, "from-file", got)

	got, err = Resolve("", "${POKEDEX_TEST_TOKEN}")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	got, err = Resolve("", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
