package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_UnsupportedFormat(t *testing.T) {
	_, err := Decode("notes.txt", []byte("x"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, Supported("notes.txt"))
	assert.True(t, Supported("DATA.YML"))
}

func TestDecode_EmptyFiles(t *testing.T) {
	for _, name := range []string{"a.yml", "a.json"} {
		v, err := Decode(name, nil)
		require.NoError(t, err, name)
		assert.Nil(t, v, name)
	}

	v, err := Decode("a.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)
}

func TestDecode_JSONTrailingData(t *testing.T) {
	_, err := Decode("a.json", []byte(`[] []`))
	require.Error(t, err)
}

func TestDecode_TSVShortRows(t *testing.T) {
	v, err := Decode("a.tsv", []byte("name\tcity\tnote\nAda\tLondon\n"))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"name": "Ada", "city": "London", "note": nil}}, v)
}

func TestDecode_YAMLIntegersStayIntegers(t *testing.T) {
	v, err := Decode("a.yaml", []byte("- year: 2017\n"))
	require.NoError(t, err)
	assert.Equal(t, 2017, v.([]any)[0].(map[string]any)["year"])
}
