package frontmatter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMarshal_Empty(t *testing.T) {
	out, err := Marshal(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestMarshal_SortedAndStable(t *testing.T) {
	fields := map[string]any{"b": "two", "a": "one", "c": 3}

	first, err := Marshal(fields)
	require.NoError(t, err)
	second, err := Marshal(fields)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
	require.Equal(t, "a: one\nb: two\nc: 3\n", string(first))
}

func TestMarshal_NestedValues(t *testing.T) {
	fields := map[string]any{
		"outer": map[string]any{"b": 2, "a": 1},
		"list": []any{
			map[any]any{"k2": true, "k1": nil},
			"plain",
		},
	}
	out, err := Marshal(fields)
	require.NoError(t, err)
	require.Equal(t, "list:\n  - k1: null\n    k2: true\n  - plain\nouter:\n  a: 1\n  b: 2\n", string(out))
}

func TestMarshal_Numbers(t *testing.T) {
	out, err := Marshal(map[string]any{
		"f":  2.5,
		"i":  int64(-7),
		"n":  json.Number("12"),
		"nf": json.Number("1.25"),
	})
	require.NoError(t, err)
	require.Equal(t, "f: 2.5\ni: -7\nn: 12\nnf: 1.25\n", string(out))
}

func TestMarshal_StringsThatLookLikeOtherTypes(t *testing.T) {
	out, err := Marshal(map[string]any{"v": "2017", "w": "true"})
	require.NoError(t, err)

	doc, err := Parse(append(append([]byte("---\n"), out...), []byte("---\n")...))
	require.NoError(t, err)
	require.Equal(t, "2017", doc.Fields["v"])
	require.Equal(t, "true", doc.Fields["w"])
}

func TestMarshal_FallbackTypes(t *testing.T) {
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out, err := Marshal(map[string]any{"when": ts})
	require.NoError(t, err)
	require.Equal(t, "when: 2024-05-01T00:00:00Z\n", string(out))
}
