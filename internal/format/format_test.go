package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/restcli/internal/graph"
	"github.com/agentic-research/restcli/internal/value"
)

func mustDecode(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := value.Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func TestRender(t *testing.T) {
	records := []graph.Record{
		{Path: "/go", Value: value.NewString("x")},
		{Path: "/languages/C%2FC++", Value: value.NewNumber("1")},
		{Path: "/languages/applications/go", Value: value.NewBool(true)},
		{Path: "/languages/applications/rust", Value: value.NewBool(false)},
		{Path: "/languages/go", Value: value.NewNull()},
		{Path: "/languages/rust", Value: mustDecode(t, `{"a": 1}`)},
	}

	out, err := New(DefaultOptions()).Render(records)
	require.NoError(t, err)

	want := `/go: x
/languages
  .C/C++: 1
  /applications
    /go: yes
    /rust: no
  /go:
  /rust:
    a 1
`
	assert.Equal(t, want, out)
}

func TestRenderValues(t *testing.T) {
	tests := []struct {
		name  string
		opts  func(*Options)
		input string
		want  string
	}{
		{
			name:  "mapping keeps insertion order",
			input: `{"zeta": "z", "alpha": "a"}`,
			want:  "/r:\n  zeta z\n  alpha a\n",
		},
		{
			name:  "scalar list repeats label",
			input: `["a", "b"]`,
			want:  "/r: a\n/r: b\n",
		},
		{
			name:  "empty list prints label",
			input: `[]`,
			want:  "/r:\n",
		},
		{
			name:  "list of structures uses markers",
			input: `[{"id": 1}, [2, 3]]`,
			want:  "/r:\n  {\n    id 1\n  }\n  {\n    2\n    3\n  }\n",
		},
		{
			name:  "nested mapping",
			input: `{"meta": {"tags": ["x"], "ok": true}}`,
			want:  "/r:\n  meta\n    tags x\n    ok yes\n",
		},
		{
			name:  "singularized labels",
			opts:  func(o *Options) { o.LabelTransform = Singularize },
			input: `{"tags": ["x", "y"]}`,
			want:  "/r:\n  tag x\n  tag y\n",
		},
		{
			name: "custom words and markers",
			opts: func(o *Options) {
				o.YesNo = [2]string{"on", "off"}
				o.ListMarkers = [2]string{"-", "."}
				o.IndentWidth = 4
			},
			input: `[{"up": false}]`,
			want:  "/r:\n    -\n        up off\n    .\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			out, err := New(opts).Render([]graph.Record{{Path: "/r", Value: mustDecode(t, tt.input)}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRenderLeafGroup(t *testing.T) {
	records := []graph.Record{
		{Path: "/a", Value: value.NewString("v")},
		{Path: "/a/b", Value: value.NewString("w")},
	}
	out, err := New(DefaultOptions()).Render(records)
	require.NoError(t, err)
	assert.Equal(t, "/a:\n  v\n  /b: w\n", out)
}

func TestRenderEmpty(t *testing.T) {
	out, err := New(DefaultOptions()).Render(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDecodeLabel(t *testing.T) {
	assert.Equal(t, "/plain", DecodeLabel("/plain"))
	assert.Equal(t, "/with space:", DecodeLabel("/with%20space:"))
	assert.Equal(t, ".a.C/C++", DecodeLabel("/a/C%2FC++"))
	assert.Equal(t, "/bad%zz", DecodeLabel("/bad%zz"))
}

// parseTree rebuilds full record paths from rendered output whose values
// are single-word strings.
func parseTree(t *testing.T, out string, width int) []string {
	t.Helper()
	var stack []string
	var found []string
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		level := (len(line) - len(trimmed)) / width
		require.LessOrEqual(t, level, len(stack), "line %q skips a level", line)
		stack = stack[:level]

		label, _, hasValue := strings.Cut(trimmed, " ")
		if !strings.HasPrefix(label, "/") {
			continue // bare value under a leaf header
		}
		full := strings.Join(stack, "") + strings.TrimSuffix(label, ":")
		switch {
		case hasValue:
			found = append(found, full)
		case strings.HasSuffix(label, ":"):
			found = append(found, full)
			stack = append(stack, strings.TrimSuffix(label, ":"))
		default:
			stack = append(stack, label)
		}
	}
	return found
}

func TestRenderRoundTrip(t *testing.T) {
	paths := []string{
		"/a",
		"/a/b",
		"/a/b/c/d",
		"/a/b/c/e",
		"/a/x",
		"/b/y/z",
		"/c",
		"/d/1",
		"/d/2/3",
		"/d/2/4",
		"/d/2/4/5",
	}
	records := make([]graph.Record, len(paths))
	for i, p := range paths {
		records[i] = graph.Record{Path: p, Value: value.NewString("v")}
	}

	out, err := New(DefaultOptions()).Render(records)
	require.NoError(t, err)
	assert.Equal(t, paths, parseTree(t, out, 2), "rendered:\n%s", out)
}
