package prefix

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  []Prefix
	}{
		{
			name: "nested groups",
			paths: []string{
				"/go",
				"/languages/C%2FC++",
				"/languages/applications/go",
				"/languages/applications/rust",
				"/languages/go",
				"/languages/rust",
			},
			want: []Prefix{
				{Text: "/languages", Start: 1, End: 6},
				{Text: "/applications", Start: 2, End: 4},
			},
		},
		{
			name:  "single child chain merges",
			paths: []string{"/a/b/c", "/a/b/d"},
			want:  []Prefix{{Text: "/a/b", Start: 0, End: 2}},
		},
		{
			name:  "leaf that is also a group",
			paths: []string{"/a", "/a/b"},
			want:  []Prefix{{Text: "/a", Start: 0, End: 2}},
		},
		{
			name:  "no shared segments",
			paths: []string{"/a", "/b", "/c"},
			want:  nil,
		},
		{
			name:  "single path",
			paths: []string{"/only/one/path"},
			want:  nil,
		},
		{
			name:  "shared group at start",
			paths: []string{"/x/1", "/x/2", "/y"},
			want:  []Prefix{{Text: "/x", Start: 0, End: 2}},
		},
		{
			name:  "chain below a branching level",
			paths: []string{"/a/b/c/1", "/a/b/c/2", "/a/d"},
			want: []Prefix{
				{Text: "/a", Start: 0, End: 3},
				{Text: "/b/c", Start: 0, End: 2},
			},
		},
		{
			name:  "empty",
			paths: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.paths)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildDeterministic(t *testing.T) {
	paths := []string{
		"/a/b/1", "/a/b/2", "/a/c", "/b/x/y/z", "/b/x/y/zz", "/c",
	}
	first, err := Build(paths)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Build(paths)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// Every run must cover exactly the paths that start with the text
// accumulated from its enclosing runs, and no run may be a singleton.
func TestBuildRunsMatchPrefixes(t *testing.T) {
	paths := []string{
		"/a/b/1", "/a/b/2", "/a/c", "/b/x/y/z", "/b/x/y/zz", "/c",
		"/d/e", "/d/f/g", "/d/f/h",
	}
	runs, err := Build(paths)
	require.NoError(t, err)
	require.NotEmpty(t, runs)

	var open []Prefix
	var texts []string
	for _, r := range runs {
		for len(open) > 0 && open[len(open)-1].End <= r.Start {
			open = open[:len(open)-1]
			texts = texts[:len(texts)-1]
		}
		if len(open) > 0 {
			parent := open[len(open)-1]
			assert.True(t, r.Start >= parent.Start && r.End <= parent.End, "run %v not inside %v", r, parent)
		}
		open = append(open, r)
		texts = append(texts, r.Text)

		full := strings.Join(texts, "")
		assert.Greater(t, r.Len(), 1, "singleton run %v", r)
		for i, p := range paths {
			inside := i >= r.Start && i < r.End
			assert.Equal(t, inside, p == full || strings.HasPrefix(p, full+"/"), "path %s vs run %s", p, full)
		}
	}
}

func TestBuildTooDeep(t *testing.T) {
	var b strings.Builder
	for i := 0; i <= MaxDepth; i++ {
		fmt.Fprintf(&b, "/s%d", i)
	}
	_, err := Build([]string{"/a", b.String()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooDeep))
}

func TestBuildRelativePath(t *testing.T) {
	_, err := Build([]string{"a/b"})
	assert.ErrorIs(t, err, ErrNotAbsolute)
}

func TestStack(t *testing.T) {
	var s Stack[int]
	_, ok := s.Top()
	assert.False(t, ok)

	for i := 0; i < MaxDepth; i++ {
		require.NoError(t, s.Push(i))
	}
	assert.ErrorIs(t, s.Push(99), ErrTooDeep)

	top, ok := s.Top()
	assert.True(t, ok)
	assert.Equal(t, MaxDepth-1, top)

	s.Truncate(3)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Pop())
	require.NoError(t, s.Fill(5, 7))
	assert.Equal(t, 7, s.At(4))
}
