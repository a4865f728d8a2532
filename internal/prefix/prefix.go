// Package prefix compresses a sorted list of slash-separated paths into
// nested runs of shared leading segments.
//
// A run describes a contiguous block of the input that shares the run's
// text. Runs never point at each other: nesting is implied by range
// containment, so a renderer can rebuild the hierarchy with a single
// left-to-right scan and a bounded stack of open runs.
package prefix

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// MaxDepth bounds the number of segments in a path.
const MaxDepth = 16

var (
	ErrTooDeep     = errors.New("path exceeds maximum depth")
	ErrNotAbsolute = errors.New("path must start with '/'")
)

// Prefix is a run of shared segments covering paths[Start:End]. Text holds
// one or more segments, each with its leading separator.
type Prefix struct {
	Text  string
	Start int
	End   int
}

func (p Prefix) Len() int { return p.End - p.Start }

type path struct {
	raw    string
	tokens Stack[string]
}

func parsePath(raw string) (path, error) {
	if !strings.HasPrefix(raw, "/") {
		return path{}, fmt.Errorf("%q: %w", raw, ErrNotAbsolute)
	}
	p := path{raw: raw}
	for _, tok := range strings.Split(strings.Trim(raw, "/"), "/") {
		if err := p.tokens.Push(tok); err != nil {
			return path{}, fmt.Errorf("%q: %w", raw, err)
		}
	}
	return p, nil
}

func (p *path) depth() int { return p.tokens.Len() }

// pop removes the last n segments and returns them as text.
func (p *path) pop(n int) string {
	if n == 0 {
		return ""
	}
	remain := p.tokens.Len() - n
	length := 0
	for i := remain; i < p.tokens.Len(); i++ {
		length += len(p.tokens.At(i)) + 1
	}
	suffix := p.raw[len(p.raw)-length:]
	p.raw = p.raw[:len(p.raw)-length]
	p.tokens.Truncate(remain)
	return suffix
}

// shared counts the leading segments p and other have in common.
func (p *path) shared(other *path) int {
	n := 0
	for n < p.depth() && n < other.depth() && p.tokens.At(n) == other.tokens.At(n) {
		n++
	}
	return n
}

// Build computes the prefix runs of paths, which must be sorted and start
// with '/'. Runs are returned in ascending Start order, outer runs before
// the runs they contain.
//
// The scan walks backwards keeping, for each depth of a reference path, the
// number of consecutive paths sharing that depth's segment. When a path
// diverges, each deeper level closes: singletons are dropped, and chains of
// levels with equal counts collapse into one multi-segment run.
func Build(paths []string) ([]Prefix, error) {
	total := len(paths)
	if total == 0 {
		return nil, nil
	}

	ref, err := parsePath(paths[total-1])
	if err != nil {
		return nil, err
	}
	var counts Stack[int]
	if err := counts.Fill(ref.depth(), 1); err != nil {
		return nil, err
	}

	var runs []Prefix
	for index := 1; index < total; index++ {
		p, err := parsePath(paths[total-1-index])
		if err != nil {
			return nil, err
		}
		shared := ref.shared(&p)
		for i := 0; i < shared; i++ {
			counts.Set(i, counts.At(i)+1)
		}
		runs = closeRuns(runs, &ref, &counts, shared, index)
		counts.Truncate(ref.depth())
		if p.depth() > ref.depth() {
			if err := counts.Fill(p.depth(), 1); err != nil {
				return nil, err
			}
			ref = p
		}
	}
	runs = closeRuns(runs, &ref, &counts, 0, total)

	// Runs were collected in reverse index space, innermost first.
	slices.Reverse(runs)
	for i := range runs {
		runs[i].Start, runs[i].End = total-runs[i].End, total-runs[i].Start
	}
	return runs, nil
}

// closeRuns ends every level of ref deeper than shared, deepest first.
// index is the reverse-space position at which those runs stop.
func closeRuns(runs []Prefix, ref *path, counts *Stack[int], shared, index int) []Prefix {
	length := 1
	for i := ref.depth() - 1; i >= shared; i-- {
		n := counts.At(i)
		switch {
		case n == 1:
			ref.pop(1)
		case i == 0 || n < counts.At(i-1):
			runs = append(runs, Prefix{Text: ref.pop(length), Start: index - n, End: index})
			length = 1
		default:
			// Same count as the parent level: merge into the parent's label.
			length++
		}
	}
	return runs
}
