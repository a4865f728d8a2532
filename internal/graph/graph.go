// Package graph holds the flat, sorted record list produced by a resolve
// pass and answers directory-style queries over it with binary search.
//
// There is no materialized tree: a virtual directory "/a/b/" is simply the
// contiguous block of records whose Path starts with that prefix.
package graph

import (
	"errors"
	"slices"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/restcli/internal/value"
)

var ErrNotFound = errors.New("record not found")

// Record is a fully-qualified path and the value stored at it.
type Record struct {
	Path  string
	Value value.Value
}

// Snapshot is an immutable sorted record list. Build it with NewSnapshot and
// replace it wholesale; never mutate one in place.
type Snapshot struct {
	records  []Record
	deferred *roaring.Bitmap // indices of entity records whose children were not fetched
	root     string
}

// NewSnapshot sorts records by Path and drops duplicate paths, keeping the
// first occurrence. deferred lists the paths of records whose children were
// skipped. root is the deepest prefix the resolve pass fully expanded.
func NewSnapshot(records []Record, deferred []string, root string) *Snapshot {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int { return strings.Compare(a.Path, b.Path) })
	sorted = slices.CompactFunc(sorted, func(a, b Record) bool { return a.Path == b.Path })

	if root == "" {
		root = "/"
	}
	s := &Snapshot{records: sorted, deferred: roaring.New(), root: root}
	for _, p := range deferred {
		if i, ok := s.index(p); ok {
			s.deferred.Add(uint32(i))
		}
	}
	return s
}

// Empty returns a snapshot with no records.
func Empty() *Snapshot { return NewSnapshot(nil, nil, "/") }

func (s *Snapshot) Len() int { return len(s.records) }

// Records returns the full sorted list. Callers must not modify it.
func (s *Snapshot) Records() []Record { return s.records }

// Root is the prefix under which every entity was expanded.
func (s *Snapshot) Root() string { return s.root }

// More reports whether some entity expansions were skipped.
func (s *Snapshot) More() bool { return !s.deferred.IsEmpty() }

func (s *Snapshot) DeferredCount() uint64 { return s.deferred.GetCardinality() }

// Locate returns the index of the first record whose Path is >= prefix.
func (s *Snapshot) Locate(prefix string) int {
	return sort.Search(len(s.records), func(i int) bool {
		return s.records[i].Path >= prefix
	})
}

// Range returns the half-open index interval of records whose Path starts
// with prefix.
func (s *Snapshot) Range(prefix string) (start, end int) {
	start = s.Locate(prefix)
	rest := s.records[start:]
	end = start + sort.Search(len(rest), func(i int) bool {
		return !strings.HasPrefix(rest[i].Path, prefix)
	})
	return start, end
}

func (s *Snapshot) index(path string) (int, bool) {
	i := s.Locate(path)
	return i, i < len(s.records) && s.records[i].Path == path
}

// Lookup returns the record stored exactly at path.
func (s *Snapshot) Lookup(path string) (Record, error) {
	i, ok := s.index(path)
	if !ok {
		return Record{}, ErrNotFound
	}
	return s.records[i], nil
}

// IsDeferred reports whether the record at path had its children skipped.
func (s *Snapshot) IsDeferred(path string) bool {
	i, ok := s.index(path)
	return ok && s.deferred.Contains(uint32(i))
}

// Dir returns the records listed for the directory dir, which must end in
// "/": the record named by dir itself, if any, followed by everything below.
func (s *Snapshot) Dir(dir string) []Record {
	if dir == "/" {
		return s.records
	}
	start, end := s.Range(dir)
	if rec, err := s.Lookup(strings.TrimSuffix(dir, "/")); err == nil {
		// The exact record sorts before "dir/" but records such as "dir!"
		// may sit between them, so it cannot simply extend the range.
		out := make([]Record, 0, end-start+1)
		out = append(out, rec)
		return append(out, s.records[start:end]...)
	}
	return s.records[start:end]
}

// Exists reports whether dir names a record or a non-empty virtual directory.
func (s *Snapshot) Exists(dir string) bool {
	if dir == "/" {
		return true
	}
	if _, err := s.Lookup(strings.TrimSuffix(dir, "/")); err == nil {
		return true
	}
	start, end := s.Range(dir)
	return end > start
}

// NeedsExpansion reports whether listing dir requires a fresh resolve pass:
// some expansion was skipped and dir is either outside Root or inside an
// entity whose children were never fetched.
func (s *Snapshot) NeedsExpansion(dir string) bool {
	if !s.More() {
		return false
	}
	if !strings.HasPrefix(dir, s.root) {
		return true
	}
	for p := strings.TrimSuffix(dir, "/"); p != ""; p = p[:strings.LastIndex(p, "/")] {
		if s.IsDeferred(p) {
			return true
		}
	}
	return false
}
