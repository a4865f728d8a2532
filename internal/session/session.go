// Package session owns the navigation state of one user: the current
// snapshot and the cursor into it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentic-research/restcli/internal/format"
	"github.com/agentic-research/restcli/internal/graph"
)

var ErrNoSuchPath = errors.New("no such path")

// Resolver produces a fresh snapshot expanded towards filter.
type Resolver interface {
	Resolve(ctx context.Context, filter string) (*graph.Snapshot, error)
}

// Status summarizes the session for the status command.
type Status struct {
	Cursor   string
	Records  int
	More     bool
	Root     string
	Deferred uint64
}

func (s Status) String() string {
	return fmt.Sprintf("cursor %s\nrecords %d\nroot %s\nmore %t\ndeferred %d",
		s.Cursor, s.Records, s.Root, s.More, s.Deferred)
}

// Session is safe for concurrent use; operations are serialized.
type Session struct {
	mu        sync.Mutex
	resolver  Resolver
	formatter *format.Formatter
	snap      *graph.HotSwap
	cursor    string
}

// New resolves the initial snapshot at "/".
func New(ctx context.Context, resolver Resolver, formatter *format.Formatter) (*Session, error) {
	snap, err := resolver.Resolve(ctx, "/")
	if err != nil {
		return nil, err
	}
	return &Session{
		resolver:  resolver,
		formatter: formatter,
		snap:      graph.NewHotSwap(snap),
		cursor:    "/",
	}, nil
}

func (s *Session) Cursor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Snapshot returns the current snapshot.
func (s *Session) Snapshot() *graph.Snapshot { return s.snap.Load() }

// ChangeDirectory moves the cursor. ".." goes up, "/x" is absolute and
// anything else is relative. A target with no record at or below it fails
// with ErrNoSuchPath. If the target lies in an unexpanded entity, a new
// snapshot is resolved first; when that fails neither the cursor nor the
// snapshot change.
func (s *Session) ChangeDirectory(ctx context.Context, arg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := graph.ResolveDir(s.cursor, arg)
	if target == s.cursor {
		return nil
	}
	snap := s.snap.Load()
	if !snap.Exists(target) {
		return ErrNoSuchPath
	}
	if snap.NeedsExpansion(target) {
		slog.Debug("expanding", "target", target, "root", snap.Root())
		next, err := s.resolver.Resolve(ctx, target)
		if err != nil {
			return err
		}
		s.snap.Swap(next)
	}
	s.cursor = target
	return nil
}

// Refresh re-resolves the snapshot anchored at the cursor.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.resolver.Resolve(ctx, s.cursor)
	if err != nil {
		return err
	}
	s.snap.Swap(next)
	return nil
}

// List renders the records under the cursor.
func (s *Session) List() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formatter.Render(s.snap.Load().Dir(s.cursor))
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap.Load()
	return Status{
		Cursor:   s.cursor,
		Records:  snap.Len(),
		More:     snap.More(),
		Root:     snap.Root(),
		Deferred: snap.DeferredCount(),
	}
}
