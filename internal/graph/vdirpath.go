package graph

import (
	"path"
	"strings"
)

// Virtual directory path helpers used by the session navigator. Cursors
// always end in "/" and "/" is the root.

// ResolveDir applies a cd argument to cursor and returns the candidate
// directory. ".." moves to the parent ("/" stays "/"), "/abs" is absolute and
// anything else is relative to cursor. An empty argument returns cursor.
func ResolveDir(cursor, arg string) string {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "":
		return cursor
	case arg == "..":
		return ParentDir(cursor)
	case strings.HasPrefix(arg, "/"):
		return AsDir(path.Clean(arg))
	default:
		return AsDir(path.Clean(cursor + arg))
	}
}

// ParentDir returns the directory above dir.
// E.g. "/a/b/" → "/a/", "/a/" → "/", "/" → "/".
func ParentDir(dir string) string {
	trimmed := strings.TrimSuffix(dir, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return "/"
	}
	return trimmed[:idx+1]
}

// AsDir appends the trailing separator if p lacks one.
func AsDir(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// SplitPath splits a record path into its parent directory and last segment.
// E.g. "/users/1/name" → ("/users/1/", "name").
func SplitPath(p string) (dir, name string) {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return "/", p
	}
	return p[:idx+1], p[idx+1:]
}
