package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/agentic-research/restcli/api"
	"github.com/agentic-research/restcli/internal/extract"
	"github.com/agentic-research/restcli/internal/graph"
	"github.com/agentic-research/restcli/internal/logging"
	"github.com/agentic-research/restcli/internal/prefix"
	"github.com/agentic-research/restcli/internal/value"
)

// node is a compiled api.Endpoint.
type node struct {
	path     string
	expr     *extract.Expr
	entity   bool
	children []*node
}

// Engine resolves the endpoint schema into a record snapshot.
type Engine struct {
	Fetcher Fetcher
	nodes   []*node
}

// NewEngine compiles schema. Invalid expressions and nesting deeper than
// prefix.MaxDepth are reported as *api.SchemaError.
func NewEngine(schema *api.Config, fetcher Fetcher) (*Engine, error) {
	nodes, err := compile(schema.APIs, "/", 1)
	if err != nil {
		return nil, err
	}
	return &Engine{Fetcher: fetcher, nodes: nodes}, nil
}

func compile(eps []api.Endpoint, parent string, depth int) ([]*node, error) {
	out := make([]*node, 0, len(eps))
	for _, ep := range eps {
		where := parent + strings.TrimLeft(ep.Path, "/")
		if depth > prefix.MaxDepth {
			return nil, &api.SchemaError{Path: where, Reason: fmt.Sprintf("nesting exceeds %d levels", prefix.MaxDepth)}
		}
		n := &node{path: ep.Path, entity: ep.Entity}
		if ep.JSONPath != "" {
			x, err := extract.Compile(ep.JSONPath)
			if err != nil {
				return nil, &api.SchemaError{Path: where, Reason: "invalid jsonpath", Err: err}
			}
			n.expr = x
		}
		children, err := compile(ep.APIs, strings.TrimRight(where, "/")+"/*/", depth+1)
		if err != nil {
			return nil, err
		}
		n.children = children
		out = append(out, n)
	}
	return out, nil
}

// Resolve fetches every endpoint and flattens the responses into a sorted
// snapshot. Entity children are expanded only for the entity that filter
// points into; the others are recorded as deferred. The first failed fetch
// aborts the pass with a *FetchError and no snapshot.
func (e *Engine) Resolve(ctx context.Context, filter string) (*graph.Snapshot, error) {
	r := &resolver{ctx: ctx, fetcher: e.Fetcher, filter: filter, root: "/"}
	if err := r.walk(e.nodes, "/"); err != nil {
		return nil, err
	}
	snap := graph.NewSnapshot(r.records, r.deferred, r.root)
	slog.Debug("resolved", "filter", filter, "records", snap.Len(), "root", snap.Root(), "more", snap.More())
	return snap, nil
}

// EncodeSegment turns a response key into a single path segment. Leading
// and trailing separators are trimmed and the rest is percent-encoded, so a
// '/' inside a key cannot split it. "." and ".." are escaped as well since
// cd would clean them away.
func EncodeSegment(key string) string {
	seg := url.PathEscape(strings.Trim(key, "/"))
	if seg == "." || seg == ".." {
		return strings.ReplaceAll(seg, ".", "%2E")
	}
	return seg
}

type resolver struct {
	ctx      context.Context
	fetcher  Fetcher
	filter   string
	records  []graph.Record
	deferred []string
	root     string
}

func (r *resolver) walk(nodes []*node, base string) error {
	for _, n := range nodes {
		target := base + strings.TrimLeft(n.path, "/")
		slog.Debug("fetch", "path", target)
		payload, err := r.fetcher.Fetch(r.ctx, target)
		if err != nil {
			return &FetchError{Path: target, Err: err}
		}

		matches := []value.Value{payload}
		if n.expr != nil {
			matches = n.expr.Select(payload)
			slog.Log(r.ctx, logging.LevelTrace, "extracted", "path", target, "expr", n.expr.String(), "matches", len(matches))
		}
		if len(matches) > 1 {
			matches = r.mergeScalars(target, matches)
		}
		for _, m := range matches {
			if err := r.flatten(n, base, target, m); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeScalars collects the non-mapping matches of one fetch into a single
// sequence record at target, since they would all share that path. The
// mapping matches are returned for flattening.
func (r *resolver) mergeScalars(target string, matches []value.Value) []value.Value {
	var mappings, rest []value.Value
	for _, m := range matches {
		if m.Kind() == value.Mapping {
			mappings = append(mappings, m)
		} else {
			rest = append(rest, m)
		}
	}
	if p := strings.TrimRight(target, "/"); p != "" && len(rest) > 0 {
		r.records = append(r.records, graph.Record{Path: p, Value: value.NewSequence(rest...)})
	}
	return mappings
}

func (r *resolver) flatten(n *node, base, target string, v value.Value) error {
	if v.Kind() != value.Mapping {
		if p := strings.TrimRight(target, "/"); p != "" {
			r.records = append(r.records, graph.Record{Path: p, Value: v})
		}
		return nil
	}

	slog.Log(r.ctx, logging.LevelTrace, "found records", "path", target, "count", len(v.Entries()))
	for _, entry := range v.Entries() {
		seg := EncodeSegment(entry.Key)
		if seg == "" {
			continue
		}
		p := base + seg
		r.records = append(r.records, graph.Record{Path: p, Value: entry.Value})
		if len(n.children) == 0 {
			continue
		}
		if n.entity {
			if !targets(r.filter, p) {
				r.deferred = append(r.deferred, p)
				continue
			}
			if len(p)+1 > len(r.root) {
				r.root = p + "/"
			}
		}
		if err := r.walk(n.children, p+"/"); err != nil {
			return err
		}
	}
	return nil
}

// targets reports whether filter is the entity path p or lies below it.
func targets(filter, p string) bool {
	return filter == p || strings.HasPrefix(filter, p+"/")
}
