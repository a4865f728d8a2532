// Package format renders a sorted record list as indented text, grouping
// records under the prefix runs computed by package prefix.
package format

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/agentic-research/restcli/internal/graph"
	"github.com/agentic-research/restcli/internal/prefix"
	"github.com/agentic-research/restcli/internal/value"
)

type Formatter struct {
	opts Options
}

func New(opts Options) *Formatter {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = DefaultOptions().IndentWidth
	}
	return &Formatter{opts: opts}
}

// Render returns the text produced by Write.
func (f *Formatter) Render(records []graph.Record) (string, error) {
	var b strings.Builder
	if err := f.Write(&b, records); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write prints records, which must be sorted by Path, to w.
func (f *Formatter) Write(w io.Writer, records []graph.Record) error {
	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = r.Path
	}
	runs, err := prefix.Build(paths)
	if err != nil {
		return err
	}

	p := &printer{w: bufio.NewWriter(w), opts: f.opts}
	var open prefix.Stack[prefix.Prefix]
	next, indent, prefixLen := 0, 0, 0
	for i, r := range records {
		for {
			top, ok := open.Top()
			if !ok || i < top.End {
				break
			}
			open.Pop()
			prefixLen -= len(top.Text)
			indent -= f.opts.IndentWidth
		}
		for next < len(runs) && runs[next].Start <= i {
			run := runs[next]
			if err := open.Push(run); err != nil {
				return err
			}
			prefixLen += len(run.Text)
			header := DecodeLabel(run.Text)
			if prefixLen == len(r.Path) {
				header += ":"
			}
			p.line(indent, header)
			indent += f.opts.IndentWidth
			next++
		}

		if len(r.Path) == prefixLen {
			p.value(indent, "", r.Value)
			continue
		}
		p.value(indent, DecodeLabel(r.Path[prefixLen:]+":"), r.Value)
	}
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

// DecodeLabel percent-decodes a path fragment for display. If a segment
// decodes to text containing '/', every separator in the fragment is shown
// as '.' so the decoded slash cannot be mistaken for a hierarchy boundary.
// Fragments that are not valid escapes are returned unchanged.
func DecodeLabel(text string) string {
	for _, seg := range strings.Split(text, "/") {
		if dec, err := url.PathUnescape(seg); err == nil && strings.Contains(dec, "/") {
			text = strings.ReplaceAll(text, "/", ".")
			break
		}
	}
	dec, err := url.PathUnescape(text)
	if err != nil {
		return text
	}
	return dec
}

type printer struct {
	w    *bufio.Writer
	opts Options
	err  error
}

func (p *printer) line(indent int, parts ...string) {
	if p.err != nil {
		return
	}
	text := strings.Join(nonEmpty(parts), " ")
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat(" ", indent), text)
}

func nonEmpty(parts []string) []string {
	out := parts[:0:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p *printer) scalar(v value.Value) string {
	switch v.Kind() {
	case value.Bool:
		b, _ := v.Bool()
		if b {
			return p.opts.YesNo[0]
		}
		return p.opts.YesNo[1]
	case value.Number, value.String:
		return v.Text()
	default:
		return ""
	}
}

// value prints v under label at indent. An empty label means v belongs to
// the enclosing header and is printed bare.
func (p *printer) value(indent int, label string, v value.Value) {
	switch v.Kind() {
	case value.Null:
		if label != "" {
			p.line(indent, label)
		}
	case value.Bool, value.Number, value.String:
		p.line(indent, label, p.scalar(v))
	case value.Sequence:
		p.sequence(indent, label, v)
	case value.Mapping:
		if label != "" {
			p.line(indent, label)
			indent += p.opts.IndentWidth
		}
		for _, e := range v.Entries() {
			p.value(indent, e.Key, e.Value)
		}
	}
}

func (p *printer) sequence(indent int, label string, v value.Value) {
	items := v.Items()
	if len(items) == 0 {
		if label != "" {
			p.line(indent, label)
		}
		return
	}
	if v.IsFlat() {
		label = p.opts.transform(label)
		for _, item := range items {
			p.line(indent, label, p.scalar(item))
		}
		return
	}

	base := indent
	if label != "" {
		p.line(indent, label)
		base += p.opts.IndentWidth
	}
	for _, item := range items {
		p.line(base, p.opts.ListMarkers[0])
		p.value(base+p.opts.IndentWidth, "", item)
		p.line(base, p.opts.ListMarkers[1])
	}
}
