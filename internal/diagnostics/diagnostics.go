// Package diagnostics renders a validation report as the rejection text shown
// to the committing user.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lxiaocode/SVNTools/internal/engine"
)

// Options controls rendering.
type Options struct {
	// MaxItems caps entries per section; zero prints everything.
	MaxItems int
	NoColor  bool
	// Summary appends a table of violation counts per check.
	Summary bool
}

type printer struct {
	w       io.Writer
	opts    Options
	header  *color.Color
	problem *color.Color
	hint    *color.Color
}

func newPrinter(w io.Writer, opts Options) *printer {
	p := &printer{
		w:       w,
		opts:    opts,
		header:  color.New(color.FgRed, color.Bold),
		problem: color.New(color.FgYellow),
		hint:    color.New(color.FgCyan),
	}
	if opts.NoColor {
		p.header.DisableColor()
		p.problem.DisableColor()
		p.hint.DisableColor()
	}
	return p
}

// Render writes every failing section of r. Nothing is written for a passing report.
func Render(w io.Writer, r *engine.ValidationReport, opts Options) {
	if r == nil || r.Passed {
		return
	}
	p := newPrinter(w, opts)

	p.syncSection(r)
	p.mutationSection(r)
	p.collisionSection(r)

	if opts.Summary {
		p.summary(r)
	}
}

// RenderError writes the rejection text for a run that could not complete.
func RenderError(w io.Writer, err error, opts Options) {
	p := newPrinter(w, opts)
	p.header.Fprintln(w, "[Commit rejected: GUID validation could not complete]")
	p.problem.Fprintf(w, "%v\n", err)
	p.hint.Fprintln(w, "Retry the commit; contact the repository administrator if this persists.")
}

func (p *printer) syncSection(r *engine.ValidationReport) {
	if len(r.SyncViolations) == 0 {
		return
	}

	p.header.Fprintln(p.w, "[Asset files must be committed together with their metadata files]")
	fmt.Fprintf(p.w, "%d file(s) are out of sync:\n", len(r.SyncViolations))

	// adds first, then deletes
	ordered := append(r.ViolationsOf(engine.MissingMetaOnAdd), r.ViolationsOf(engine.MissingMetaOnDelete)...)
	p.limited(len(ordered), func(i int) {
		v := ordered[i]
		switch v.Kind {
		case engine.MissingMetaOnAdd:
			p.problem.Fprintf(p.w, "added file: %s has no matching metadata change\n", v.AssetPath)
			p.hint.Fprintf(p.w, "  commit its metadata file as well: %s\n", v.ExpectedMetaPath)
		case engine.MissingMetaOnDelete:
			p.problem.Fprintf(p.w, "deleted file: %s still has its metadata file\n", v.AssetPath)
			p.hint.Fprintf(p.w, "  delete its metadata file as well: %s\n", v.ExpectedMetaPath)
		}
	})
}

func (p *printer) mutationSection(r *engine.ValidationReport) {
	if len(r.Mutations) == 0 {
		return
	}

	guids := r.MutationGUIDs()
	p.header.Fprintln(p.w, "[Committed metadata files changed their guid]")
	fmt.Fprintf(p.w, "%d file(s) changed guid:\n", len(guids))

	p.limited(len(guids), func(i int) {
		orig := guids[i]
		m := r.Mutations[orig]
		p.problem.Fprintf(p.w, "file: %s now has guid %s\n", m.Path, m.GUID)
		p.hint.Fprintf(p.w, "  original guid: %s\n", orig)
	})
}

func (p *printer) collisionSection(r *engine.ValidationReport) {
	if len(r.Collisions) == 0 {
		return
	}

	guids := r.CollisionGUIDs()
	p.header.Fprintln(p.w, "[Committed metadata files reuse an existing guid]")
	fmt.Fprintf(p.w, "%d duplicated guid(s):\n", len(guids))

	p.limited(len(guids), func(i int) {
		guid := guids[i]
		p.problem.Fprintf(p.w, "guid: %s is duplicated by:\n", guid)
		for _, m := range r.Collisions[guid] {
			p.hint.Fprintf(p.w, "  %s\n", m.Path)
		}
	})
}

func (p *printer) limited(n int, item func(i int)) {
	shown := n
	if p.opts.MaxItems > 0 && n > p.opts.MaxItems {
		shown = p.opts.MaxItems
	}
	for i := range shown {
		item(i)
	}
	if shown < n {
		fmt.Fprintf(p.w, "... and %d more\n", n-shown)
	}
}

func (p *printer) summary(r *engine.ValidationReport) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Check", "Violations"})
	t.AppendRows([]table.Row{
		{"metadata added with asset", len(r.ViolationsOf(engine.MissingMetaOnAdd))},
		{"metadata deleted with asset", len(r.ViolationsOf(engine.MissingMetaOnDelete))},
		{"guid changed", len(r.Mutations)},
		{"guid duplicated", len(r.Collisions)},
	})
	fmt.Fprintln(p.w, t.Render())
}
