package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mushkin/luadoc/internal/publish"
	"github.com/mushkin/luadoc/internal/render"
)

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// Printer renders generation events to stderr with colored output.
type Printer struct {
	w       io.Writer
	dryRun  bool
	verbose bool
	mu      sync.Mutex
	s       styles

	progress progress.Writer
	tracker  *progress.Tracker
	rendered chan struct{}
}

// NewPrinter creates a Printer that writes to stderr.
func NewPrinter(dryRun bool, verbose bool) *Printer {
	return NewPrinterWithWriter(os.Stderr, dryRun, verbose)
}

// NewPrinterWithWriter creates a Printer that writes to the given writer.
func NewPrinterWithWriter(w io.Writer, dryRun bool, verbose bool) *Printer {
	return &Printer{
		w:       w,
		dryRun:  dryRun,
		verbose: verbose,
		s:       newStyles(),
	}
}

// WithProgress shows a progress bar while pages are written.
func (p *Printer) WithProgress() *Printer {
	p.progress = NewProgressWriter()
	p.progress.SetOutputWriter(p.w)
	return p
}

// HandleEvent is the callback wired into publish.Options.OnEvent.
func (p *Printer) HandleEvent(e publish.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case publish.EventFileParsed:
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.green.Sprint("✓"),
			p.s.bold.Sprint(e.File),
			p.s.dim.Sprint(formatFound(e.Count)),
		)

	case publish.EventWarning:
		label := e.Message
		if e.Err != nil {
			label = fmt.Sprintf("%s: %v", label, e.Err)
		}
		fmt.Fprintf(p.w, "%s %s\n", p.s.yellow.Sprint("⚠"), label)

	case publish.EventPagesPlanned:
		p.startProgress(e.Count)

	case publish.EventPageWritten:
		if p.tracker != nil {
			p.tracker.Increment(1)
			return
		}
		if p.verbose {
			fmt.Fprintf(p.w, "  %s %s\n", p.s.dim.Sprint("→"), e.File)
		}

	case publish.EventLedgerUpdated:
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.green.Sprint("✓"),
			p.s.bold.Sprint(e.File),
			p.s.dim.Sprintf("(recorded v%s)", e.Message),
		)
	}
}

func (p *Printer) startProgress(total int) {
	if p.progress == nil || total == 0 {
		return
	}

	p.tracker = &progress.Tracker{
		Message: "writing pages",
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	p.progress.AppendTracker(p.tracker)

	p.rendered = make(chan struct{})
	go func() {
		p.progress.Render()
		close(p.rendered)
	}()
}

// Finish stops the progress bar, if one is running.
func (p *Printer) Finish() {
	p.mu.Lock()
	tracker, rendered := p.tracker, p.rendered
	p.tracker, p.rendered = nil, nil
	p.mu.Unlock()

	if tracker == nil {
		return
	}

	tracker.MarkAsDone()
	<-rendered
}

// Info prints a dim status line in verbose mode.
func (p *Printer) Info(message string) {
	if !p.verbose {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "%s %s\n", p.s.dim.Sprint("→"), p.s.dim.Sprint(message))
}

// Error reports a fatal error in the same style as events.
func (p *Printer) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "%s %v\n", p.s.red.Sprint("✗"), err)
}

// PrintSummary renders a per-category table and a total line after a run.
func (p *Printer) PrintSummary(r *publish.Result, outputDir string) {
	if r == nil {
		return
	}

	p.Finish()

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)

	writer := table.NewWriter()
	writer.SetOutputMirror(p.w)
	writer.SetStyle(table.StyleRounded)
	writer.AppendHeader(table.Row{"CATEGORY", "FUNCTIONS", "PAGE"})

	for _, c := range r.Categories {
		page := p.s.dim.Sprint("(none)")
		if len(c.Functions) > 0 {
			page = render.FileName(render.PageName(r.Version, c.ID))
		}
		writer.AppendRow(table.Row{c.Title, len(c.Functions), page})
	}
	writer.AppendFooter(table.Row{"TOTAL", r.TotalFunctions, ""})
	writer.Render()

	label := "generation complete"
	if p.dryRun {
		label = p.s.yellow.Sprint("dry-run complete")
	}

	line := fmt.Sprintf("%s: v%s, %d function(s) in %d categories, %d page(s) to %s",
		label,
		r.Version,
		r.TotalFunctions,
		len(r.Categories),
		r.Written,
		outputDir,
	)
	if n := len(r.Missing); n > 0 {
		line += ", " + p.s.yellow.Sprintf("%d source file(s) missing", n)
	}
	if n := len(r.Duplicates); n > 0 {
		line += ", " + p.s.yellow.Sprintf("%d duplicate name(s)", n)
	}
	fmt.Fprintln(p.w, line)

	if p.dryRun {
		fmt.Fprintln(p.w, p.s.dim.Sprint("no files were written"))
	}
}

func formatFound(count int) string {
	switch count {
	case 0:
		return "(no functions)"
	case 1:
		return "(1 function)"
	default:
		return fmt.Sprintf("(%d functions)", count)
	}
}
