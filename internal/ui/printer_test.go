package ui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mushkin/luadoc/internal/apidoc"
	"github.com/mushkin/luadoc/internal/catalog"
	"github.com/mushkin/luadoc/internal/publish"
	"github.com/mushkin/luadoc/internal/ui"
)

func TestHandleEventFileParsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		count int
		want  string
	}{
		{0, "(no functions)"},
		{1, "(1 function)"},
		{12, "(12 functions)"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		p := ui.NewPrinterWithWriter(&buf, false, false)

		p.HandleEvent(publish.Event{Kind: publish.EventFileParsed, Category: "Output", File: "world_output.cpp", Count: tt.count})

		out := buf.String()
		if !strings.Contains(out, "world_output.cpp") || !strings.Contains(out, tt.want) {
			t.Errorf("count %d: output = %q, want %q", tt.count, out, tt.want)
		}
	}
}

func TestHandleEventWarning(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := ui.NewPrinterWithWriter(&buf, false, false)

	p.HandleEvent(publish.Event{Kind: publish.EventWarning, File: "mystery.cpp", Message: "mystery.cpp has no category mapping"})
	p.HandleEvent(publish.Event{Kind: publish.EventWarning, Message: "read failed", Err: errors.New("boom")})

	out := buf.String()
	if !strings.Contains(out, "⚠") || !strings.Contains(out, "mystery.cpp has no category mapping") {
		t.Errorf("warning output = %q", out)
	}
	if !strings.Contains(out, "read failed: boom") {
		t.Errorf("warning with error output = %q", out)
	}
}

func TestHandleEventPageWrittenVerbosity(t *testing.T) {
	t.Parallel()

	for _, verbose := range []bool{false, true} {
		var buf bytes.Buffer
		p := ui.NewPrinterWithWriter(&buf, false, verbose)

		p.HandleEvent(publish.Event{Kind: publish.EventPageWritten, File: "Lua-API-Note.md"})

		if got := strings.Contains(buf.String(), "Lua-API-Note.md"); got != verbose {
			t.Errorf("verbose=%v: output = %q", verbose, buf.String())
		}
	}
}

func TestInfoVerbosity(t *testing.T) {
	t.Parallel()

	for _, verbose := range []bool{false, true} {
		var buf bytes.Buffer
		p := ui.NewPrinterWithWriter(&buf, false, verbose)

		p.Info("using built-in defaults")

		if got := strings.Contains(buf.String(), "using built-in defaults"); got != verbose {
			t.Errorf("verbose=%v: output = %q", verbose, buf.String())
		}
	}
}

func TestProgressFinish(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := ui.NewPrinterWithWriter(&buf, false, false).WithProgress()

	p.HandleEvent(publish.Event{Kind: publish.EventPagesPlanned, Count: 2})
	p.HandleEvent(publish.Event{Kind: publish.EventPageWritten, File: "a.md"})
	p.HandleEvent(publish.Event{Kind: publish.EventPageWritten, File: "b.md"})
	p.Finish()
	p.Finish()

	if strings.Contains(buf.String(), "a.md") {
		t.Errorf("page lines should be replaced by the progress bar: %q", buf.String())
	}
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	result := &publish.Result{
		Version: "1.2.0",
		Categories: []*apidoc.Category{
			{ID: "Output", Title: "Output Functions", Functions: []*apidoc.Function{{Name: "Note"}, {Name: "Tell"}}},
			{ID: "Arrays", Title: "Array Functions"},
		},
		TotalFunctions: 2,
		Written:        4,
		Missing:        []string{"world_timers.cpp"},
		Duplicates:     []catalog.Duplicate{{Name: "Note"}},
	}

	tests := []struct {
		name   string
		dryRun bool
		want   []string
	}{
		{
			name: "normal",
			want: []string{
				"Output Functions",
				"Lua-API-1.2.0-Output.md",
				"generation complete: v1.2.0, 2 function(s) in 2 categories, 4 page(s) to wiki",
				"1 source file(s) missing",
				"1 duplicate name(s)",
			},
		},
		{
			name:   "dry run",
			dryRun: true,
			want:   []string{"dry-run complete", "no files were written"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			p := ui.NewPrinterWithWriter(&buf, tt.dryRun, false)
			p.PrintSummary(result, "wiki")

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("summary missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestPrintSummaryNil(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ui.NewPrinterWithWriter(&buf, false, false).PrintSummary(nil, "wiki")
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}
