package ui

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/oops"

	"github.com/mushkin/luadoc/internal/manifest"
	"github.com/mushkin/luadoc/internal/search"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"

	DefaultDescLength = 60
)

type ListOptions struct {
	Format     string
	DescLength int
	// Total is the number of matches before a limit was applied.
	Total int
}

// RenderFunctionList writes manifest functions in the requested format.
func RenderFunctionList(w io.Writer, functions []manifest.FunctionInfo, opts ListOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, functions)
	case FormatCSV:
		rows := make([][]string, 0, len(functions))
		for _, fn := range functions {
			rows = append(rows, []string{fn.Name, fn.Category, fn.Signature, fn.File, strconv.Itoa(fn.Line), fn.Summary})
		}
		return writeCSV(w, []string{"name", "category", "signature", "file", "line", "summary"}, rows)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"NAME", "CATEGORY", "SIGNATURE", "SUMMARY"})
	for _, fn := range functions {
		writer.AppendRow(table.Row{
			fn.Name,
			fn.Category,
			fn.Signature,
			Truncate(fn.Summary, opts.DescLength),
		})
	}
	appendLimitFooter(writer, len(functions), opts.Total)
	writer.Render()
	return nil
}

// RenderCategoryList writes manifest categories in the requested format.
func RenderCategoryList(w io.Writer, categories []manifest.CategoryInfo, opts ListOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, categories)
	case FormatCSV:
		rows := make([][]string, 0, len(categories))
		for _, c := range categories {
			rows = append(rows, []string{c.ID, c.Title, strconv.Itoa(c.Functions), c.Page})
		}
		return writeCSV(w, []string{"id", "title", "functions", "page"}, rows)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"ID", "TITLE", "FUNCTIONS", "PAGE"})
	for _, c := range categories {
		page := c.Page
		if c.Functions == 0 {
			page = "-"
		}
		writer.AppendRow(table.Row{c.ID, c.Title, c.Functions, page})
	}
	writer.Render()
	return nil
}

// RenderSearchResults writes fuzzy search results in the requested format.
func RenderSearchResults(w io.Writer, results []search.Result, opts ListOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, results)
	case FormatCSV:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Name, r.Category, r.MatchField, r.MatchValue, strconv.Itoa(r.Score), r.Page})
		}
		return writeCSV(w, []string{"name", "category", "match_field", "match_value", "score", "page"}, rows)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"NAME", "CATEGORY", "MATCH FIELD", "SCORE", "MATCH"})
	for _, r := range results {
		writer.AppendRow(table.Row{
			r.Name,
			r.Category,
			r.MatchField,
			r.Score,
			Truncate(r.MatchValue, opts.DescLength),
		})
	}
	writer.Render()
	return nil
}

// Truncate shortens s to maxLen runes with a trailing "...". A maxLen of
// zero or less disables truncation.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func newTable(w io.Writer) table.Writer {
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)
	return writer
}

func appendLimitFooter(writer table.Writer, shown int, total int) {
	if total > shown {
		writer.AppendFooter(table.Row{"", "", "", strconv.Itoa(shown) + " of " + strconv.Itoa(total) + " shown"})
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return oops.Code("JSON_ERROR").Wrapf(err, "encoding output")
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return oops.Code("CSV_ERROR").Wrapf(err, "writing CSV header")
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return oops.Code("CSV_ERROR").Wrapf(err, "writing CSV row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return oops.Code("CSV_ERROR").Wrapf(err, "flushing CSV output")
	}
	return nil
}
