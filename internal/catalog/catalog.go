// Package catalog groups function records into categories using a fixed
// source file table and keeps the run-wide name index.
package catalog

import (
	"fmt"

	"github.com/mushkin/luadoc/internal/apidoc"
)

type DiagnosticKind string

const (
	DiagnosticUnknownFile DiagnosticKind = "unknown_file"
	DiagnosticDuplicate   DiagnosticKind = "duplicate"
)

// Diagnostic reports a non-fatal condition found while aggregating.
type Diagnostic struct {
	Kind    DiagnosticKind
	File    string
	Name    string
	Message string
}

// Duplicate records a public name documented more than once. The later
// record replaces the earlier one in the name index.
type Duplicate struct {
	Name     string
	Previous apidoc.Location
	Current  apidoc.Location
}

type Aggregator struct {
	table        Table
	categories   map[string]*apidoc.Category
	order        []string
	index        map[string]*apidoc.Function
	duplicates   []Duplicate
	onDiagnostic func(Diagnostic)
}

// NewAggregator creates an aggregator over table. onDiagnostic may be nil.
func NewAggregator(table Table, onDiagnostic func(Diagnostic)) *Aggregator {
	return &Aggregator{
		table:        table,
		categories:   make(map[string]*apidoc.Category),
		index:        make(map[string]*apidoc.Function),
		onDiagnostic: onDiagnostic,
	}
}

// Add assigns the functions extracted from file to its category. Files
// missing from the table are skipped and reported; Add then returns false.
func (a *Aggregator) Add(file string, functions []*apidoc.Function) bool {
	entry, ok := a.table.Lookup(file)
	if !ok {
		a.report(Diagnostic{
			Kind:    DiagnosticUnknownFile,
			File:    file,
			Message: fmt.Sprintf("%s has no category mapping, skipping %d function(s)", file, len(functions)),
		})
		return false
	}

	category := a.Ensure(entry)
	for _, fn := range functions {
		fn.Category = category.ID
		category.Functions = append(category.Functions, fn)
		a.indexFunction(fn)
	}

	return true
}

// Ensure returns the category for entry, creating it on first use.
func (a *Aggregator) Ensure(entry Entry) *apidoc.Category {
	if category, ok := a.categories[entry.ID]; ok {
		return category
	}

	category := &apidoc.Category{
		ID:          entry.ID,
		Title:       entry.Title,
		Description: entry.Description,
	}
	a.categories[entry.ID] = category
	a.order = append(a.order, entry.ID)
	return category
}

func (a *Aggregator) indexFunction(fn *apidoc.Function) {
	if previous, exists := a.index[fn.Name]; exists {
		a.duplicates = append(a.duplicates, Duplicate{
			Name:     fn.Name,
			Previous: previous.Location,
			Current:  fn.Location,
		})
		a.report(Diagnostic{
			Kind: DiagnosticDuplicate,
			File: fn.Location.File,
			Name: fn.Name,
			Message: fmt.Sprintf("%s documented at %s:%d replaces %s:%d",
				fn.Name, fn.Location.File, fn.Location.Line, previous.Location.File, previous.Location.Line),
		})
	}

	a.index[fn.Name] = fn
}

func (a *Aggregator) report(d Diagnostic) {
	if a.onDiagnostic != nil {
		a.onDiagnostic(d)
	}
}

// Categories returns every category in creation order.
func (a *Aggregator) Categories() []*apidoc.Category {
	categories := make([]*apidoc.Category, 0, len(a.order))
	for _, id := range a.order {
		categories = append(categories, a.categories[id])
	}
	return categories
}

// Functions returns the name index. The map is shared, not copied.
func (a *Aggregator) Functions() map[string]*apidoc.Function {
	return a.index
}

func (a *Aggregator) Duplicates() []Duplicate {
	return a.duplicates
}
