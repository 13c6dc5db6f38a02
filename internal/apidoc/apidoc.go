// Package apidoc holds the records produced by the docstring parser and
// grouped by the catalog.
package apidoc

// Function is one documented Lua entry point.
type Function struct {
	Name        string   `json:"name"`
	Signature   string   `json:"signature"`
	Description string   `json:"description,omitempty"`
	Params      []Param  `json:"params,omitempty"`
	Returns     []Return `json:"returns,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	SeeAlso     []string `json:"see_also,omitempty"`
	Category    string   `json:"category,omitempty"`
	Location    Location `json:"location"`
}

type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Return descriptions may span several lines when a @return tag owns a
// bullet list.
type Return struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Location is provenance only and never used for lookups.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Category groups the functions of one documentation topic in insertion order.
type Category struct {
	ID          string
	Title       string
	Description string
	Functions   []*Function
}
