// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the fixed set of output formats offered as format
// pills. The set is configured outside the controller: either the built-in
// default or a YAML file.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/file-converter/pkg/types"
)

// ErrUnknownFormat is returned when a format is not in the catalog.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is one selectable output format.
type Format struct {
	ID          types.FormatChoice `json:"id" yaml:"id"`
	Label       string             `json:"label" yaml:"label"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
}

// Catalog is an ordered list of formats. Order is pill display order.
type Catalog struct {
	Formats []Format `json:"formats" yaml:"formats"`
}

// defaultIDs mirrors the output formats the conversion service handles.
var defaultIDs = []string{"pdf", "docx", "txt", "html", "xlsx", "csv", "pptx", "jpg", "png"}

// defaultLabel upper-cases an id. Casers are stateful, so each call gets
// its own.
func defaultLabel(id string) string {
	return cases.Upper(language.Und).String(id)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c := &Catalog{}
	for _, id := range defaultIDs {
		c.Formats = append(c.Formats, Format{ID: types.FormatChoice(id), Label: defaultLabel(id)})
	}
	return c
}

// Load reads a catalog from a YAML file of the form:
//
//	formats:
//	  - id: pdf
//	    label: PDF
//	    description: Portable Document Format
//
// IDs are lower-cased; a missing label defaults to the upper-cased ID.
// Duplicate or empty IDs are rejected.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	if err := c.normalize(); err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return &c, nil
}

func (c *Catalog) normalize() error {
	if len(c.Formats) == 0 {
		return errors.New("no formats defined")
	}
	seen := make(map[types.FormatChoice]bool, len(c.Formats))
	for i := range c.Formats {
		f := &c.Formats[i]
		id := strings.ToLower(strings.TrimSpace(string(f.ID)))
		if id == "" {
			return fmt.Errorf("format %d has an empty id", i)
		}
		f.ID = types.FormatChoice(id)
		if seen[f.ID] {
			return fmt.Errorf("duplicate format %q", id)
		}
		seen[f.ID] = true
		if f.Label == "" {
			f.Label = defaultLabel(id)
		}
	}
	return nil
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id types.FormatChoice) bool {
	_, ok := c.Get(id)
	return ok
}

// Get returns the format with the given id.
func (c *Catalog) Get(id types.FormatChoice) (Format, bool) {
	for _, f := range c.Formats {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}

// IDs returns the format IDs in display order.
func (c *Catalog) IDs() []types.FormatChoice {
	ids := make([]types.FormatChoice, len(c.Formats))
	for i, f := range c.Formats {
		ids[i] = f.ID
	}
	return ids
}

// Validate returns ErrUnknownFormat (wrapped) when id is not in the catalog.
func (c *Catalog) Validate(id types.FormatChoice) error {
	if !c.Contains(id) {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, id, c.joined())
	}
	return nil
}

func (c *Catalog) joined() string {
	parts := make([]string, len(c.Formats))
	for i, f := range c.Formats {
		parts[i] = string(f.ID)
	}
	return strings.Join(parts, ", ")
}
