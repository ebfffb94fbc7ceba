// Package browse holds the static page and filter definitions of the
// catalog pages.
package browse

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed browse.yaml
var defaultDefinitions []byte

type Filter struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Page describes a filterable catalog page.
type Page struct {
	ID            string   `yaml:"id" json:"id"`
	Title         string   `yaml:"title" json:"title"`
	DefaultFilter string   `yaml:"default_filter" json:"default_filter"`
	Filters       []Filter `yaml:"filters" json:"filters"`
}

type Catalog struct {
	Pages         []Page         `yaml:"pages" json:"pages"`
	Genres        map[string]int `yaml:"genres" json:"genres"`
	FallbackGenre int            `yaml:"fallback_genre" json:"fallback_genre"`
}

// Default returns the built-in definitions.
func Default() *Catalog {
	c, err := Parse(defaultDefinitions)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded browse definitions: %v", err))
	}
	return c
}

// Load reads definitions from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read browse definitions: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse browse definitions: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Pages) == 0 {
		return fmt.Errorf("browse definitions list no pages")
	}
	for _, p := range c.Pages {
		if p.ID == "" {
			return fmt.Errorf("browse page without id")
		}
		if !p.HasFilter(p.DefaultFilter) {
			return fmt.Errorf("page %s: default filter %q is not one of its filters", p.ID, p.DefaultFilter)
		}
	}
	return nil
}

// Lookup returns the page definition with the given id.
func (c *Catalog) Lookup(id string) (Page, bool) {
	for _, p := range c.Pages {
		if p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}

func (p Page) HasFilter(value string) bool {
	for _, f := range p.Filters {
		if f.Value == value {
			return true
		}
	}
	return false
}

// GenreID maps a genre key to its catalog id, falling back to FallbackGenre
// for unknown keys.
func (c *Catalog) GenreID(key string) int {
	if id, ok := c.Genres[key]; ok {
		return id
	}
	return c.FallbackGenre
}
