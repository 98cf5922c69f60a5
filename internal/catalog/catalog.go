// Package catalog models the read-only bot directory and resolves which items
// are visible for a categorical filter or a free-text search.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when an item id is not part of the catalog.
var ErrNotFound = errors.New("catalog: item not found")

// FilterAll is the categorical filter key that selects every item.
const FilterAll = "all"

// Status categories form a closed set.
const (
	StatusStable  = "stable"
	StatusDev     = "dev"
	StatusPlanned = "planned"
	StatusJoke    = "joke"
)

// Categories lists the status categories in chip-bar order.
var Categories = []string{StatusStable, StatusDev, StatusPlanned, StatusJoke}

// IsCategory reports whether key names a status category.
func IsCategory(key string) bool {
	for _, c := range Categories {
		if c == key {
			return true
		}
	}
	return false
}

// Item is one bot entry. Items are immutable for the lifetime of a snapshot.
type Item struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	IsMain    bool      `yaml:"is_main"`
	Status    Status    `yaml:"status"`
	Tech      Tech      `yaml:"tech"`
	Resources Resources `yaml:"resources"`
	Keys      Keys      `yaml:"keys"`
}

// Status is the maturity category plus an optional version label.
type Status struct {
	Key     string `yaml:"key"`
	Version string `yaml:"version"`
}

// Tech describes how the bot is built and where it runs.
type Tech struct {
	Lang string `yaml:"lang"`
	Lib  string `yaml:"lib"`
	Host string `yaml:"host"`
	DB   string `yaml:"db"`
}

// Resources holds the advertised footprint. CPU and Disk are free text.
type Resources struct {
	Memory Memory `yaml:"memory"`
	CPU    string `yaml:"cpu"`
	Disk   string `yaml:"disk"`
}

// Keys reference translation entries instead of literal text.
type Keys struct {
	Role    string `yaml:"role"`
	History string `yaml:"history"`
	FunFact string `yaml:"fun_fact"`
	Roadmap string `yaml:"roadmap"`
}

// Memory is either a size in MB or a free-text label such as "Managed".
type Memory struct {
	MB      float64
	Text    string
	Numeric bool
}

// MemoryMB builds a numeric memory value.
func MemoryMB(mb float64) Memory { return Memory{MB: mb, Numeric: true} }

// MemoryText builds a free-text memory value.
func MemoryText(s string) Memory { return Memory{Text: s} }

// UnmarshalYAML accepts a bare number (MB) or any scalar string.
func (m *Memory) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("memory: expected scalar at line %d", node.Line)
	}
	switch node.Tag {
	case "!!int", "!!float":
		v, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("memory: %w", err)
		}
		*m = MemoryMB(v)
	case "!!null":
		*m = Memory{}
	default:
		*m = MemoryText(strings.TrimSpace(node.Value))
	}
	return nil
}

// Update is one entry of the public change log.
type Update struct {
	Date       Date   `yaml:"date"`
	Type       string `yaml:"type"`
	TitleKey   string `yaml:"title_key"`
	ContentKey string `yaml:"content_key"`
}

// Date is a calendar day. The zero value sorts before every real date.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// MustDate is ParseDate for literals in tests and fixtures.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String renders the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// UnmarshalYAML decodes YYYY-MM-DD scalars. Unparseable dates decode to the
// zero date so a single bad record cannot hide the whole timeline.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDate(node.Value)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

// Catalog is one immutable snapshot of everything the page displays.
type Catalog struct {
	Items   []Item
	Updates []Update
	Aux     Aux
}

// Find returns the item with the given id.
func (c *Catalog) Find(id string) (Item, error) {
	if c == nil {
		return Item{}, ErrNotFound
	}
	return Find(c.Items, id)
}

// Find returns the item with the given id.
func Find(items []Item, id string) (Item, error) {
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}
