// Package theme defines the closed set of color palettes the page and its
// charts are painted with.
package theme

import (
	"fmt"
	"strings"
)

// Default is the theme used when no preference exists.
const Default = "aurora"

// Palette is the set of named colors a theme exposes as CSS variables and to
// the chart renderer.
type Palette struct {
	ID            string
	BgPrimary     string
	BgSecondary   string
	BgTertiary    string
	TextPrimary   string
	TextSecondary string
	Border        string
	Accent        string
}

// Themes lists the palettes in picker order.
var Themes = []Palette{
	{
		ID:            "aurora",
		BgPrimary:     "#0b1020",
		BgSecondary:   "#131a33",
		BgTertiary:    "#1e2748",
		TextPrimary:   "#f1f5f9",
		TextSecondary: "#94a3b8",
		Border:        "rgba(148, 163, 184, 0.2)",
		Accent:        "#6366f1",
	},
	{
		ID:            "midnight",
		BgPrimary:     "#000000",
		BgSecondary:   "#0a0a0a",
		BgTertiary:    "#171717",
		TextPrimary:   "#fafafa",
		TextSecondary: "#a3a3a3",
		Border:        "rgba(255, 255, 255, 0.12)",
		Accent:        "#818cf8",
	},
	{
		ID:            "sunset",
		BgPrimary:     "#1f0f14",
		BgSecondary:   "#2d1520",
		BgTertiary:    "#3f1d2b",
		TextPrimary:   "#fff1f2",
		TextSecondary: "#fda4af",
		Border:        "rgba(253, 164, 175, 0.2)",
		Accent:        "#f97316",
	},
	{
		ID:            "forest",
		BgPrimary:     "#07140e",
		BgSecondary:   "#0f2119",
		BgTertiary:    "#173326",
		TextPrimary:   "#ecfdf5",
		TextSecondary: "#86efac",
		Border:        "rgba(134, 239, 172, 0.18)",
		Accent:        "#22c55e",
	},
	{
		ID:            "paper",
		BgPrimary:     "#f8fafc",
		BgSecondary:   "#ffffff",
		BgTertiary:    "#e2e8f0",
		TextPrimary:   "#0f172a",
		TextSecondary: "#475569",
		Border:        "rgba(15, 23, 42, 0.12)",
		Accent:        "#4f46e5",
	},
}

// Lookup returns the palette for id, falling back to the default palette for
// unknown identifiers. The returned palette keeps the fallback's ID.
func Lookup(id string) Palette {
	id = strings.TrimSpace(id)
	for _, p := range Themes {
		if p.ID == id {
			return p
		}
	}
	return Themes[0]
}

// Known reports whether id names one of the built-in palettes.
func Known(id string) bool {
	for _, p := range Themes {
		if p.ID == id {
			return true
		}
	}
	return false
}

// CSS renders the palette as custom properties on :root.
func (p Palette) CSS() string {
	return fmt.Sprintf(":root{--bg-primary:%s;--bg-secondary:%s;--bg-tertiary:%s;--text-primary:%s;--text-secondary:%s;--border-color:%s;--accent:%s}",
		p.BgPrimary, p.BgSecondary, p.BgTertiary, p.TextPrimary, p.TextSecondary, p.Border, p.Accent)
}
