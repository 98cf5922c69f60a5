package view

import "github.com/irammini/ecosystem/internal/catalog"

const devicon = "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/"

// TechIcon is the badge decoration for a technology tag: either a logo URL or
// a glyph, or neither for unmapped tags.
type TechIcon struct {
	URL   string
	Glyph string
}

var techIcons = map[string]TechIcon{
	"Python":     {URL: devicon + "python/python-original.svg"},
	"JavaScript": {URL: devicon + "javascript/javascript-original.svg"},
	"Java":       {URL: devicon + "java/java-original.svg"},
	"Rust":       {URL: devicon + "rust/rust-original.svg"},
	"Lua":        {URL: devicon + "lua/lua-original.svg"},
	"Bun":        {URL: devicon + "bun/bun-original.svg"},
	// reserved tags for hosted and no-code bots
	"SCNX": {Glyph: "🤖"},
	"Kite": {Glyph: "🤖"},
}

// IconFor returns the badge decoration for lang. Unmapped tags get the zero
// TechIcon and render as the tag text alone.
func IconFor(lang string) TechIcon {
	return techIcons[lang]
}

var statusColors = map[string]string{
	catalog.StatusStable:  "bg-green-500",
	catalog.StatusDev:     "bg-amber-500",
	catalog.StatusPlanned: "bg-slate-500",
	catalog.StatusJoke:    "bg-purple-500",
}

const defaultStatusColor = "bg-gray-500"

// StatusColor returns the dot color class for a status category.
func StatusColor(key string) string {
	if c, ok := statusColors[key]; ok {
		return c
	}
	return defaultStatusColor
}

var updateIcons = map[string]string{
	"bot_update":  "🤖",
	"new_feature": "✨",
	"new_bot":     "🚀",
}

const defaultUpdateIcon = "📝"

// UpdateIcon returns the timeline glyph for an update type.
func UpdateIcon(kind string) string {
	if g, ok := updateIcons[kind]; ok {
		return g
	}
	return defaultUpdateIcon
}
