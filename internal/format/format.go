package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/irammini/ecosystem/internal/catalog"
)

// ExcerptRunes is the card-body excerpt length.
const ExcerptRunes = 100

// Memory formats a resource size for a stat tile.
// Example: Memory(MemoryMB(1536), "N/A") => "1.5 GB"
func Memory(m catalog.Memory, placeholder string) string {
	if !m.Numeric {
		if m.Text == "" {
			return placeholder
		}
		return m.Text
	}
	if m.MB < 1024 {
		return trimFloat(m.MB) + " MB"
	}
	gb := strconv.FormatFloat(m.MB/1024, 'f', 1, 64)
	gb = strings.TrimSuffix(gb, ".0")
	return gb + " GB"
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OrPlaceholder returns s, or placeholder when s is blank.
func OrPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// Excerpt cuts text to the first ExcerptRunes runes and appends "...".
// The ellipsis is always added, short texts included, to keep cards uniform.
func Excerpt(text string) string {
	r := []rune(text)
	if len(r) > ExcerptRunes {
		r = r[:ExcerptRunes]
	}
	return string(r) + "..."
}

// Initial returns the first rune of name for avatar badges.
func Initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return "?"
}

// Date formats a calendar day as YYYY-MM-DD regardless of language, matching
// the timeline's data format.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
