package format

import (
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"
)

// HighlightSegment represents a split section of text with optional emphasis.
type HighlightSegment struct {
	Text  string
	Match bool
}

// HighlightSegments splits text into segments, marking case-insensitive
// literal occurrences of term. Pattern metacharacters in term are matched
// literally.
func HighlightSegments(text, term string) []HighlightSegment {
	if text == "" {
		return nil
	}
	if term == "" {
		return []HighlightSegment{{Text: text}}
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(term))
	if err != nil {
		return []HighlightSegment{{Text: text}}
	}

	var segments []HighlightSegment
	cursor := 0
	pos := 0
	for pos <= len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if start == end {
			// zero-width match: step one rune so the scan always advances
			if start >= len(text) {
				break
			}
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + size
			continue
		}
		if start > cursor {
			segments = append(segments, HighlightSegment{Text: text[cursor:start]})
		}
		segments = append(segments, HighlightSegment{Text: text[start:end], Match: true})
		cursor = end
		pos = end
	}
	if cursor < len(text) {
		segments = append(segments, HighlightSegment{Text: text[cursor:]})
	}
	return segments
}

// Highlight renders text as safe HTML with term occurrences wrapped in <mark>.
// Every non-matching span is escaped on its own; an empty term yields the
// escaped text with no markers.
func Highlight(text, term string) template.HTML {
	var b strings.Builder
	for _, seg := range HighlightSegments(text, term) {
		if seg.Match {
			b.WriteString(`<mark class="search-hit">`)
			b.WriteString(template.HTMLEscapeString(seg.Text))
			b.WriteString(`</mark>`)
			continue
		}
		b.WriteString(template.HTMLEscapeString(seg.Text))
	}
	return template.HTML(b.String())
}
