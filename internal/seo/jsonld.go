package seo

import (
	"encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// WebSite returns a minimal WebSite schema with optional SearchAction.
func WebSite(name, url, searchActionURL string) map[string]any {
	m := map[string]any{
		"@type": "WebSite",
		"name":  name,
	}
	if url != "" {
		m["url"] = url
	}
	if searchActionURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchActionURL + "{search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// App describes one bot as a schema.org SoftwareApplication.
type App struct {
	Name        string
	Description string
	URL         string
	Language    string
	Version     string
}

// ItemList builds a schema.org ItemList of SoftwareApplication entries.
func ItemList(name string, apps []App) map[string]any {
	el := make([]map[string]any, 0, len(apps))
	for i, a := range apps {
		item := map[string]any{
			"@type":               "SoftwareApplication",
			"name":                a.Name,
			"applicationCategory": "CommunicationApplication",
		}
		if a.Description != "" {
			item["description"] = a.Description
		}
		if a.URL != "" {
			item["url"] = a.URL
		}
		if a.Language != "" {
			item["programmingLanguage"] = a.Language
		}
		if a.Version != "" {
			item["softwareVersion"] = a.Version
		}
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     item,
		})
	}
	return map[string]any{
		"@type":           "ItemList",
		"name":            name,
		"numberOfItems":   len(apps),
		"itemListElement": el,
	}
}

// Graph wraps nodes in one JSON-LD document.
func Graph(nodes ...map[string]any) map[string]any {
	return map[string]any{
		"@context": "https://schema.org",
		"@graph":   nodes,
	}
}
