// Package data carries the read-only bot catalog, update log and translation
// tables shipped with the binary.
package data

import "embed"

// FS holds bots.yaml, updates.yaml, extras.yaml and locales/*.json.
//
//go:embed bots.yaml updates.yaml extras.yaml locales/*.json
var FS embed.FS
