package catalog

import "strings"

// FilterByCategory resolves the visible subset for a chip key. "all" returns
// items unchanged, a status category matches Status.Key, and anything else is
// treated as an exact, case-sensitive technology language tag. Keys that match
// nothing yield an empty subset.
func FilterByCategory(items []Item, key string) []Item {
	if key == FilterAll {
		return items
	}
	var match func(Item) bool
	if IsCategory(key) {
		match = func(it Item) bool { return it.Status.Key == key }
	} else {
		match = func(it Item) bool { return it.Tech.Lang == key }
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Search returns items whose name, tech language, library, status key, or
// resolved role/history text contains term. The caller lowercases term;
// resolve maps translation keys to display text. Order is preserved.
func Search(items []Item, term string, resolve func(key string) string) []Item {
	if term == "" {
		return items
	}
	if resolve == nil {
		resolve = func(key string) string { return key }
	}
	fields := []func(Item) string{
		func(it Item) string { return it.Name },
		func(it Item) string { return it.Tech.Lang },
		func(it Item) string { return it.Tech.Lib },
		func(it Item) string { return it.Status.Key },
		func(it Item) string { return resolve(it.Keys.Role) },
		func(it Item) string { return resolve(it.Keys.History) },
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(it)), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// TechLanguages lists distinct technology tags in first-seen order.
func TechLanguages(items []Item) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, it := range items {
		if _, ok := seen[it.Tech.Lang]; ok {
			continue
		}
		seen[it.Tech.Lang] = struct{}{}
		out = append(out, it.Tech.Lang)
	}
	return out
}

// FilterKeys is the chip-bar key list: "all", the status categories, then the
// technology tags.
func FilterKeys(items []Item) []string {
	keys := append([]string{FilterAll}, Categories...)
	return append(keys, TechLanguages(items)...)
}
