package app

import (
	"github.com/irammini/ecosystem/internal/catalog"
	"github.com/irammini/ecosystem/internal/i18n"
	"github.com/irammini/ecosystem/internal/prefs"
	"github.com/irammini/ecosystem/internal/theme"
	"github.com/irammini/ecosystem/internal/view"
)

// Defaults applied when a preference is missing or malformed.
const (
	DefaultLang   = "vi"
	DefaultFilter = catalog.FilterAll
	DefaultTab    = view.TabOverview
	DefaultTheme  = theme.Default
)

// ModalKind enumerates what the modal layer shows.
type ModalKind int

const (
	ModalClosed ModalKind = iota
	ModalDetail
	ModalDev
	ModalSettings
)

// Modal is the modal axis of the state. ItemID is set for ModalDetail only.
type Modal struct {
	Kind   ModalKind
	ItemID string
}

// State is everything a page displays besides the catalog itself. At most one
// of a non-"all" Filter and a non-empty Search drives the visible items: a
// live Search wins, and SetFilter clears it.
type State struct {
	Lang        string
	Filter      string
	Tab         string
	Theme       string
	Search      string
	Modal       Modal
	DetailsOpen bool
}

// Searching reports whether a search term drives the grid.
func (s State) Searching() bool { return s.Search != "" }

// LoadState reads the persisted preferences, substituting defaults for
// missing values, unsupported languages and unknown tabs.
func LoadState(store prefs.Store, bundle *i18n.Bundle) State {
	st := State{Lang: DefaultLang, Filter: DefaultFilter, Tab: DefaultTab, Theme: DefaultTheme}
	if store == nil {
		return st
	}
	if v, ok := store.Get(prefs.KeyLang); ok {
		if code, supported := normalizeLang(bundle, v); supported {
			st.Lang = code
		}
	}
	if v, ok := store.Get(prefs.KeyFilter); ok {
		st.Filter = v
	}
	if v, ok := store.Get(prefs.KeyTab); ok && view.IsTab(v) {
		st.Tab = v
	}
	if v, ok := store.Get(prefs.KeyTheme); ok {
		st.Theme = v
	}
	return st
}

func normalizeLang(bundle *i18n.Bundle, code string) (string, bool) {
	if bundle != nil {
		return bundle.Normalize(code)
	}
	for _, c := range i18n.Codes() {
		if c == code {
			return c, true
		}
	}
	return "", false
}
