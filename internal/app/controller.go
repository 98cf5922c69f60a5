// Package app owns the page state and reconciles it with the rendered regions.
// A Controller is not safe for concurrent use; the live channel drives each
// one from a single event loop.
package app

import (
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/irammini/ecosystem/internal/catalog"
	"github.com/irammini/ecosystem/internal/chart"
	"github.com/irammini/ecosystem/internal/i18n"
	"github.com/irammini/ecosystem/internal/prefs"
	"github.com/irammini/ecosystem/internal/theme"
	"github.com/irammini/ecosystem/internal/view"
)

// CatalogSource yields the current catalog snapshot.
type CatalogSource interface {
	Current() *catalog.Catalog
}

// Deps are the collaborators shared by every controller of a process.
type Deps struct {
	Catalog   CatalogSource
	Bundle    *i18n.Bundle
	Renderer  *view.Renderer
	Charts    *chart.Adapter
	Scheduler Scheduler
	Debounce  time.Duration
	Logger    *zap.Logger
}

// Controller applies transitions for one page.
type Controller struct {
	deps    Deps
	store   prefs.Store
	targets view.Targets
	logger  *zap.Logger

	state   State
	handles chart.Handles
	search  debouncer
}

// New builds a controller whose initial state comes from store.
func New(deps Deps, store prefs.Store, targets view.Targets) *Controller {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Debounce <= 0 {
		deps.Debounce = DefaultDebounce
	}
	if store == nil {
		store = prefs.Map{}
	}
	if targets == nil {
		targets = view.Targets{}
	}
	return &Controller{
		deps:    deps,
		store:   store,
		targets: targets,
		logger:  deps.Logger,
		state:   LoadState(store, deps.Bundle),
		search:  debouncer{sched: deps.Scheduler, wait: deps.Debounce},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// LiveCharts reports how many chart instances are held.
func (c *Controller) LiveCharts() int { return c.handles.Len() }

// SearchPending reports whether a debounced search is waiting to fire.
func (c *Controller) SearchPending() bool { return c.search.active() }

func (c *Controller) catalog() *catalog.Catalog {
	if c.deps.Catalog != nil {
		if cat := c.deps.Catalog.Current(); cat != nil {
			return cat
		}
	}
	return &catalog.Catalog{}
}

func (c *Controller) tr(key string) string { return c.deps.Bundle.T(c.state.Lang, key) }

func (c *Controller) target(id string) view.Target { return c.targets.Get(id) }

// Visible resolves the item subset the grid shows for the current state.
func (c *Controller) Visible() []catalog.Item {
	items := c.catalog().Items
	if c.state.Searching() {
		return catalog.Search(items, strings.ToLower(c.state.Search), c.tr)
	}
	return catalog.FilterByCategory(items, c.state.Filter)
}

// Seed carries deep-link values applied before the first render.
type Seed struct {
	Lang   string
	Filter string
	Tab    string
	Theme  string
	Search string
	Bot    string
}

// Query parameters read by ParseSeed.
const (
	QueryLang   = "lang"
	QueryFilter = "filter"
	QueryTab    = "tab"
	QueryTheme  = "theme"
	QuerySearch = "q"
	QueryBot    = "bot"
)

// ParseSeed reads deep-link parameters from a request query.
func ParseSeed(q url.Values) Seed {
	return Seed{
		Lang:   q.Get(QueryLang),
		Filter: q.Get(QueryFilter),
		Tab:    q.Get(QueryTab),
		Theme:  q.Get(QueryTheme),
		Search: q.Get(QuerySearch),
		Bot:    q.Get(QueryBot),
	}
}

// Apply folds a Seed into state without rendering. Preference fields are
// persisted exactly like their transitions; invalid values are ignored.
func (c *Controller) Apply(s Seed) {
	if s.Lang != "" {
		if code, ok := normalizeLang(c.deps.Bundle, s.Lang); ok {
			c.state.Lang = code
			c.store.Set(prefs.KeyLang, code)
		}
	}
	if s.Filter != "" {
		c.state.Filter = s.Filter
		c.store.Set(prefs.KeyFilter, s.Filter)
	}
	if view.IsTab(s.Tab) {
		c.state.Tab = s.Tab
		c.store.Set(prefs.KeyTab, s.Tab)
	}
	if s.Theme != "" {
		c.state.Theme = s.Theme
		c.store.Set(prefs.KeyTheme, s.Theme)
	}
	if term := strings.TrimSpace(s.Search); term != "" {
		c.state.Search = term
	}
	if s.Bot != "" {
		if _, err := c.catalog().Find(s.Bot); err == nil {
			c.state.Modal = Modal{Kind: ModalDetail, ItemID: s.Bot}
		}
	}
}

// Boot renders every region once. Cards are rendered exactly once, already
// in the final language.
func (c *Controller) Boot() {
	r := c.deps.Renderer
	st := c.state
	r.ThemeStyle(c.target(view.RegionThemeStyle), st.Theme)
	r.Header(c.target(view.RegionHeader), st.Lang)
	r.LangSwitcher(c.target(view.RegionLangSwitcher), st.Lang)
	r.SearchBox(c.target(view.RegionSearchBox), st.Lang, st.Search)
	c.renderResults()
	r.OverviewPanel(c.target(view.RegionOverview), st.Lang)
	r.UpdatesPanel(c.target(view.RegionUpdates), st.Lang)
	c.renderTab()
	r.ThemePicker(c.target(view.RegionThemePicker), st.Lang, st.Theme)
	r.Clear(c.target(view.RegionModal))
	r.Clear(c.target(view.RegionSettingsModal))
	c.renderModal()
}

// renderResults repaints the chip bar, the grid and the search status.
func (c *Controller) renderResults() {
	r := c.deps.Renderer
	st := c.state
	items := c.catalog().Items
	active := st.Filter
	if st.Searching() {
		active = ""
	}
	visible := c.Visible()
	r.Filters(c.target(view.RegionFilters), st.Lang, catalog.FilterKeys(items), active)
	r.Cards(c.target(view.RegionGrid), st.Lang, visible, st.Search)
	r.SearchStatus(c.target(view.RegionSearchStatus), st.Lang, st.Search, len(visible))
}

// renderTab repaints the tab bar and the active tab's dynamic content.
func (c *Controller) renderTab() {
	c.deps.Renderer.TabBar(c.target(view.RegionTabs), c.state.Lang, c.state.Tab)
	c.renderTabContent()
}

func (c *Controller) renderTabContent() {
	switch c.state.Tab {
	case view.TabOverview:
		c.renderCharts()
	case view.TabUpdates:
		c.deps.Renderer.Timeline(c.target(view.RegionTimeline), c.state.Lang, c.catalog().Updates)
	}
}

func (c *Controller) renderCharts() {
	if c.state.Tab != view.TabOverview {
		return
	}
	c.deps.Charts.Render(c.catalog().Items, theme.Lookup(c.state.Theme), c.tr, &c.handles, chart.Targets{
		RAM:  c.target(view.RegionRAMChart),
		Lang: c.target(view.RegionLangChart),
	})
}

func (c *Controller) modalRegion(kind ModalKind) string {
	if kind == ModalSettings {
		return view.RegionSettingsModal
	}
	return view.RegionModal
}

func (c *Controller) renderModal() {
	r := c.deps.Renderer
	st := c.state
	switch st.Modal.Kind {
	case ModalDetail:
		cat := c.catalog()
		it, err := cat.Find(st.Modal.ItemID)
		if err != nil {
			// the item vanished in a catalog reload
			c.logger.Debug("detail modal item missing", zap.String("id", st.Modal.ItemID))
			c.state.Modal = Modal{}
			r.Clear(c.target(view.RegionModal))
			return
		}
		r.DetailModal(c.target(view.RegionModal), st.Lang, it, cat.Aux, st.DetailsOpen)
	case ModalDev:
		r.DevModal(c.target(view.RegionModal), st.Lang)
	case ModalSettings:
		r.SettingsModal(c.target(view.RegionSettingsModal), st.Lang, st.Theme)
	}
}

// SetLanguage switches the display language and repaints every translated
// region. Unsupported codes are ignored.
func (c *Controller) SetLanguage(code string) {
	lang, ok := normalizeLang(c.deps.Bundle, code)
	if !ok {
		c.logger.Debug("ignoring unsupported language", zap.String("lang", code))
		return
	}
	c.state.Lang = lang
	c.store.Set(prefs.KeyLang, lang)

	r := c.deps.Renderer
	r.Header(c.target(view.RegionHeader), lang)
	r.LangSwitcher(c.target(view.RegionLangSwitcher), lang)
	r.SearchBox(c.target(view.RegionSearchBox), lang, c.state.Search)
	c.renderResults()
	r.OverviewPanel(c.target(view.RegionOverview), lang)
	r.UpdatesPanel(c.target(view.RegionUpdates), lang)
	c.renderTab()
	r.ThemePicker(c.target(view.RegionThemePicker), lang, c.state.Theme)
	c.renderModal()
}

// SetFilter activates a chip. It clears any live search, including the input
// and the result notice.
func (c *Controller) SetFilter(key string) {
	if key == "" {
		return
	}
	c.search.cancel()
	c.state.Filter = key
	c.state.Search = ""
	c.store.Set(prefs.KeyFilter, key)

	c.deps.Renderer.SearchBox(c.target(view.RegionSearchBox), c.state.Lang, "")
	c.renderResults()
}

// Search shows the items matching term. While a term is live no chip is
// highlighted; the stored filter is untouched. An empty term returns to the
// filter display.
func (c *Controller) Search(term string) {
	c.state.Search = strings.TrimSpace(term)
	c.renderResults()
}

// QueueSearch debounces Search: every call cancels the pending one, and only
// the last call in a burst runs once input is quiet.
func (c *Controller) QueueSearch(term string) {
	if c.search.sched == nil {
		c.Search(term)
		return
	}
	c.search.schedule(func() { c.Search(term) })
}

// SubmitSearch runs the search immediately, dropping any pending one.
func (c *Controller) SubmitSearch(term string) {
	c.search.cancel()
	wasSearching := c.state.Searching()
	c.Search(term)
	if wasSearching && !c.state.Searching() {
		c.deps.Renderer.SearchBox(c.target(view.RegionSearchBox), c.state.Lang, "")
	}
}

// SwitchTab activates a tab. Charts are drawn only for the overview and the
// timeline only for updates.
func (c *Controller) SwitchTab(tab string) {
	if !view.IsTab(tab) {
		c.logger.Debug("ignoring unknown tab", zap.String("tab", tab))
		return
	}
	c.state.Tab = tab
	c.store.Set(prefs.KeyTab, tab)
	c.renderTab()
}

// SetTheme applies a palette. Unknown ids are kept in state and persisted but
// paint with the default palette.
func (c *Controller) SetTheme(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	c.state.Theme = id
	c.store.Set(prefs.KeyTheme, id)

	r := c.deps.Renderer
	r.ThemeStyle(c.target(view.RegionThemeStyle), id)
	r.ThemePicker(c.target(view.RegionThemePicker), c.state.Lang, id)
	if c.state.Modal.Kind == ModalSettings {
		c.renderModal()
	}
	c.renderCharts()
}

func (c *Controller) openModal(m Modal) {
	prev := c.state.Modal.Kind
	if prev != ModalClosed && c.modalRegion(prev) != c.modalRegion(m.Kind) {
		c.deps.Renderer.Clear(c.target(c.modalRegion(prev)))
	}
	c.state.Modal = m
	c.state.DetailsOpen = false
	c.renderModal()
}

// OpenBot shows the detail modal for id. Unknown ids are ignored.
func (c *Controller) OpenBot(id string) {
	if _, err := c.catalog().Find(id); err != nil {
		c.logger.Debug("open unknown bot", zap.String("id", id), zap.Error(err))
		return
	}
	c.openModal(Modal{Kind: ModalDetail, ItemID: id})
}

// OpenDevInfo shows the developer modal.
func (c *Controller) OpenDevInfo() { c.openModal(Modal{Kind: ModalDev}) }

// OpenSettings shows the settings modal.
func (c *Controller) OpenSettings() { c.openModal(Modal{Kind: ModalSettings}) }

// CloseModal hides whatever modal is open and forgets the details toggle.
func (c *Controller) CloseModal() {
	prev := c.state.Modal.Kind
	c.state.Modal = Modal{}
	c.state.DetailsOpen = false
	if prev == ModalClosed {
		return
	}
	c.deps.Renderer.Clear(c.target(c.modalRegion(prev)))
}

// ToggleDetails flips the extended details block of the open detail modal
// and repaints only the modal.
func (c *Controller) ToggleDetails() {
	if c.state.Modal.Kind != ModalDetail {
		return
	}
	c.state.DetailsOpen = !c.state.DetailsOpen
	c.renderModal()
}
