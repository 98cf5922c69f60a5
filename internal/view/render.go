package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/irammini/ecosystem/internal/catalog"
	"github.com/irammini/ecosystem/internal/format"
	"github.com/irammini/ecosystem/internal/i18n"
	"github.com/irammini/ecosystem/internal/seo"
	"github.com/irammini/ecosystem/internal/theme"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// CardStagger is the per-position delay of the card entrance animation.
const CardStagger = 75

// Renderer executes the region templates against a translation bundle.
type Renderer struct {
	tmpl   *template.Template
	bundle *i18n.Bundle
	logger *zap.Logger
}

// New parses the embedded templates.
func New(bundle *i18n.Bundle, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Renderer{bundle: bundle, logger: logger}
	funcs := template.FuncMap{
		"t":    bundle.T,
		"rich": func(lang, key string) template.HTML { return format.RichText(bundle.T(lang, key)) },
	}
	tmpl, err := template.New("_root").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// T resolves key in lang.
func (r *Renderer) T(lang, key string) string { return r.bundle.T(lang, key) }

func (r *Renderer) execute(t Target, name string, data any) {
	if !t.Present() {
		return
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("render region failed", zap.String("template", name), zap.Error(err))
		return
	}
	t.Replace(template.HTML(buf.String()))
}

// Clear empties the region.
func (r *Renderer) Clear(t Target) {
	if !t.Present() {
		return
	}
	t.Replace("")
}

// Card is the view model of one grid card.
type Card struct {
	ID          string
	Initial     string
	Name        template.HTML
	Lib         string
	Role        template.HTML
	Primary     bool
	StatusLabel string
	StatusColor string
	Tech        string
	Icon        TechIcon
	Memory      string
	CPU         string
	Disk        string
	Delay       string
}

// BuildCards projects items into cards. With an empty term the role is an
// excerpt; during a search it is the full text with matches emphasized.
func (r *Renderer) BuildCards(lang string, items []catalog.Item, term string) []Card {
	na := r.T(lang, "not_applicable")
	cards := make([]Card, 0, len(items))
	for i, it := range items {
		role := r.T(lang, it.Keys.Role)
		var roleHTML template.HTML
		if term == "" {
			roleHTML = format.Highlight(format.Excerpt(role), "")
		} else {
			roleHTML = format.Highlight(role, term)
		}
		cards = append(cards, Card{
			ID:          it.ID,
			Initial:     format.Initial(it.Name),
			Name:        format.Highlight(it.Name, term),
			Lib:         it.Tech.Lib,
			Role:        roleHTML,
			Primary:     it.IsMain,
			StatusLabel: r.T(lang, "filter_"+it.Status.Key),
			StatusColor: StatusColor(it.Status.Key),
			Tech:        it.Tech.Lang,
			Icon:        IconFor(it.Tech.Lang),
			Memory:      format.Memory(it.Resources.Memory, na),
			CPU:         format.OrPlaceholder(it.Resources.CPU, na),
			Disk:        format.OrPlaceholder(it.Resources.Disk, na),
			Delay:       fmt.Sprintf("%dms", CardStagger*i),
		})
	}
	return cards
}

// Cards renders the card grid.
func (r *Renderer) Cards(t Target, lang string, items []catalog.Item, term string) {
	if !t.Present() {
		return
	}
	r.execute(t, "cards", struct {
		Lang  string
		Cards []Card
	}{lang, r.BuildCards(lang, items, term)})
}

// Chip is one filter button.
type Chip struct {
	Key    string
	Label  string
	Active bool
}

// Filters renders the chip bar. active is empty while a search is live so no
// chip is highlighted.
func (r *Renderer) Filters(t Target, lang string, keys []string, active string) {
	if !t.Present() {
		return
	}
	chips := make([]Chip, 0, len(keys))
	for _, k := range keys {
		label := k
		if k == catalog.FilterAll || catalog.IsCategory(k) {
			label = r.T(lang, "filter_"+k)
		}
		chips = append(chips, Chip{Key: k, Label: label, Active: k == active})
	}
	r.execute(t, "filters", struct {
		Lang  string
		Chips []Chip
	}{lang, chips})
}

type langOption struct {
	Code   string
	Flag   string
	Active bool
}

type themeOption struct {
	ID     string
	Label  string
	Accent string
	Active bool
}

func langOptions(lang string) []langOption {
	out := make([]langOption, 0, len(i18n.Languages))
	for _, l := range i18n.Languages {
		out = append(out, langOption{Code: l.Code, Flag: l.Flag, Active: l.Code == lang})
	}
	return out
}

func (r *Renderer) themeOptions(lang, themeID string) []themeOption {
	active := theme.Lookup(themeID).ID
	out := make([]themeOption, 0, len(theme.Themes))
	for _, p := range theme.Themes {
		out = append(out, themeOption{
			ID:     p.ID,
			Label:  r.T(lang, "theme_"+p.ID),
			Accent: p.Accent,
			Active: p.ID == active,
		})
	}
	return out
}

type pickerView struct {
	Lang   string
	Langs  []langOption
	Themes []themeOption
}

// LangSwitcher renders one button per supported language.
func (r *Renderer) LangSwitcher(t Target, lang string) {
	r.execute(t, "lang_switcher", pickerView{Lang: lang, Langs: langOptions(lang)})
}

// ThemePicker renders the theme buttons with a check on the active one.
func (r *Renderer) ThemePicker(t Target, lang, themeID string) {
	if !t.Present() {
		return
	}
	r.execute(t, "theme_picker", pickerView{Lang: lang, Themes: r.themeOptions(lang, themeID)})
}

// SettingsModal renders the settings dialog composing both pickers.
func (r *Renderer) SettingsModal(t Target, lang, themeID string) {
	if !t.Present() {
		return
	}
	r.execute(t, "settings_modal", pickerView{
		Lang:   lang,
		Langs:  langOptions(lang),
		Themes: r.themeOptions(lang, themeID),
	})
}

// Section is one optional prose block of the detail modal.
type Section struct {
	Icon     string
	TitleKey string
	Body     template.HTML
	Accent   bool
}

// AuxRow is one line of the extended technical details.
type AuxRow struct {
	LabelKey string
	Kind     string // link, text, yes, no, na
	Value    string
}

// Detail is the view model of the item modal.
type Detail struct {
	Lang        string
	ID          string
	Name        string
	Initial     string
	Primary     bool
	TechLang    string
	Lib         string
	Sections    []Section
	StatusLine  string
	Host        string
	DB          string
	Memory      string
	CPU         string
	Disk        string
	DetailsOpen bool
	Aux         []AuxRow
}

// StatusLine is "version (label)", or the label alone for joke items.
func (r *Renderer) StatusLine(lang string, st catalog.Status) string {
	label := r.T(lang, "filter_"+st.Key)
	if st.Key == catalog.StatusJoke {
		return label
	}
	return strings.TrimSpace(fmt.Sprintf("%s (%s)", st.Version, label))
}

// BuildDetail projects an item and its aux footnotes into the modal model.
func (r *Renderer) BuildDetail(lang string, it catalog.Item, aux catalog.Aux, detailsOpen bool) Detail {
	na := r.T(lang, "not_applicable")
	d := Detail{
		Lang:        lang,
		ID:          it.ID,
		Name:        it.Name,
		Initial:     format.Initial(it.Name),
		Primary:     it.IsMain,
		TechLang:    it.Tech.Lang,
		Lib:         it.Tech.Lib,
		StatusLine:  r.StatusLine(lang, it.Status),
		Host:        format.OrPlaceholder(it.Tech.Host, na),
		DB:          format.OrPlaceholder(it.Tech.DB, na),
		Memory:      format.Memory(it.Resources.Memory, na),
		CPU:         format.OrPlaceholder(it.Resources.CPU, na),
		Disk:        format.OrPlaceholder(it.Resources.Disk, na),
		DetailsOpen: detailsOpen,
	}
	sections := []struct {
		key, icon, title string
		accent           bool
	}{
		{it.Keys.Role, "💼", "modal_role", false},
		{it.Keys.History, "📜", "modal_history", false},
		{it.Keys.FunFact, "✨", "modal_fun_fact", true},
		{it.Keys.Roadmap, "🗺️", "modal_roadmap", false},
	}
	for _, s := range sections {
		if s.key == "" {
			continue
		}
		d.Sections = append(d.Sections, Section{
			Icon:     s.icon,
			TitleKey: s.title,
			Body:     format.RichText(r.T(lang, s.key)),
			Accent:   s.accent,
		})
	}
	d.Aux = []AuxRow{
		flagRow("modal_monitoring", aux.MonitoringFor(it.ID)),
		repoRow(aux.RepositoryFor(it.ID)),
		flagRow("modal_custom_avatar", aux.CustomAvatarFor(it.ID)),
		flagRow("modal_status_presence", aux.StatusPresenceFor(it.ID)),
	}
	return d
}

func flagRow(label string, f catalog.Flag) AuxRow {
	switch f {
	case catalog.FlagYes:
		return AuxRow{LabelKey: label, Kind: "yes"}
	case catalog.FlagNo:
		return AuxRow{LabelKey: label, Kind: "no"}
	default:
		return AuxRow{LabelKey: label, Kind: "na"}
	}
}

func repoRow(ref catalog.RepoRef) AuxRow {
	row := AuxRow{LabelKey: "modal_repository", Value: ref.Value}
	switch ref.Kind {
	case catalog.RepoURL:
		row.Kind = "link"
	case catalog.RepoLabel:
		row.Kind = "text"
	case catalog.RepoNone:
		row.Kind = "no"
	default:
		row.Kind = "na"
	}
	return row
}

// DetailModal renders the item modal.
func (r *Renderer) DetailModal(t Target, lang string, it catalog.Item, aux catalog.Aux, detailsOpen bool) {
	if !t.Present() {
		return
	}
	r.execute(t, "detail_modal", r.BuildDetail(lang, it, aux, detailsOpen))
}

// DevModal renders the developer info modal.
func (r *Renderer) DevModal(t Target, lang string) {
	r.execute(t, "dev_modal", struct{ Lang string }{lang})
}

// TimelineEntry is one rendered update.
type TimelineEntry struct {
	Icon      string
	Date      string
	TypeLabel string
	Title     string
	Body      template.HTML
}

// SortUpdates returns a copy of updates ordered by date, newest first. Equal
// dates keep their input order.
func SortUpdates(updates []catalog.Update) []catalog.Update {
	out := append([]catalog.Update(nil), updates...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// BuildTimeline projects updates into timeline entries.
func (r *Renderer) BuildTimeline(lang string, updates []catalog.Update) []TimelineEntry {
	sorted := SortUpdates(updates)
	out := make([]TimelineEntry, 0, len(sorted))
	for _, u := range sorted {
		out = append(out, TimelineEntry{
			Icon:      UpdateIcon(u.Type),
			Date:      format.Date(u.Date.Time),
			TypeLabel: r.T(lang, "update_type_"+u.Type),
			Title:     r.T(lang, u.TitleKey),
			Body:      format.RichText(r.T(lang, u.ContentKey)),
		})
	}
	return out
}

// Timeline renders the update timeline.
func (r *Renderer) Timeline(t Target, lang string, updates []catalog.Update) {
	if !t.Present() {
		return
	}
	r.execute(t, "timeline", struct {
		Lang    string
		Entries []TimelineEntry
	}{lang, r.BuildTimeline(lang, updates)})
}

// SearchStatus renders the result count for term, an explicit no-results
// notice, or nothing when no search is live.
func (r *Renderer) SearchStatus(t Target, lang, term string, count int) {
	r.execute(t, "search_status", struct {
		Lang  string
		Term  string
		Count int
	}{lang, term, count})
}

// Header renders the translated page chrome.
func (r *Renderer) Header(t Target, lang string) {
	r.execute(t, "header", struct{ Lang string }{lang})
}

// SearchBox renders the search form holding term.
func (r *Renderer) SearchBox(t Target, lang, term string) {
	r.execute(t, "search_box", struct {
		Lang string
		Term string
	}{lang, term})
}

type tabView struct {
	Lang   string
	Active string
	Tabs   []string
}

// Tab ids.
const (
	TabOverview = "overview"
	TabUpdates  = "updates"
)

// Tabs lists the tab ids in bar order.
var Tabs = []string{TabOverview, TabUpdates}

// IsTab reports whether id names a tab.
func IsTab(id string) bool { return id == TabOverview || id == TabUpdates }

// TabBar renders the tab buttons and the panel visibility rule.
func (r *Renderer) TabBar(t Target, lang, active string) {
	r.execute(t, "tabs", tabView{Lang: lang, Active: active, Tabs: Tabs})
}

// OverviewPanel renders the overview tab chrome.
func (r *Renderer) OverviewPanel(t Target, lang string) {
	r.execute(t, "overview_panel", struct{ Lang string }{lang})
}

// UpdatesPanel renders the updates tab chrome.
func (r *Renderer) UpdatesPanel(t Target, lang string) {
	r.execute(t, "updates_panel", struct{ Lang string }{lang})
}

// ThemeStyle renders the palette's CSS variables.
func (r *Renderer) ThemeStyle(t Target, themeID string) {
	p := theme.Lookup(themeID)
	r.execute(t, "theme_style", struct {
		ID  string
		CSS template.CSS
	}{themeID, template.CSS(p.CSS())})
}

// Page is the full document shell around the rendered regions.
type Page struct {
	Lang        string
	Title       string
	Description string
	Canonical   string
	OG          seo.OpenGraph
	JSONLD      template.JS
	LiveURL     string
	Regions     map[string]template.HTML
}

// RenderPage writes the full document.
func (r *Renderer) RenderPage(w io.Writer, p Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "page", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
