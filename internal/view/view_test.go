package view

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irammini/ecosystem/data"
	"github.com/irammini/ecosystem/internal/catalog"
	"github.com/irammini/ecosystem/internal/i18n"
	"github.com/irammini/ecosystem/internal/seo"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	bundle, err := i18n.LoadFS(data.FS, "locales", "en", nil)
	require.NoError(t, err)
	r, err := New(bundle, nil)
	require.NoError(t, err)
	return r
}

func parse(t *testing.T, c *Capture) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(c.HTML())))
	require.NoError(t, err)
	return doc
}

func sampleItems() []catalog.Item {
	return []catalog.Item{
		{
			ID: "kairo", Name: "Kairo", IsMain: true,
			Status:    catalog.Status{Key: catalog.StatusStable, Version: "v3.4.1"},
			Tech:      catalog.Tech{Lang: "Python", Lib: "discord.py", Host: "Railway", DB: "PostgreSQL"},
			Resources: catalog.Resources{Memory: catalog.MemoryMB(2048), CPU: "1 vCPU", Disk: "5 GB"},
			Keys:      catalog.Keys{Role: "bot_kairo_role", History: "bot_kairo_history", FunFact: "bot_kairo_fun"},
		},
		{
			ID: "scnx-helper", Name: "SCNX Helper",
			Status:    catalog.Status{Key: "retired"},
			Tech:      catalog.Tech{Lang: "SCNX", Lib: "SCNX modules"},
			Resources: catalog.Resources{Memory: catalog.MemoryText("Managed")},
			Keys:      catalog.Keys{Role: "bot_scnx_role", History: "bot_scnx_history"},
		},
		{
			ID: "gopher", Name: "Gopher",
			Status: catalog.Status{Key: catalog.StatusJoke, Version: "v0.0.1"},
			Tech:   catalog.Tech{Lang: "Go", Lib: "discordgo"},
			Keys:   catalog.Keys{Role: "missing_role_key"},
		},
	}
}

func TestAbsentTargetIsNoop(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	targets := Targets{}
	r.Cards(targets.Get(RegionGrid), "en", sampleItems(), "")
	r.Header(targets.Get(RegionHeader), "en")
	r.Clear(targets.Get(RegionModal))
	assert.False(t, targets.Get(RegionGrid).Present())
}

func TestCardsExcerptWithoutSearch(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()
	r.Cards(c, "en", sampleItems(), "")
	doc := parse(t, c)

	cards := doc.Find("article.bot-card")
	require.Equal(t, 3, cards.Length())

	first := cards.Eq(0)
	assert.Equal(t, "kairo", first.AttrOr("data-id", ""))
	assert.True(t, first.Find(".avatar").HasClass("primary"))
	assert.Equal(t, "K", strings.TrimSpace(first.Find(".avatar span").Text()))
	assert.True(t, strings.HasSuffix(first.Find(".bot-role").Text(), "..."))
	assert.Zero(t, first.Find("mark").Length())
	assert.Equal(t, "2 GB", first.Find(".stat-ram .stat-value").Text())
	assert.True(t, first.Find(".status-dot").HasClass("bg-green-500"))
	assert.Contains(t, first.Find(".tech-badge img").AttrOr("src", ""), "python-original.svg")
	assert.Contains(t, first.AttrOr("style", ""), "0ms")

	second := cards.Eq(1)
	assert.True(t, second.Find(".status-dot").HasClass("bg-gray-500"), "unknown status gets the generic color")
	assert.Equal(t, "🤖", second.Find(".tech-glyph").Text())
	assert.Equal(t, "Managed", second.Find(".stat-ram .stat-value").Text())
	assert.Equal(t, "N/A", second.Find(".stat-cpu .stat-value").Text())
	assert.Contains(t, second.AttrOr("style", ""), "75ms")

	third := cards.Eq(2)
	assert.Zero(t, third.Find(".tech-badge img").Length())
	assert.Zero(t, third.Find(".tech-glyph").Length())
	assert.Equal(t, "Go", strings.TrimSpace(third.Find(".tech-badge").Text()))
	assert.Equal(t, "N/A", third.Find(".stat-ram .stat-value").Text())
	assert.Equal(t, "missing_role_key...", third.Find(".bot-role").Text())
	assert.Equal(t, "150ms", strings.TrimSpace(strings.TrimPrefix(third.AttrOr("style", ""), "animation-delay:")))
}

func TestCardsHighlightFullRoleDuringSearch(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()
	items := sampleItems()[:1]
	r.Cards(c, "en", items, "kairo")
	doc := parse(t, c)

	role := doc.Find(".bot-role")
	assert.False(t, strings.HasSuffix(role.Text(), "..."))
	assert.Equal(t, r.T("en", "bot_kairo_role"), role.Text())
	assert.Equal(t, "Kairo", doc.Find(".bot-name mark.search-hit").First().Text())
	assert.Equal(t, 1, c.Writes())
}

func TestCardsEscapeItemData(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()
	r.Cards(c, "en", []catalog.Item{{ID: "x", Name: "<script>alert(1)</script>"}}, "")
	assert.NotContains(t, string(c.HTML()), "<script>")
	assert.Contains(t, c.Text(), "<script>alert(1)</script>")
}

func TestFiltersActiveChip(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	keys := catalog.FilterKeys(sampleItems())

	c := NewCapture()
	r.Filters(c, "en", keys, "dev")
	doc := parse(t, c)
	require.Equal(t, len(keys), doc.Find("button.filter-btn").Length())
	active := doc.Find("button.filter-btn.active")
	require.Equal(t, 1, active.Length())
	assert.Equal(t, "dev", active.AttrOr("data-value", ""))
	assert.Equal(t, "In development", active.Text())
	assert.Equal(t, "Python", doc.Find(`button[data-value="Python"]`).Text())

	r.Filters(c, "en", keys, "")
	doc = parse(t, c)
	assert.Zero(t, doc.Find("button.filter-btn.active").Length())
	assert.Equal(t, 2, c.Writes())
}

func TestLangSwitcherMarksActive(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()
	r.LangSwitcher(c, "fr")
	doc := parse(t, c)
	require.Equal(t, 6, doc.Find("button.lang-btn").Length())
	assert.Equal(t, "fr", doc.Find("button.lang-btn.active").AttrOr("data-value", ""))
}

func TestThemePickerCheck(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()
	r.ThemePicker(c, "en", "midnight")
	doc := parse(t, c)
	active := doc.Find("button.theme-btn.active")
	require.Equal(t, 1, active.Length())
	assert.Equal(t, "midnight", active.AttrOr("data-value", ""))
	assert.False(t, active.Find(".check-icon").HasClass("hidden"))
	assert.Equal(t, 4, doc.Find(".check-icon.hidden").Length())

	r.ThemePicker(c, "en", "neon")
	doc = parse(t, c)
	assert.Equal(t, "aurora", doc.Find("button.theme-btn.active").AttrOr("data-value", ""))
}

func TestSettingsModalComposesPickers(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()
	r.SettingsModal(c, "en", "forest")
	doc := parse(t, c)
	assert.Equal(t, "en", doc.Find(".settings button.lang-btn.active").AttrOr("data-value", ""))
	assert.Equal(t, "forest", doc.Find(".settings button.theme-btn.active").AttrOr("data-value", ""))
}

func TestDetailModalSections(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	aux := catalog.Aux{
		Monitoring: map[string]bool{"kairo": true},
		Repository: map[string]catalog.RepoRef{"kairo": {Kind: catalog.RepoURL, Value: "https://github.com/irammini/kairo"}},
	}
	item := sampleItems()[0]

	c := NewCapture()
	r.DetailModal(c, "en", item, aux, false)
	doc := parse(t, c)
	sections := doc.Find(".modal-section")
	require.Equal(t, 3, sections.Length(), "roadmap is omitted when the item has no key")
	assert.Equal(t, "modal_fun_fact", sections.Eq(2).AttrOr("data-section", ""))
	assert.Equal(t, "v3.4.1 (Stable)", doc.Find(".spec-status dd").Text())
	assert.Equal(t, "Railway", doc.Find(".spec-host dd").Text())
	assert.Zero(t, doc.Find(".aux-rows").Length(), "extended details start collapsed")
	assert.Equal(t, "false", doc.Find(".details-toggle").AttrOr("aria-expanded", ""))

	r.DetailModal(c, "en", item, aux, true)
	doc = parse(t, c)
	rows := doc.Find(".aux-row")
	require.Equal(t, 4, rows.Length())
	assert.Equal(t, "yes", rows.Eq(0).AttrOr("data-kind", ""))
	assert.Equal(t, "https://github.com/irammini/kairo", rows.Eq(1).Find("a").AttrOr("href", ""))
	assert.Equal(t, "N/A", rows.Eq(2).Find("dd").Text())
}

func TestDetailModalRepositoryBranches(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	aux := catalog.Aux{Repository: map[string]catalog.RepoRef{
		"a": {Kind: catalog.RepoLabel, Value: "private"},
		"b": {Kind: catalog.RepoNone},
	}}
	cases := map[string]string{"a": "private", "b": "✗", "c": "N/A"}
	for id, want := range cases {
		d := r.BuildDetail("en", catalog.Item{ID: id, Name: id}, aux, true)
		c := NewCapture()
		r.DetailModal(c, "en", catalog.Item{ID: id, Name: id}, aux, true)
		doc := parse(t, c)
		assert.Equal(t, want, doc.Find(".aux-row").Eq(1).Find("dd").Text(), id)
		assert.Equal(t, "modal_repository", d.Aux[1].LabelKey)
	}
}

func TestStatusLineJoke(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	assert.Equal(t, "Just for fun", r.StatusLine("en", catalog.Status{Key: catalog.StatusJoke, Version: "v9"}))
	assert.Equal(t, "(Planned)", r.StatusLine("en", catalog.Status{Key: catalog.StatusPlanned}))
}

func TestDevModalRendersMarkdown(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()
	r.DevModal(c, "en")
	doc := parse(t, c)
	assert.Equal(t, "irammini", doc.Find(".dev-content strong").First().Text())
	r.Clear(c)
	assert.Empty(t, c.HTML())
}

func TestTimelineNewestFirstStable(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	updates := []catalog.Update{
		{Date: catalog.MustDate("2024-05-01"), Type: "new_feature", TitleKey: "update_timeline_title"},
		{Date: catalog.MustDate("2024-06-10"), Type: "bot_update", TitleKey: "update_kairo_v3_title"},
		{Date: catalog.MustDate("2024-06-10"), Type: "new_feature", TitleKey: "update_themes_title"},
		{Type: "maintenance", TitleKey: "undated"},
		{Date: catalog.MustDate("2024-01-20"), Type: "mystery", TitleKey: "update_migration_title"},
	}
	c := NewCapture()
	r.Timeline(c, "en", updates)
	doc := parse(t, c)

	var dates, icons, titles []string
	doc.Find(".timeline-item").Each(func(_ int, s *goquery.Selection) {
		dates = append(dates, s.Find("time").AttrOr("datetime", ""))
		icons = append(icons, s.Find(".timeline-icon").Text())
		titles = append(titles, s.Find(".timeline-title").Text())
	})
	assert.Equal(t, []string{"2024-06-10", "2024-06-10", "2024-05-01", "2024-01-20", ""}, dates)
	assert.Equal(t, []string{"Kairo v3", "Themes", "Update timeline", "Host migration", "undated"}, titles)
	assert.Equal(t, []string{"🤖", "✨", "✨", "📝", "📝"}, icons)
	assert.Equal(t, "2024-05-01", updates[0].Date.String(), "input slice is not reordered")
}

func TestSearchStatus(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()

	r.SearchStatus(c, "en", "<zzz>", 0)
	doc := parse(t, c)
	assert.Equal(t, "<zzz>", doc.Find(".search-empty .search-term").Text())
	assert.NotContains(t, string(c.HTML()), "<zzz>")

	r.SearchStatus(c, "en", "rust", 2)
	doc = parse(t, c)
	assert.Equal(t, "2", doc.Find(".search-count").Text())

	r.SearchStatus(c, "en", "", 0)
	assert.Empty(t, strings.TrimSpace(string(c.HTML())))
}

func TestTabBarHidesInactivePanel(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()
	r.TabBar(c, "en", TabUpdates)
	doc := parse(t, c)
	assert.Equal(t, "updates", doc.Find(".tab-btn.active").AttrOr("data-value", ""))
	assert.Contains(t, doc.Find("style").Text(), "overview")
	assert.NotContains(t, doc.Find("style").Text(), "updates")
}

func TestThemeStyle(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	c := NewCapture()
	r.ThemeStyle(c, "paper")
	assert.Contains(t, string(c.HTML()), "--bg-secondary:#ffffff")
}

func TestRenderPage(t *testing.T) {
	t.Parallel()
	r := newRenderer(t)
	targets, caps := CaptureAll()
	r.Header(targets.Get(RegionHeader), "vi")
	r.Cards(targets.Get(RegionGrid), "vi", sampleItems(), "")

	regions := map[string]template.HTML{}
	for id, c := range caps {
		regions[id] = c.HTML()
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderPage(&buf, Page{Lang: "vi", Title: "t", Regions: regions, LiveURL: "/live", OG: seo.OpenGraph{Title: "og-t", Type: "website"}}))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "vi", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "og-t", doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	assert.Zero(t, doc.Find(`meta[property="og:image"]`).Length())
	assert.Equal(t, "/live", doc.Find("body").AttrOr("data-live", ""))
	assert.Equal(t, 3, doc.Find("#bot-grid article.bot-card").Length())
	for _, id := range Regions {
		assert.Equal(t, 1, doc.Find("#"+id).Length(), id)
	}
}

func TestCaptureNodes(t *testing.T) {
	t.Parallel()
	c := NewCapture()
	c.Replace(`<p>a</p><p>b</p>`)
	nodes, err := c.Nodes()
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, "ab", c.Text())
}
