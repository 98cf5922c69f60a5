package handlers

import (
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/irammini/ecosystem/internal/catalog"
	"github.com/irammini/ecosystem/internal/i18n"
	"github.com/irammini/ecosystem/internal/seo"
	"github.com/irammini/ecosystem/internal/view"
)

// HomeData is the view model around the rendered regions of the directory
// page: head metadata and structured data.
type HomeData struct {
	Lang   string
	SEO    seo.Meta
	JSONLD string
}

// BuildHomeData derives the head of the page for lang. baseURL may be empty,
// in which case absolute links are omitted.
func BuildHomeData(bundle *i18n.Bundle, lang, baseURL string, cat *catalog.Catalog) HomeData {
	t := bundle.Translator(lang)
	base := strings.TrimRight(baseURL, "/")
	title := t("site_title")
	desc := t("site_subtitle")

	var canonical string
	if base != "" {
		canonical = base + "/?" + url.Values{"lang": {lang}}.Encode()
	}
	vm := HomeData{
		Lang: lang,
		SEO: seo.Meta{
			Title:       title,
			Description: desc,
			Canonical:   canonical,
			OG: seo.OpenGraph{
				Title:       title,
				Description: desc,
				Type:        "website",
				URL:         canonical,
				SiteName:    title,
				Locale:      ogLocale(lang),
			},
		},
	}

	var apps []seo.App
	if cat != nil {
		apps = make([]seo.App, 0, len(cat.Items))
		for _, it := range cat.Items {
			app := seo.App{
				Name:        it.Name,
				Description: t(it.Keys.Role),
				Language:    it.Tech.Lang,
				Version:     it.Status.Version,
			}
			if base != "" {
				app.URL = base + "/?" + url.Values{"bot": {it.ID}}.Encode()
			}
			apps = append(apps, app)
		}
	}
	vm.JSONLD = seo.JSON(seo.Graph(
		seo.WebSite(title, optional(base, "/"), base+"/?q="),
		seo.ItemList(title, apps),
	))
	return vm
}

func optional(base, suffix string) string {
	if base == "" {
		return ""
	}
	return base + suffix
}

// ogLocale maps a language code to the og:locale form, e.g. "vi" to "vi_VN".
func ogLocale(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return ""
	}
	b, _ := tag.Base()
	r, conf := tag.Region()
	if conf == language.No {
		return b.String()
	}
	return b.String() + "_" + r.String()
}

// Page assembles the document model around the rendered regions.
func (h HomeData) Page(regions map[string]template.HTML, liveURL string) view.Page {
	return view.Page{
		Lang:        h.Lang,
		Title:       h.SEO.Title,
		Description: h.SEO.Description,
		Canonical:   h.SEO.Canonical,
		OG:          h.SEO.OG,
		JSONLD:      template.JS(h.JSONLD),
		LiveURL:     liveURL,
		Regions:     regions,
	}
}
