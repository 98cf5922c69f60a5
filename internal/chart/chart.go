// Package chart prepares the overview aggregates and hands them to a chart
// library. The library is a black box; the adapter only owns instance
// lifetimes.
package chart

import (
	"sort"

	"go.uber.org/zap"

	"github.com/irammini/ecosystem/internal/catalog"
	"github.com/irammini/ecosystem/internal/theme"
	"github.com/irammini/ecosystem/internal/view"
)

// Kind selects the chart shape.
type Kind string

const (
	KindBar      Kind = "bar"
	KindDoughnut Kind = "doughnut"
)

// DatasetColors are assigned to doughnut segments in order, cycling.
var DatasetColors = []string{"#6366f1", "#f59e0b", "#ef4444", "#22c55e", "#a855f7", "#8b5cf6", "#ec4899", "#6b7280"}

// GridColor is the neutral grid line color shared by every theme.
const GridColor = "rgba(150, 150, 150, 0.1)"

// Point is one labelled value.
type Point struct {
	Label string
	Value float64
}

// Config is everything a library needs to draw one chart.
type Config struct {
	Kind     Kind
	Title    string
	Points   []Point
	LogScale bool
	Unit     string
	Colors   []string

	TextColor    string
	BorderColor  string
	TooltipBg    string
	TooltipTitle string
	TooltipBody  string

	// Count wording for doughnut legends and tooltips.
	Singular string
	Plural   string
}

// Instance is a drawn chart that must be destroyed before its region is
// drawn again.
type Instance interface {
	Destroy()
}

// Library draws charts into page regions.
type Library interface {
	Available() bool
	New(target view.Target, cfg Config) (Instance, error)
}

// Handles holds the live chart instances of one page. Only the Adapter reads
// or mutates it.
type Handles struct {
	live []Instance
}

// Len reports how many instances are live.
func (h *Handles) Len() int { return len(h.live) }

func (h *Handles) destroyAll() {
	for _, inst := range h.live {
		inst.Destroy()
	}
	h.live = nil
}

// Targets are the two chart regions.
type Targets struct {
	RAM  view.Target
	Lang view.Target
}

// Adapter renders the overview charts.
type Adapter struct {
	lib    Library
	logger *zap.Logger
}

// NewAdapter wraps lib. A nil lib behaves as an unavailable library.
func NewAdapter(lib Library, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{lib: lib, logger: logger}
}

// Render tears down every instance in h, then draws the RAM ranking and the
// language distribution from the full item list. It does nothing when the
// library is unavailable; an absent target skips only its chart.
func (a *Adapter) Render(items []catalog.Item, p theme.Palette, tr func(string) string, h *Handles, targets Targets) {
	if a == nil || a.lib == nil || !a.lib.Available() {
		return
	}
	h.destroyAll()

	base := Config{
		TextColor:    p.TextSecondary,
		BorderColor:  p.BgSecondary,
		TooltipBg:    p.BgPrimary,
		TooltipTitle: p.TextPrimary,
		TooltipBody:  p.TextSecondary,
	}

	if targets.RAM != nil && targets.RAM.Present() {
		cfg := base
		cfg.Kind = KindBar
		cfg.Title = tr("chart_ram_title")
		cfg.Points = RAMSeries(items)
		cfg.LogScale = true
		cfg.Unit = "MB"
		cfg.Colors = []string{"rgba(99, 102, 241, 0.7)"}
		a.create(targets.RAM, cfg, h)
	}
	if targets.Lang != nil && targets.Lang.Present() {
		cfg := base
		cfg.Kind = KindDoughnut
		cfg.Title = tr("chart_lang_title")
		cfg.Points = LanguageSeries(items)
		cfg.Colors = DatasetColors
		cfg.Singular = tr("chart_bot_singular")
		cfg.Plural = tr("chart_bot_plural")
		a.create(targets.Lang, cfg, h)
	}
}

func (a *Adapter) create(target view.Target, cfg Config, h *Handles) {
	inst, err := a.lib.New(target, cfg)
	if err != nil {
		a.logger.Warn("chart render failed", zap.String("kind", string(cfg.Kind)), zap.Error(err))
		return
	}
	h.live = append(h.live, inst)
}

// RAMSeries lists items with a numeric memory size, largest first. Items of
// equal size keep catalog order.
func RAMSeries(items []catalog.Item) []Point {
	var out []Point
	for _, it := range items {
		if !it.Resources.Memory.Numeric {
			continue
		}
		out = append(out, Point{Label: it.Name, Value: it.Resources.Memory.MB})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// LanguageSeries counts items per technology tag in first-seen order.
func LanguageSeries(items []catalog.Item) []Point {
	idx := map[string]int{}
	var out []Point
	for _, it := range items {
		i, ok := idx[it.Tech.Lang]
		if !ok {
			i = len(out)
			idx[it.Tech.Lang] = i
			out = append(out, Point{Label: it.Tech.Lang})
		}
		out[i].Value++
	}
	return out
}
