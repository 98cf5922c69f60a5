// Package view projects controller state onto page regions. Every renderer
// fully replaces its region and is a no-op when the region is absent.
package view

import (
	"html/template"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Region ids. Each id is both the DOM element id on the page and the key the
// live channel patches.
const (
	RegionThemeStyle    = "theme-style"
	RegionHeader        = "site-header"
	RegionSearchBox     = "search-box"
	RegionSearchStatus  = "search-status"
	RegionFilters       = "filters"
	RegionGrid          = "bot-grid"
	RegionTabs          = "tabs"
	RegionOverview      = "content-overview"
	RegionUpdates       = "content-updates"
	RegionRAMChart      = "ram-chart"
	RegionLangChart     = "lang-chart"
	RegionTimeline      = "timeline"
	RegionModal         = "modal"
	RegionSettingsModal = "settings-modal"
	RegionLangSwitcher  = "lang-switcher"
	RegionThemePicker   = "theme-picker"
)

// Regions lists every region id in page order.
var Regions = []string{
	RegionThemeStyle,
	RegionHeader,
	RegionLangSwitcher,
	RegionSearchBox,
	RegionSearchStatus,
	RegionFilters,
	RegionGrid,
	RegionTabs,
	RegionOverview,
	RegionRAMChart,
	RegionLangChart,
	RegionUpdates,
	RegionTimeline,
	RegionThemePicker,
	RegionModal,
	RegionSettingsModal,
}

// Target is a replaceable page region.
type Target interface {
	// Present reports whether the region exists on the current surface.
	Present() bool
	// Replace swaps the region's entire content.
	Replace(content template.HTML)
}

type absent struct{}

func (absent) Present() bool { return false }
func (absent) Replace(template.HTML) {}

// Absent is a Target for a region the surface does not have.
var Absent Target = absent{}

// Targets maps region ids to targets. Missing ids resolve to Absent.
type Targets map[string]Target

// Get returns the target for id.
func (t Targets) Get(id string) Target {
	if tg, ok := t[id]; ok && tg != nil {
		return tg
	}
	return Absent
}

// Capture is an in-memory Target recording what was written to it.
type Capture struct {
	mu      sync.Mutex
	content template.HTML
	writes  int
}

// NewCapture returns a present, empty capture.
func NewCapture() *Capture { return &Capture{} }

// Present implements Target.
func (c *Capture) Present() bool { return true }

// Replace implements Target.
func (c *Capture) Replace(content template.HTML) {
	c.mu.Lock()
	c.content = content
	c.writes++
	c.mu.Unlock()
}

// HTML returns the last written content.
func (c *Capture) HTML() template.HTML {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// Writes counts Replace calls.
func (c *Capture) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// Nodes parses the captured fragment in a <div> context.
func (c *Capture) Nodes() ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	return html.ParseFragment(strings.NewReader(string(c.HTML())), ctx)
}

// Text returns the concatenated text content of the captured fragment.
func (c *Capture) Text() string {
	nodes, err := c.Nodes()
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CaptureAll returns a Targets map with a fresh Capture for every region,
// plus typed access to the captures.
func CaptureAll() (Targets, map[string]*Capture) {
	targets := make(Targets, len(Regions))
	caps := make(map[string]*Capture, len(Regions))
	for _, id := range Regions {
		c := NewCapture()
		targets[id] = c
		caps[id] = c
	}
	return targets, caps
}
