package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/floats"

	"github.com/irammini/ecosystem/internal/view"
)

// SVGLibrary draws charts as inline SVG.
type SVGLibrary struct {
	Width int
}

// NewSVGLibrary returns a library drawing charts width pixels wide.
func NewSVGLibrary(width int) *SVGLibrary {
	if width <= 0 {
		width = 480
	}
	return &SVGLibrary{Width: width}
}

// Available implements Library.
func (l *SVGLibrary) Available() bool { return l != nil }

type svgInstance struct {
	destroyed bool
}

func (i *svgInstance) Destroy() { i.destroyed = true }

// New implements Library.
func (l *SVGLibrary) New(target view.Target, cfg Config) (Instance, error) {
	var buf bytes.Buffer
	switch cfg.Kind {
	case KindBar:
		l.bar(&buf, cfg)
	case KindDoughnut:
		l.doughnut(&buf, cfg)
	default:
		return nil, fmt.Errorf("chart: unsupported kind %q", cfg.Kind)
	}
	target.Replace(template.HTML(buf.String()))
	return &svgInstance{}, nil
}

const (
	rowHeight  = 26
	labelWidth = 110
	axisHeight = 24
	padding    = 8
)

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// logBounds returns the decade exponents enclosing values.
func logBounds(values []float64) (lo, hi int) {
	if len(values) == 0 {
		return 0, 1
	}
	least, most := floats.Min(values), floats.Max(values)
	if least < 1 {
		least = 1
	}
	if most < 1 {
		most = 1
	}
	lo = int(math.Floor(math.Log10(least)))
	hi = int(math.Ceil(math.Log10(most)))
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func (l *SVGLibrary) bar(buf *bytes.Buffer, cfg Config) {
	values := make([]float64, len(cfg.Points))
	for i, p := range cfg.Points {
		values[i] = p.Value
	}
	plotW := l.Width - labelWidth - 2*padding
	height := len(cfg.Points)*rowHeight + axisHeight + 2*padding

	var scale func(float64) int
	var ticks []float64
	if cfg.LogScale {
		lo, hi := logBounds(values)
		span := float64(hi - lo)
		scale = func(v float64) int {
			if v < 1 {
				v = 1
			}
			return int(math.Round((math.Log10(v) - float64(lo)) / span * float64(plotW)))
		}
		for e := lo; e <= hi; e++ {
			ticks = append(ticks, math.Pow(10, float64(e)))
		}
	} else {
		top := 1.0
		if len(values) > 0 {
			top = math.Max(floats.Max(values), 1)
		}
		scale = func(v float64) int { return int(math.Round(v / top * float64(plotW))) }
		ticks = []float64{0, top / 2, top}
	}

	canvas := svg.New(buf)
	canvas.Startview(l.Width, height, 0, 0, l.Width, height)
	canvas.Title(cfg.Title)
	x0 := labelWidth + padding
	axisY := padding + len(cfg.Points)*rowHeight

	canvas.Group(`class="chart-axis"`, `font-size="10"`, fmt.Sprintf(`fill="%s"`, cfg.TextColor))
	for _, tv := range ticks {
		x := x0 + scale(tv)
		canvas.Line(x, padding, x, axisY, fmt.Sprintf(`stroke="%s"`, GridColor))
		canvas.Text(x, axisY+14, fmtNum(tv), `text-anchor="middle"`)
	}
	canvas.Gend()

	fill := "rgba(99, 102, 241, 0.7)"
	if len(cfg.Colors) > 0 {
		fill = cfg.Colors[0]
	}
	for i, p := range cfg.Points {
		y := padding + i*rowHeight
		canvas.Group(`class="bar"`, fmt.Sprintf(`data-label="%s"`, template.HTMLEscapeString(p.Label)))
		canvas.Title(fmt.Sprintf("%s: %s %s", p.Label, fmtNum(p.Value), cfg.Unit))
		canvas.Text(labelWidth, y+rowHeight/2+4, p.Label, `text-anchor="end"`, `font-size="10"`, fmt.Sprintf(`fill="%s"`, cfg.TextColor))
		w := scale(p.Value)
		if w < 1 {
			w = 1
		}
		canvas.Roundrect(x0, y+4, w, rowHeight-8, 4, 4, fmt.Sprintf(`fill="%s"`, fill), `stroke="rgba(99, 102, 241, 1)"`)
		canvas.Gend()
	}
	canvas.End()
}

func (l *SVGLibrary) doughnut(buf *bytes.Buffer, cfg Config) {
	values := make([]float64, len(cfg.Points))
	for i, p := range cfg.Points {
		values[i] = p.Value
	}
	total := floats.Sum(values)
	colors := cfg.Colors
	if len(colors) == 0 {
		colors = DatasetColors
	}

	size := l.Width / 2
	if size < 160 {
		size = 160
	}
	cx, cy := l.Width/2, padding+size/2
	r := size/2 - 20
	stroke := size / 5
	legendTop := padding + size + padding
	height := legendTop + len(cfg.Points)*18 + padding
	circ := 2 * math.Pi * float64(r)

	canvas := svg.New(buf)
	canvas.Startview(l.Width, height, 0, 0, l.Width, height)
	canvas.Title(cfg.Title)

	offset := 0.0
	for i, p := range cfg.Points {
		if total <= 0 {
			break
		}
		seg := p.Value / total * circ
		color := colors[i%len(colors)]
		canvas.Group(`class="segment"`)
		canvas.Title(l.countLabel(cfg, p))
		canvas.Circle(cx, cy, r,
			`fill="none"`,
			fmt.Sprintf(`stroke="%s"`, color),
			fmt.Sprintf(`stroke-width="%d"`, stroke),
			fmt.Sprintf(`stroke-dasharray="%.2f %.2f"`, seg, circ-seg),
			fmt.Sprintf(`stroke-dashoffset="%.2f"`, -offset),
			fmt.Sprintf(`transform="rotate(-90 %d %d)"`, cx, cy))
		canvas.Gend()
		offset += seg
	}
	// segment separators use the card background, like a border
	canvas.Circle(cx, cy, r-stroke/2, `fill="none"`, fmt.Sprintf(`stroke="%s"`, cfg.BorderColor), `stroke-width="2"`)

	canvas.Group(`class="legend"`, `font-size="11"`, fmt.Sprintf(`fill="%s"`, cfg.TextColor))
	for i, p := range cfg.Points {
		y := legendTop + i*18
		canvas.Rect(padding*2, y, 12, 12, fmt.Sprintf(`fill="%s"`, colors[i%len(colors)]))
		canvas.Text(padding*2+18, y+10, l.countLabel(cfg, p))
	}
	canvas.Gend()
	canvas.End()
}

func (l *SVGLibrary) countLabel(cfg Config, p Point) string {
	word := cfg.Plural
	if p.Value == 1 {
		word = cfg.Singular
	}
	return fmt.Sprintf("%s: %s %s", p.Label, fmtNum(p.Value), word)
}
