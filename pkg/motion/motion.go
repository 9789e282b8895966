// Package motion holds the scroll-driven animation math of the landing page. The browser
// engine in pkg/web/static/public/app.js uses the same formulas.
package motion

import (
	"fmt"
	"strings"
)

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep eases x between the two edges: 0 at or below edge0, 1 at or above edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Progress is how far scroll has travelled through [start, end], clamped to [0, 1].
func Progress(scroll, start, end float64) float64 {
	if end <= start {
		if scroll >= end {
			return 1
		}
		return 0
	}
	return Clamp((scroll-start)/(end-start), 0, 1)
}

type Property string

const (
	TranslateY Property = "y"
	Opacity    Property = "opacity"
	Scale      Property = "scale"
)

// Layer animates one CSS property of an element while the page scrolls from Start to End.
type Layer struct {
	Name     string   `json:"name"`
	Property Property `json:"property"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	From     float64  `json:"from"`
	To       float64  `json:"to"`
}

func (l Layer) Offset(scroll float64) float64 {
	return Lerp(l.From, l.To, Smoothstep(0, 1, Progress(scroll, l.Start, l.End)))
}

// Style renders the layer at scroll as an inline CSS declaration.
func (l Layer) Style(scroll float64) string {
	v := l.Offset(scroll)
	switch l.Property {
	case Opacity:
		return fmt.Sprintf("opacity: %.3f;", v)
	case Scale:
		return fmt.Sprintf("transform: scale(%.3f);", v)
	default:
		return fmt.Sprintf("transform: translate3d(0, %.1fpx, 0);", v)
	}
}

// Scene groups the layers of one landing page section.
type Scene struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Layers []Layer `json:"layers"`
}

// Styles returns the inline style of every layer at scroll, keyed by layer name.
func (s Scene) Styles(scroll float64) map[string]string {
	out := make(map[string]string, len(s.Layers))
	for _, l := range s.Layers {
		out[l.Name] = strings.TrimSpace(out[l.Name] + " " + l.Style(scroll))
	}
	return out
}

// DefaultScenes describes the landing page, top to bottom.
func DefaultScenes() []Scene {
	return []Scene{
		{
			ID:    "hero",
			Label: "Home",
			Layers: []Layer{
				{Name: "backdrop", Property: TranslateY, Start: 0, End: 800, From: 0, To: 240},
				{Name: "title", Property: TranslateY, Start: 0, End: 600, From: 0, To: -120},
				{Name: "title-fade", Property: Opacity, Start: 100, End: 600, From: 1, To: 0},
			},
		},
		{
			ID:    "work",
			Label: "Work",
			Layers: []Layer{
				{Name: "heading", Property: TranslateY, Start: 300, End: 900, From: 80, To: 0},
				{Name: "grid", Property: Opacity, Start: 400, End: 900, From: 0.2, To: 1},
			},
		},
		{
			ID:    "about",
			Label: "About",
			Layers: []Layer{
				{Name: "portrait", Property: Scale, Start: 900, End: 1600, From: 0.85, To: 1},
				{Name: "copy", Property: TranslateY, Start: 900, End: 1500, From: 60, To: 0},
			},
		},
		{
			ID:    "contact",
			Label: "Contact",
			Layers: []Layer{
				{Name: "card", Property: Opacity, Start: 1400, End: 1900, From: 0, To: 1},
			},
		},
	}
}

// Section is a navigable block of the page at a document offset.
type Section struct {
	ID  string
	Top float64
}

// ActiveSection returns the last section, in document order, whose top has crossed the
// anchor line (scroll + viewport*anchor). Before the first section it returns the first one.
func ActiveSection(sections []Section, scroll, viewport, anchor float64) string {
	if len(sections) == 0 {
		return ""
	}
	line := scroll + viewport*Clamp(anchor, 0, 1)
	active := sections[0].ID
	for _, s := range sections {
		if s.Top <= line {
			active = s.ID
		}
	}
	return active
}
