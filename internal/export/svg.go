// Package export renders recorded runs to standalone files.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/rigidsim/internal/storage"
)

const (
	svgWidth  = 800.0
	svgHeight = 400.0
	svgMargin = 40.0
)

// TrajectorySVG renders the center height of a run over time as an SVG
// line chart, with the ground plane marked.
func TrajectorySVG(samples []storage.Sample) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, svgWidth, svgHeight, svgWidth, svgHeight))

	if len(samples) < 2 {
		sb.WriteString("</svg>\n")
		return sb.String()
	}

	minY, maxY := samples[0].Position.Y(), samples[0].Position.Y()
	for _, s := range samples {
		y := s.Position.Y()
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	// Keep the ground plane in frame.
	minY = math.Min(minY, 0)
	if maxY == minY {
		maxY = minY + 1
	}

	t0 := samples[0].Time
	t1 := samples[len(samples)-1].Time
	if t1 == t0 {
		t1 = t0 + 1
	}

	toX := func(t float64) float64 {
		return svgMargin + (t-t0)/(t1-t0)*(svgWidth-2*svgMargin)
	}
	toY := func(y float64) float64 {
		return svgHeight - svgMargin - (y-minY)/(maxY-minY)*(svgHeight-2*svgMargin)
	}

	groundY := toY(0)
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#555555" stroke-dasharray="4 4"/>
`, svgMargin, groundY, svgWidth-svgMargin, groundY))

	points := make([]string, 0, len(samples))
	for _, s := range samples {
		points = append(points, fmt.Sprintf("%.1f,%.1f", toX(s.Time), toY(s.Position.Y())))
	}
	sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="#00ff00" stroke-width="1.5"/>
`, strings.Join(points, " ")))

	sb.WriteString(fmt.Sprintf(`<text x="%.0f" y="%.0f" fill="#888888" font-family="monospace" font-size="12">height</text>
<text x="%.0f" y="%.0f" fill="#888888" font-family="monospace" font-size="12">t = %.2fs .. %.2fs</text>
</svg>
`, svgMargin, svgMargin-10, svgMargin, svgHeight-10, t0, t1))

	return sb.String()
}
