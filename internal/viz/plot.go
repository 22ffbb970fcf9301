package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigidsim/internal/storage"
)

const (
	plotWidth  = 80
	plotHeight = 10
)

// PlotHeight renders the body height over time.
func PlotHeight(samples []storage.Sample) string {
	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.Position.Y()
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("height y(t)"),
	)
}

// PlotVerticalSpeed renders the vertical velocity over time.
func PlotVerticalSpeed(samples []storage.Sample) string {
	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.LinearVel.Y()
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("vertical speed vy(t)"),
	)
}

// PlotSpeed renders the linear speed magnitude over time.
func PlotSpeed(samples []storage.Sample) string {
	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.LinearVel.Len()
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("speed |v|(t)"),
	)
}
