package output

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/inodb/codon-optimizer/internal/metrics"
	"github.com/inodb/codon-optimizer/internal/optimize"
)

// PlotWindowGC draws the windowed GC profile of every optimized organism
// together with the GC band and saves it to path. The image format follows
// the file extension (.png, .svg, .pdf, ...).
func PlotWindowGC(path string, results []optimize.RunResult, cons optimize.Constraints) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("GC content, %d nt windows", cons.Window)
	p.X.Label.Text = "Window start (nt)"
	p.Y.Label.Text = "GC %"
	p.Y.Min, p.Y.Max = 0, 100

	var lines []interface{}
	longest := 0
	for _, rr := range results {
		if rr.Result == nil {
			continue
		}
		prof := metrics.WindowGCProfile(rr.Result.Sequence, cons.Window)
		pts := make(plotter.XYs, len(prof))
		for i, v := range prof {
			pts[i].X = float64(i)
			pts[i].Y = v
		}
		longest = max(longest, len(prof))
		lines = append(lines, rr.Organism, pts)
	}
	if len(lines) == 0 {
		return fmt.Errorf("plot: no optimized sequences")
	}

	end := float64(max(longest-1, 1))
	lines = append(lines,
		"GC min", plotter.XYs{{X: 0, Y: cons.GCMin * 100}, {X: end, Y: cons.GCMin * 100}},
		"GC max", plotter.XYs{{X: 0, Y: cons.GCMax * 100}, {X: end, Y: cons.GCMax * 100}},
	)
	if err := plotutil.AddLines(p, lines...); err != nil {
		return fmt.Errorf("add plot lines: %w", err)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
