// Package visualize renders comparison plots for ensemble evaluation: one
// boxplot per metric showing the distribution of per-member values, with the
// aggregate's value drawn as a horizontal reference line across the plot.
package visualize

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KoheiTanaka/bago/metrics"
	"github.com/KoheiTanaka/bago/pkg/errors"
)

// MetricBoxPlot writes a PNG comparing the per-member distribution of one
// metric against the aggregate row of the report.
func MetricBoxPlot(report *metrics.Report, metric, path string) error {
	values, err := report.MemberValues(metric)
	if err != nil {
		return errors.Wrap(err, "collecting member metric values")
	}
	if len(values) == 0 {
		return errors.NewValueError("MetricBoxPlot", "report has no member rows")
	}

	p := plot.New()
	p.Title.Text = metric
	p.Y.Label.Text = metric
	p.NominalX("members")

	box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(values))
	if err != nil {
		return errors.Wrap(err, "building boxplot")
	}
	p.Add(box)

	if aggName, agg, ok := report.Aggregate(); ok {
		if v, found := agg.Value(metric); found {
			line := plotter.NewFunction(func(float64) float64 { return v })
			line.Color = color.RGBA{R: 200, A: 255}
			line.Width = vg.Points(1.5)
			p.Add(line)
			p.Legend.Add(aggName, line)
			p.Legend.Top = true
		}
	}

	if err := p.Save(4*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "saving plot")
	}
	return nil
}

// MetricBoxPlots writes one PNG per known metric into dir and returns the
// written paths.
func MetricBoxPlots(report *metrics.Report, dir string) ([]string, error) {
	paths := make([]string, 0, len(metrics.MetricNames))
	for _, metric := range metrics.MetricNames {
		path := filepath.Join(dir, fmt.Sprintf("%s.png", metric))
		if err := MetricBoxPlot(report, metric, path); err != nil {
			return nil, errors.Wrapf(err, "plotting %s", metric)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
