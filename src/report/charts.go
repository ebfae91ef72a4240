package report

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteCharts renders one horizontal bar chart per region ranking, regions
// on the category axis, already sorted descending by the Aggregator. Returns
// the paths of the written PNG files, plus the indicators whose groups were
// all undefined: those have nothing to draw and are skipped, not failed, so
// the rest of the run (summary, webhook) still happens.
func (r *Report) WriteCharts(dir string) (paths []string, skipped []string, err error) {
	for _, rk := range r.Rankings {
		names, values := drawableRows(rk)
		if len(values) == 0 {
			skipped = append(skipped, rk.Indicator)
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_by_%s.png", rk.Indicator, rk.GroupCol))
		if err := barChart(path, rk.Indicator, rk.Label, names, values); err != nil {
			return paths, skipped, err
		}
		paths = append(paths, path)
	}
	return paths, skipped, nil
}

// drawableRows filters out undefined means. NominalY stacks categories
// bottom-to-top, so rows are fed in reverse to keep the largest bar on top.
func drawableRows(rk Ranking) ([]string, plotter.Values) {
	var names []string
	var values plotter.Values
	for i := len(rk.Rows) - 1; i >= 0; i-- {
		gm := rk.Rows[i]
		if math.IsNaN(gm.Mean) {
			continue
		}
		names = append(names, gm.Group)
		values = append(values, gm.Mean)
	}
	return names, values
}

func barChart(path, indicator, label string, names []string, values plotter.Values) error {
	p := plot.New()
	p.Title.Text = label
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "mean"

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("chart %s: %w", indicator, err)
	}
	bars.Horizontal = true
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 68, G: 114, B: 196, A: 255}

	p.Add(bars)
	p.NominalY(names...)

	height := vg.Points(float64(len(values))*28 + 60)
	if err := p.Save(8*vg.Inch, height, path); err != nil {
		return fmt.Errorf("chart %s: %w", indicator, err)
	}
	return nil
}
