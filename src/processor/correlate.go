package processor

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"IndicatorInsight/src/utils"
)

// CorrelationMatrix is a symmetric Pearson matrix over the indicator columns
// in a fixed order. Cells backed by fewer than two paired observations are
// NaN rather than an error.
type CorrelationMatrix struct {
	Indicators []string
	Values     [][]float64 // row-major, Values[i][j]
}

// At returns the coefficient for a named pair.
func (m *CorrelationMatrix) At(a, b string) float64 {
	ia, ib := -1, -1
	for i, name := range m.Indicators {
		if name == a {
			ia = i
		}
		if name == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return math.NaN()
	}
	return m.Values[ia][ib]
}

// Correlate computes the pairwise-complete Pearson correlation matrix: each
// pair's coefficient uses every row where both named indicators are non-null,
// independent of the other columns. Self-pairs are exactly 1 when the column
// has at least two non-null values.
func Correlate(df dataframe.DataFrame, indicators []string) (*CorrelationMatrix, error) {
	cols := make([][]float64, len(indicators))
	for i, name := range indicators {
		if !utils.HasColumn(df, name) {
			return nil, fmt.Errorf("correlate: column %q missing: %w", name, ErrDataUnavailable)
		}
		col := df.Col(name)
		vals := make([]float64, df.Nrow())
		for r := 0; r < df.Nrow(); r++ {
			vals[r] = utils.FloatAt(col, r)
		}
		cols[i] = vals
	}

	n := len(indicators)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			x, y := pairComplete(cols[i], cols[j])
			var r float64
			switch {
			case len(x) < 2:
				r = math.NaN()
			case i == j:
				r = 1
			default:
				r = clampUnit(stat.Correlation(x, y, nil))
			}
			mat[i][j] = r
			mat[j][i] = r
		}
	}

	return &CorrelationMatrix{Indicators: indicators, Values: mat}, nil
}

// pairComplete keeps only the rows where both columns are non-null.
func pairComplete(a, b []float64) (x, y []float64) {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}

func clampUnit(r float64) float64 {
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
