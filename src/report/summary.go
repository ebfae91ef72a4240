package report

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary renders the run as human-readable text for the log and the
// optional webhook delivery.
func (r *Report) Summary() string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	// The printer groups every %d, which is wrong for a year ("2,023").
	p.Fprintf(&b, "Indicator analysis for %s: %d countries across %d regions.\n",
		strconv.Itoa(r.Year), r.Countries, len(r.Regions))

	for _, d := range r.Overview {
		if d.Count == 0 || math.IsNaN(d.Mean) {
			p.Fprintf(&b, "%s: no data\n", r.label(d.Indicator))
			continue
		}
		p.Fprintf(&b, "%s: mean %.2f over %d countries (min %.2f, max %.2f)\n",
			r.label(d.Indicator), d.Mean, d.Count, d.Min, d.Max)
	}

	if r.Corr != nil {
		if pair, rho, ok := strongestPair(r.Corr.Indicators, r.Corr.Values); ok {
			p.Fprintf(&b, "Strongest correlation: %s (r=%.3f)\n", pair, rho)
		}
	}
	return b.String()
}

// strongestPair finds the off-diagonal pair with the largest |r|.
func strongestPair(names []string, values [][]float64) (string, float64, bool) {
	best, bestAbs := "", -1.0
	var bestR float64
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			rho := values[i][j]
			if math.IsNaN(rho) {
				continue
			}
			if abs := math.Abs(rho); abs > bestAbs {
				bestAbs = abs
				bestR = rho
				best = names[i] + " ~ " + names[j]
			}
		}
	}
	return best, bestR, bestAbs >= 0
}
