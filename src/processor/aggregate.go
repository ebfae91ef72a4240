package processor

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/montanaflynn/stats"

	"IndicatorInsight/src/utils"
)

// GroupMean is one (group label, mean) pair of a grouped aggregation.
// Mean is NaN when the group has no non-null observations.
type GroupMean struct {
	Group string
	Mean  float64
	Count int // non-null observations behind the mean
}

// RegionSummary is one combined row per region covering several indicators.
type RegionSummary struct {
	Region string
	Size   int // rows in the region
	Means  map[string]float64
}

// DescriptiveStats summarizes one indicator across the whole dataset.
type DescriptiveStats struct {
	Indicator string
	Count     int
	Mean      float64
	Std       float64
	Min       float64
	Median    float64
	Max       float64
}

// MeanByRegion groups by region and averages one indicator per group,
// excluding nulls. Groups appear in first-encounter order, then the result
// is stable-sorted descending by mean; all-null groups stay in the output
// with a NaN mean, sorted last.
func MeanByRegion(df dataframe.DataFrame, indicator string) ([]GroupMean, error) {
	return MeanByGroup(df, ColRegion, indicator)
}

// MeanByGroup is MeanByRegion keyed by an arbitrary label column, used for
// the income-group breakdowns.
func MeanByGroup(df dataframe.DataFrame, groupCol, indicator string) ([]GroupMean, error) {
	if !utils.HasColumn(df, groupCol) {
		return nil, fmt.Errorf("aggregate: column %q missing: %w", groupCol, ErrDataUnavailable)
	}
	if !utils.HasColumn(df, indicator) {
		return nil, fmt.Errorf("aggregate: column %q missing: %w", indicator, ErrDataUnavailable)
	}

	labels := df.Col(groupCol).Records()
	col := df.Col(indicator)

	var order []string
	values := make(map[string][]float64, 16)
	for i, label := range labels {
		if _, ok := values[label]; !ok {
			order = append(order, label)
			values[label] = nil
		}
		v := utils.FloatAt(col, i)
		if !math.IsNaN(v) {
			values[label] = append(values[label], v)
		}
	}

	out := make([]GroupMean, 0, len(order))
	for _, label := range order {
		out = append(out, GroupMean{
			Group: label,
			Mean:  meanOrNaN(values[label]),
			Count: len(values[label]),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Mean, out[j].Mean
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
	return out, nil
}

// SummaryByRegion builds the combined region_comparisons table: one row per
// region with the mean of every given indicator. Row order follows the
// region's first appearance in the dataset.
func SummaryByRegion(df dataframe.DataFrame, indicators []string) ([]RegionSummary, error) {
	if !utils.HasColumn(df, ColRegion) {
		return nil, fmt.Errorf("aggregate: column %q missing: %w", ColRegion, ErrDataUnavailable)
	}

	labels := df.Col(ColRegion).Records()
	var order []string
	sizes := make(map[string]int, 16)
	for _, label := range labels {
		if _, ok := sizes[label]; !ok {
			order = append(order, label)
		}
		sizes[label]++
	}

	means := make(map[string]map[string]float64, len(order))
	for _, label := range order {
		means[label] = make(map[string]float64, len(indicators))
	}
	for _, indicator := range indicators {
		if !utils.HasColumn(df, indicator) {
			return nil, fmt.Errorf("aggregate: column %q missing: %w", indicator, ErrDataUnavailable)
		}
		col := df.Col(indicator)
		grouped := make(map[string][]float64, len(order))
		for i, label := range labels {
			v := utils.FloatAt(col, i)
			if !math.IsNaN(v) {
				grouped[label] = append(grouped[label], v)
			}
		}
		for _, label := range order {
			means[label][indicator] = meanOrNaN(grouped[label])
		}
	}

	out := make([]RegionSummary, 0, len(order))
	for _, label := range order {
		out = append(out, RegionSummary{Region: label, Size: sizes[label], Means: means[label]})
	}
	return out, nil
}

// Describe computes the whole-dataset (ungrouped) summary row per indicator.
// An empty dataset is the one insufficiency treated as an error; an all-null
// indicator column just yields NaN statistics.
func Describe(df dataframe.DataFrame, indicators []string) ([]DescriptiveStats, error) {
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("describe: no observations: %w", ErrInsufficientData)
	}

	out := make([]DescriptiveStats, 0, len(indicators))
	for _, indicator := range indicators {
		if !utils.HasColumn(df, indicator) {
			return nil, fmt.Errorf("describe: column %q missing: %w", indicator, ErrDataUnavailable)
		}
		vals := utils.NonNull(df.Col(indicator))
		d := DescriptiveStats{
			Indicator: indicator,
			Count:     len(vals),
			Mean:      math.NaN(),
			Std:       math.NaN(),
			Min:       math.NaN(),
			Median:    math.NaN(),
			Max:       math.NaN(),
		}
		if len(vals) > 0 {
			data := stats.Float64Data(vals)
			d.Mean, _ = data.Mean()
			d.Min, _ = data.Min()
			d.Max, _ = data.Max()
			d.Median, _ = data.Median()
			if len(vals) > 1 {
				d.Std, _ = stats.StandardDeviationSample(data)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func meanOrNaN(vals []float64) float64 {
	m, err := stats.Mean(stats.Float64Data(vals))
	if err != nil {
		return math.NaN()
	}
	return m
}
