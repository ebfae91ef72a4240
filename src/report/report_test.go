package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"IndicatorInsight/src/processor"
)

func sampleReport() *Report {
	return &Report{
		Year:       2023,
		Countries:  3,
		Indicators: []string{"gdp_per_capita", "inflation"},
		Labels:     map[string]string{"gdp_per_capita": "GDP per capita (current US$)"},
		Overview: []processor.DescriptiveStats{
			{Indicator: "gdp_per_capita", Count: 3, Mean: 12261, Std: 18000, Min: 1949, Median: 1000, Max: 33834},
			{Indicator: "inflation", Count: 0, Mean: math.NaN(), Std: math.NaN(), Min: math.NaN(), Median: math.NaN(), Max: math.NaN()},
		},
		Regions: []processor.RegionSummary{
			{Region: "East Asia & Pacific", Size: 2, Means: map[string]float64{"gdp_per_capita": 17417, "inflation": math.NaN()}},
			{Region: "Sub-Saharan Africa", Size: 1, Means: map[string]float64{"gdp_per_capita": 1949, "inflation": math.NaN()}},
		},
		Rankings: []Ranking{
			{
				Indicator: "gdp_per_capita",
				Label:     "GDP per capita (current US$)",
				GroupCol:  "region",
				Rows: []processor.GroupMean{
					{Group: "East Asia & Pacific", Mean: 17417, Count: 2},
					{Group: "Sub-Saharan Africa", Mean: 1949, Count: 1},
				},
			},
		},
		Corr: &processor.CorrelationMatrix{
			Indicators: []string{"gdp_per_capita", "inflation"},
			Values: [][]float64{
				{1, -0.42},
				{-0.42, 1},
			},
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.xlsx")

	if err := sampleReport().WriteWorkbook(path); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("workbook is empty")
	}
}

func TestWriteCharts(t *testing.T) {
	dir := t.TempDir()

	paths, skipped, err := sampleReport().WriteCharts(dir)
	if err != nil {
		t.Fatalf("WriteCharts: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("unexpected skipped indicators: %v", skipped)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 chart, got %d", len(paths))
	}
	if filepath.Base(paths[0]) != "gdp_per_capita_by_region.png" {
		t.Errorf("chart path = %s", paths[0])
	}
	if _, err := os.Stat(paths[0]); err != nil {
		t.Errorf("chart not written: %v", err)
	}
}

// An indicator with no non-null values anywhere has nothing to draw. That is
// an undefined-result condition, not a failure: the chart is skipped and the
// rest of the run proceeds.
func TestWriteChartsSkipsAllUndefinedIndicator(t *testing.T) {
	dir := t.TempDir()
	rep := sampleReport()
	rep.Rankings = append(rep.Rankings, Ranking{
		Indicator: "inflation",
		Label:     "Inflation, consumer prices (annual %)",
		GroupCol:  "region",
		Rows: []processor.GroupMean{
			{Group: "East Asia & Pacific", Mean: math.NaN(), Count: 0},
			{Group: "Sub-Saharan Africa", Mean: math.NaN(), Count: 0},
		},
	})

	paths, skipped, err := rep.WriteCharts(dir)
	if err != nil {
		t.Fatalf("WriteCharts should not fail on an undefined indicator: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 chart, got %d", len(paths))
	}
	if len(skipped) != 1 || skipped[0] != "inflation" {
		t.Errorf("skipped = %v, want [inflation]", skipped)
	}
	if _, err := os.Stat(filepath.Join(dir, "inflation_by_region.png")); !os.IsNotExist(err) {
		t.Errorf("undefined indicator should not produce a chart file")
	}
}

func TestSummary(t *testing.T) {
	s := sampleReport().Summary()

	if !strings.Contains(s, "Indicator analysis for 2023: 3 countries") {
		t.Errorf("summary missing header: %q", s)
	}
	if strings.Contains(s, "2,023") {
		t.Errorf("year must not be digit-grouped: %q", s)
	}
	if !strings.Contains(s, "GDP per capita (current US$)") {
		t.Errorf("summary missing labeled indicator: %q", s)
	}
	if !strings.Contains(s, "inflation: no data") {
		t.Errorf("summary should flag the empty indicator: %q", s)
	}
	if !strings.Contains(s, "r=-0.420") {
		t.Errorf("summary missing strongest correlation: %q", s)
	}
}
