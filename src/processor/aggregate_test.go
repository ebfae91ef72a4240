package processor

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func frame(regions []string, indicator string, vals []float64) dataframe.DataFrame {
	return dataframe.New(
		series.New(regions, series.String, ColRegion),
		series.New(vals, series.Float, indicator),
	)
}

func TestMeanByRegionExcludesNulls(t *testing.T) {
	df := frame(
		[]string{"East Asia & Pacific", "East Asia & Pacific", "East Asia & Pacific"},
		"gdp_per_capita",
		[]float64{10, math.NaN(), 20},
	)

	got, err := MeanByRegion(df, "gdp_per_capita")
	if err != nil {
		t.Fatalf("MeanByRegion: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	if got[0].Mean != 15 {
		t.Errorf("mean = %v, want 15 (nulls excluded, not zeroed)", got[0].Mean)
	}
	if got[0].Count != 2 {
		t.Errorf("count = %d, want 2", got[0].Count)
	}
}

func TestMeanByRegionAllNullGroupKept(t *testing.T) {
	df := frame(
		[]string{"Europe & Central Asia", "South Asia", "South Asia"},
		"inflation",
		[]float64{4.5, math.NaN(), math.NaN()},
	)

	got, err := MeanByRegion(df, "inflation")
	if err != nil {
		t.Fatalf("MeanByRegion: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("all-null group was dropped, got %d groups", len(got))
	}
	// NaN means sort last
	if got[0].Group != "Europe & Central Asia" {
		t.Errorf("defined mean should sort first, got %q", got[0].Group)
	}
	if got[1].Group != "South Asia" || !math.IsNaN(got[1].Mean) {
		t.Errorf("all-null group = %+v, want South Asia with NaN mean", got[1])
	}
}

func TestMeanByRegionDescendingStable(t *testing.T) {
	df := frame(
		[]string{"A", "B", "C"},
		"life_expectancy",
		[]float64{5, 9, 9},
	)

	got, err := MeanByRegion(df, "life_expectancy")
	if err != nil {
		t.Fatalf("MeanByRegion: %v", err)
	}
	// descending, ties keep encounter order: B before C, A last
	if got[0].Group != "B" || got[1].Group != "C" || got[2].Group != "A" {
		t.Errorf("order = [%s %s %s], want [B C A]", got[0].Group, got[1].Group, got[2].Group)
	}
}

func TestMeanByGroupIncome(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"High income", "Low income", "High income"}, series.String, ColIncome),
		series.New([]float64{80, 60, 84}, series.Float, "life_expectancy"),
	)

	got, err := MeanByGroup(df, ColIncome, "life_expectancy")
	if err != nil {
		t.Fatalf("MeanByGroup: %v", err)
	}
	if len(got) != 2 || got[0].Group != "High income" || got[0].Mean != 82 {
		t.Errorf("income breakdown = %+v", got)
	}
}

func TestMeanByGroupMissingColumn(t *testing.T) {
	df := frame([]string{"A"}, "gdp_per_capita", []float64{1})
	if _, err := MeanByGroup(df, ColRegion, "school_years"); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestSummaryByRegion(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"A", "A", "B"}, series.String, ColRegion),
		series.New([]float64{1, 3, 5}, series.Float, "gdp_per_capita"),
		series.New([]float64{math.NaN(), math.NaN(), 7}, series.Float, "inflation"),
	)

	got, err := SummaryByRegion(df, []string{"gdp_per_capita", "inflation"})
	if err != nil {
		t.Fatalf("SummaryByRegion: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(got))
	}
	a := got[0]
	if a.Region != "A" || a.Size != 2 || a.Means["gdp_per_capita"] != 2 {
		t.Errorf("region A summary = %+v", a)
	}
	if !math.IsNaN(a.Means["inflation"]) {
		t.Errorf("all-null cell should be NaN, got %v", a.Means["inflation"])
	}
	if got[1].Means["inflation"] != 7 {
		t.Errorf("region B inflation = %v, want 7", got[1].Means["inflation"])
	}
}

func TestDescribe(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"A", "B", "C"}, series.String, ColRegion),
		series.New([]float64{10, 20, math.NaN()}, series.Float, "school_years"),
	)

	got, err := Describe(df, []string{"school_years"})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	d := got[0]
	if d.Count != 2 || d.Mean != 15 || d.Min != 10 || d.Max != 20 {
		t.Errorf("descriptive stats = %+v", d)
	}
}

func TestDescribeEmptyDataset(t *testing.T) {
	df := dataframe.New(
		series.New([]string{}, series.String, ColRegion),
		series.New([]float64{}, series.Float, "school_years"),
	)
	if _, err := Describe(df, []string{"school_years"}); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
