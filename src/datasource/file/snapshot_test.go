package file

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"IndicatorInsight/src/utils"
)

func TestSnapshotRoundTrip(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Japan", "Kenya"}, series.String, "country"),
		series.New([]string{"East Asia & Pacific", "Sub-Saharan Africa"}, series.String, "region"),
		series.New([]float64{33834.4, math.NaN()}, series.Float, "gdp_per_capita"),
	)

	path := filepath.Join(t.TempDir(), "snapshots", "indicators_2023.xlsx")
	if err := SaveSnapshot(df, path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, err := ReadSnapshot(path, []string{"gdp_per_capita"})
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	if got.Nrow() != 2 {
		t.Fatalf("expected 2 rows, got %d", got.Nrow())
	}
	if c := got.Col("country").Records()[1]; c != "Kenya" {
		t.Errorf("country[1] = %q", c)
	}
	gdp := got.Col("gdp_per_capita")
	if v := utils.FloatAt(gdp, 0); v != 33834.4 {
		t.Errorf("gdp[0] = %v", v)
	}
	if v := utils.FloatAt(gdp, 1); !math.IsNaN(v) {
		t.Errorf("NA cell should read back as NaN, got %v", v)
	}
}

func TestReadSnapshotMissingFile(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.xlsx"), nil); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}
