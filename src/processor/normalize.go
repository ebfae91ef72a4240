package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"IndicatorInsight/src/utils"
)

// Identifying columns every Observation carries besides the indicators.
const (
	ColCountry = "country"
	ColISO3    = "iso3"
	ColYear    = "year"
	ColRegion  = "region"
	ColIncome  = "income"
)

// AggregateRegion is the sentinel the data source attaches to supranational
// rollups such as "World". Rows carrying it are not countries.
const AggregateRegion = "Aggregates"

// IDColumns returns the identifying columns in their fixed output order.
func IDColumns() []string {
	return []string{ColCountry, ColISO3, ColYear, ColRegion, ColIncome}
}

// Normalize renames the raw indicator columns to their semantic names,
// selects the identifying columns plus the renamed indicators, and drops
// every aggregate-region row. rename maps source column name to semantic
// name; order fixes the indicator column order of the output.
func Normalize(raw dataframe.DataFrame, rename map[string]string, order []string) (dataframe.DataFrame, error) {
	if raw.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("normalize: source table is empty: %w", ErrDataUnavailable)
	}

	df := raw
	for src, dst := range rename {
		if !utils.HasColumn(df, src) {
			return dataframe.DataFrame{}, fmt.Errorf("normalize: source column %q missing: %w", src, ErrDataUnavailable)
		}
		df = df.Rename(dst, src)
	}

	keep := append(IDColumns(), order...)
	for _, name := range keep {
		if !utils.HasColumn(df, name) {
			return dataframe.DataFrame{}, fmt.Errorf("normalize: column %q missing: %w", name, ErrDataUnavailable)
		}
	}
	df = df.Select(keep)

	df = df.Filter(
		dataframe.F{Colname: ColRegion, Comparator: series.Neq, Comparando: AggregateRegion},
	)
	return df, nil
}
