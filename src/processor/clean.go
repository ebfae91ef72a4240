package processor

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Dedup drops exact-duplicate rows, keeping the first occurrence and the
// original row order. Null filtering is deliberately not done here: each
// consumer excludes nulls against its own required columns, so a row that is
// incomplete for one analysis can still feed another.
func Dedup(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Nrow() == 0 {
		return df
	}

	records := df.Records()[1:] // skip header row
	seen := make(map[string]bool, len(records))
	keep := make([]int, 0, len(records))
	for i, rec := range records {
		key := strings.Join(rec, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		keep = append(keep, i)
	}

	if len(keep) == len(records) {
		return df
	}
	return df.Subset(keep)
}
