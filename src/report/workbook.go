package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"IndicatorInsight/src/processor"
)

// Ranking is one indicator's sorted per-group mean table.
type Ranking struct {
	Indicator string
	Label     string
	GroupCol  string // region or income
	Rows      []processor.GroupMean
}

// Report bundles every output of one analysis run for rendering.
type Report struct {
	Year       int
	Countries  int
	Indicators []string // semantic names, fixed order
	Labels     map[string]string

	Overview []processor.DescriptiveStats
	Regions  []processor.RegionSummary
	Rankings []Ranking // per-indicator, grouped by region
	ByIncome []Ranking // per-indicator, grouped by income
	Corr     *processor.CorrelationMatrix
}

func (r *Report) label(name string) string {
	if l, ok := r.Labels[name]; ok {
		return l
	}
	return name
}

// WriteWorkbook renders all summary tables into one xlsx file: an Overview
// sheet, the combined RegionComparisons sheet, one ranking sheet per
// indicator and grouping, and the correlation matrix.
func (r *Report) WriteWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Overview")
	if err := r.writeOverview(f, "Overview"); err != nil {
		return err
	}
	if err := r.writeRegionComparisons(f, "RegionComparisons"); err != nil {
		return err
	}
	for _, rk := range append(r.Rankings, r.ByIncome...) {
		sheet := sheetName(rk.GroupCol, rk.Indicator)
		if err := r.writeRanking(f, sheet, rk); err != nil {
			return err
		}
	}
	if r.Corr != nil {
		if err := r.writeCorrelations(f, "Correlations"); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (r *Report) writeOverview(f *excelize.File, sheet string) error {
	setCell(f, sheet, 1, 1, "Indicator")
	for i, h := range []string{"Count", "Mean", "Std", "Min", "Median", "Max"} {
		setCell(f, sheet, i+2, 1, h)
	}
	for row, d := range r.Overview {
		setCell(f, sheet, 1, row+2, r.label(d.Indicator))
		setCell(f, sheet, 2, row+2, d.Count)
		setNumCell(f, sheet, 3, row+2, d.Mean)
		setNumCell(f, sheet, 4, row+2, d.Std)
		setNumCell(f, sheet, 5, row+2, d.Min)
		setNumCell(f, sheet, 6, row+2, d.Median)
		setNumCell(f, sheet, 7, row+2, d.Max)
	}
	return nil
}

func (r *Report) writeRegionComparisons(f *excelize.File, sheet string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	setCell(f, sheet, 1, 1, "Region")
	setCell(f, sheet, 2, 1, "Countries")
	for i, indicator := range r.Indicators {
		setCell(f, sheet, i+3, 1, r.label(indicator))
	}
	for row, rs := range r.Regions {
		setCell(f, sheet, 1, row+2, rs.Region)
		setCell(f, sheet, 2, row+2, rs.Size)
		for i, indicator := range r.Indicators {
			setNumCell(f, sheet, i+3, row+2, rs.Means[indicator])
		}
	}
	return nil
}

func (r *Report) writeRanking(f *excelize.File, sheet string, rk Ranking) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	setCell(f, sheet, 1, 1, "Rank")
	setCell(f, sheet, 2, 1, rk.GroupCol)
	setCell(f, sheet, 3, 1, rk.Label)
	setCell(f, sheet, 4, 1, "Countries")
	for i, gm := range rk.Rows {
		setCell(f, sheet, 1, i+2, i+1)
		setCell(f, sheet, 2, i+2, gm.Group)
		setNumCell(f, sheet, 3, i+2, gm.Mean)
		setCell(f, sheet, 4, i+2, gm.Count)
	}
	return nil
}

func (r *Report) writeCorrelations(f *excelize.File, sheet string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	for i, name := range r.Corr.Indicators {
		setCell(f, sheet, i+2, 1, name)
		setCell(f, sheet, 1, i+2, name)
	}
	for i := range r.Corr.Indicators {
		for j := range r.Corr.Indicators {
			setNumCell(f, sheet, j+2, i+2, r.Corr.Values[i][j])
		}
	}
	return nil
}

// sheetName builds a sheet title within Excel's 31-character limit.
func sheetName(groupCol, indicator string) string {
	name := fmt.Sprintf("%s by %s", indicator, groupCol)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func setCell(f *excelize.File, sheet string, col, row int, value any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	f.SetCellValue(sheet, cell, value)
}

// setNumCell writes a float cell, spelling undefined values as "NA".
func setNumCell(f *excelize.File, sheet string, col, row int, value float64) {
	if math.IsNaN(value) {
		setCell(f, sheet, col, row, "NA")
		return
	}
	setCell(f, sheet, col, row, value)
}
