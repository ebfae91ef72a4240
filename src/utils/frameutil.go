package utils

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// HasColumn reports whether the DataFrame carries a column with this name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// FloatAt reads one cell as float64. Missing or unparseable cells come back
// as NaN, which is how the pipeline marks a null observation.
func FloatAt(col series.Series, row int) float64 {
	el := col.Elem(row)
	if el.IsNA() || el.String() == "" {
		return math.NaN()
	}
	return el.Float()
}

// NonNull collects the non-null values of a column, preserving row order.
func NonNull(col series.Series) []float64 {
	vals := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		v := FloatAt(col, i)
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

// SaveToExcel writes a DataFrame to a single-sheet xlsx file. NaN cells are
// written as the string "NA" so the sheet survives a round trip.
func SaveToExcel(df dataframe.DataFrame, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"

	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range colNames {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			el := df.Col(colName).Elem(rowIdx)
			if el.IsNA() {
				f.SetCellValue(sheetName, cell, "NA")
				continue
			}
			f.SetCellValue(sheetName, cell, el.Val())
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save xlsx file: %w", err)
	}
	return nil
}
