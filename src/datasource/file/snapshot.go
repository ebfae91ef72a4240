// snapshot.go
package file

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"

	"IndicatorInsight/src/utils"
)

// SaveSnapshot writes the raw indicator table to an xlsx file so a run can
// be replayed without hitting the provider again.
func SaveSnapshot(df dataframe.DataFrame, filePath string) error {
	if err := ensureDir(filePath); err != nil {
		return err
	}
	return utils.SaveToExcel(df, filePath)
}

// ReadSnapshot loads a saved snapshot back into a DataFrame. Columns named
// in floatCols are parsed as floats, with "NA" and empty cells turning into
// NaN; everything else stays a string column.
func ReadSnapshot(filePath string, floatCols []string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("snapshot %s has no sheets", filePath)
	}
	return convertSheetToDataFrame(xlFile.Sheets[0], floatCols)
}

// convertSheetToDataFrame turns the sheet into a DataFrame. The first row is
// the header.
func convertSheetToDataFrame(sheet *xlsx.Sheet, floatCols []string) (dataframe.DataFrame, error) {
	if len(sheet.Rows) < 1 {
		return dataframe.DataFrame{}, fmt.Errorf("snapshot sheet is empty")
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}
	if len(headers) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("snapshot sheet has no header row")
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}
	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			value := ""
			if i < len(row.Cells) {
				value = row.Cells[i].Value
			}
			columns[i] = append(columns[i], value)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		if utils.Contains(floatCols, colName) {
			seriesList[i] = series.New(parseFloats(columns[i]), series.Float, colName)
			continue
		}
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	return dataframe.New(seriesList...), nil
}

func parseFloats(raw []string) []float64 {
	vals := make([]float64, len(raw))
	for i, s := range raw {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = f
	}
	return vals
}

// ensureDir creates the parent directory of filePath when missing.
func ensureDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "" || dir == "." {
		return nil
	}
	if info, err := os.Stat(dir); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dir)
	}
	return os.MkdirAll(dir, 0755)
}
