package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"statkit/domain/core"
	"statkit/ports"
)

// DataReader reads grouped numeric data from Excel and CSV files. Each
// column is one group: the header cell is the group label, the cells below
// are its observations. Blank and non-numeric cells are skipped.
type DataReader struct {
	sheetName string
}

// NewDataReader creates a reader using Sheet1 for Excel files
func NewDataReader() *DataReader {
	return &DataReader{sheetName: "Sheet1"}
}

// NewDataReaderWithSheet creates a reader for a specific sheet
func NewDataReaderWithSheet(sheetName string) *DataReader {
	return &DataReader{sheetName: sheetName}
}

var _ ports.DatasetReaderPort = (*DataReader)(nil)

// ReadGroups loads all group columns from the file at path. The file type
// is decided by extension; .csv goes through the CSV path, everything else
// through excelize.
func (r *DataReader) ReadGroups(path string) ([]ports.GroupData, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("data file not found: %s", path)
	}

	var rows [][]string
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		rows, err = r.readCSVRows(path)
	} else {
		rows, err = r.readExcelRows(path)
	}
	if err != nil {
		return nil, err
	}

	return r.columnsFromRows(rows)
}

func (r *DataReader) readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheetName, err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// columnsFromRows transposes the sheet into labeled groups. Columns with a
// blank header get a positional default label; columns with no numeric
// cells are dropped.
func (r *DataReader) columnsFromRows(rows [][]string) ([]ports.GroupData, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("data file must have a header row and at least one data row")
	}

	header := rows[0]
	groups := make([]ports.GroupData, 0, len(header))

	for col := range header {
		label := core.GroupLabel(strings.TrimSpace(header[col]))
		if label == "" {
			label = core.DefaultGroupLabel(col)
		}

		values := make([]float64, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}

		if len(values) > 0 {
			groups = append(groups, ports.GroupData{Label: label, Values: values})
		}
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("no numeric columns found in data file")
	}
	return groups, nil
}
