// Package export renders saved builds and comparisons as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
)

const (
	buildsSheet     = "Builds"
	componentsSheet = "Components"
	compareSheet    = "Comparison"
)

// ComparisonLine one aligned row of a comparison
type ComparisonLine struct {
	Label     string
	Current   string
	Other     string
	Different bool
}

// ComparisonTable flattened comparison, prices in USD
type ComparisonTable struct {
	CurrentName  string
	OtherName    string
	Lines        []ComparisonLine
	CurrentTotal float64
	OtherTotal   float64
}

// BuildsWorkbook one summary row per build plus a sheet with every component selection.
func BuildsWorkbook(builds []*entity.CustomConfiguration) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), buildsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(componentsSheet); err != nil {
		return nil, err
	}

	if err := writeRow(f, buildsSheet, 1, buildHeaders()); err != nil {
		return nil, err
	}
	if err := writeRow(f, componentsSheet, 1, componentHeaders()); err != nil {
		return nil, err
	}

	compRow := 2
	for i, b := range builds {
		if err := writeRow(f, buildsSheet, i+2, buildRowValues(b)); err != nil {
			return nil, err
		}
		for _, c := range b.Customizations {
			values := []interface{}{b.DeviceName, c.Component, c.Selection, c.Price, c.Reason}
			if err := writeRow(f, componentsSheet, compRow, values); err != nil {
				return nil, err
			}
			compRow++
		}
	}

	return writeBytes(f)
}

// ComparisonWorkbook side-by-side sheet; differing rows are highlighted.
func ComparisonWorkbook(table ComparisonTable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), compareSheet); err != nil {
		return nil, err
	}
	highlight, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF2CC"}},
	})
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, compareSheet, 1, []interface{}{"Component", table.CurrentName, table.OtherName}); err != nil {
		return nil, err
	}
	row := 2
	for _, line := range table.Lines {
		if err := writeRow(f, compareSheet, row, []interface{}{line.Label, line.Current, line.Other}); err != nil {
			return nil, err
		}
		if line.Different {
			if err := f.SetCellStyle(compareSheet, cellName(1, row), cellName(3, row), highlight); err != nil {
				return nil, err
			}
		}
		row++
	}

	totals := []interface{}{"Total (USD)", table.CurrentTotal, table.OtherTotal}
	if err := writeRow(f, compareSheet, row, totals); err != nil {
		return nil, err
	}
	diff := []interface{}{"Difference (USD)", table.CurrentTotal - table.OtherTotal, ""}
	if err := writeRow(f, compareSheet, row+1, diff); err != nil {
		return nil, err
	}

	return writeBytes(f)
}

func buildHeaders() []interface{} {
	return []interface{}{"Device Name", "Device Type", "Base Price (USD)", "Total Price (USD)", "Components", "Description", "ID"}
}

func componentHeaders() []interface{} {
	return []interface{}{"Device Name", "Component", "Selection", "Price (USD)", "Reason"}
}

func buildRowValues(b *entity.CustomConfiguration) []interface{} {
	return []interface{}{
		b.DeviceName,
		string(b.ResolveDeviceType()),
		b.BasePrice,
		b.Total(),
		len(b.Customizations),
		b.Description,
		b.ID,
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		if err := f.SetCellValue(sheet, cellName(col+1, row), v); err != nil {
			return fmt.Errorf("%s!%s: %w", sheet, cellName(col+1, row), err)
		}
	}
	return nil
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// col/row are always >= 1 here
		panic(err)
	}
	return name
}

func writeBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
