// ABOUTME: XLSX rendering of the band appendix and metric catalog.
// ABOUTME: One styled sheet per table kind, header row frozen.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the workbook.
const (
	BandsSheet   = "Bands"
	MetricsSheet = "Metrics"
)

var (
	bandHeaders   = []string{"Scope", "Table", "Keys", "Interval", "Tier", "Label", "Color"}
	bandWidths    = []float64{18, 22, 40, 18, 12, 26, 10}
	metricHeaders = []string{"Key", "Name", "Unit", "Range", "Icon", "Group"}
	metricWidths  = []float64{30, 38, 10, 26, 22, 18}
)

// XLSX renders the bands and the metric catalog as a workbook.
func XLSX(d *Data) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close runs after it.
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	bandRows := make([][]any, 0, len(d.Bands))
	for _, r := range d.Bands {
		bandRows = append(bandRows, []any{r.Scope, r.Table, joinKeys(r.Keys), r.Interval, string(r.Tier), r.Label, r.Color})
	}
	metricRows := make([][]any, 0, len(d.Metrics))
	for _, m := range d.Metrics {
		metricRows = append(metricRows, []any{string(m.Key), m.Name, m.Unit, m.Range, m.Icon, string(m.Group)})
	}

	index, err := writeSheet(f, BandsSheet, headerStyle, bandHeaders, bandWidths, bandRows)
	if err != nil {
		return nil, err
	}
	if _, err := writeSheet(f, MetricsSheet, headerStyle, metricHeaders, metricWidths, metricRows); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, style int, headers []string, widths []float64, rows [][]any) (int, error) {
	index, err := f.NewSheet(name)
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return 0, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(name, cell, header); err != nil {
			return 0, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(name, cell, cell, style); err != nil {
			return 0, fmt.Errorf("failed to set header style: %w", err)
		}

		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return 0, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(name, colName, colName, widths[col]); err != nil {
			return 0, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return 0, fmt.Errorf("failed to freeze panes: %w", err)
	}
	return index, nil
}
