// Package excel maps format trees to and from their flat spreadsheet
// representation.
package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/formatos-dev/formatos/internal/catalog"
	"github.com/formatos-dev/formatos/internal/model"
	"github.com/formatos-dev/formatos/internal/tree"
)

// Exporter flattens a format tree into a leveled XLSX table.
type Exporter struct {
	CostCenters *catalog.CostCenters // resolves node codes to display names
	Logger      *zap.Logger
}

// Export serializes the format to an XLSX file.
//
// Rows are emitted in depth-first pre-order, parents before children. Each
// row carries its ancestor names in the leading Level columns and its own
// name in its depth's column; report lines (account/measure) additionally
// repeat their name into every deeper Level column. Group rows leave deeper
// columns blank, which is what lets the importer recover their depth.
func (e *Exporter) Export(format model.Format) ([]byte, error) {
	levels := tree.MaxDepth(format.Structure) + 1
	headers := headerRow(levels)
	rows := e.dataRows(format, levels)

	wb := excelize.NewFile()
	defer wb.Close()
	if err := wb.SetSheetName(wb.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	if err := wb.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := applyStyles(wb, len(headers), rows); err != nil {
		return nil, err
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func headerRow(levels int) []any {
	headers := make([]any, 0, levels+11)
	headers = append(headers, ColReportName)
	for k := 1; k <= levels; k++ {
		headers = append(headers, LevelColumn(k))
	}
	headers = append(headers,
		ColCostCenterCodes,
		ColCostCenterNames,
		ColInvertValue,
		ColGlobalOrder,
		ColAccountNumber,
		ColAccountName,
		ColAccountType,
		ColFullDescription,
		ColNodeKind,
		ColIsReportLine,
	)
	return headers
}

func (e *Exporter) dataRows(format model.Format, levels int) [][]any {
	var rows [][]any
	globalOrder := 1

	var emit func(nodes []model.Node, level int, prefix []string)
	emit = func(nodes []model.Node, level int, prefix []string) {
		for _, n := range nodes {
			vals := make([]string, levels)
			copy(vals, prefix)
			vals[level] = n.Name
			if n.IsReportLine() {
				for i := level + 1; i < levels; i++ {
					vals[i] = n.Name
				}
			}

			codes, names := e.costCenterCells(n)

			row := make([]any, 0, levels+11)
			row = append(row, format.Name)
			for _, v := range vals {
				row = append(row, v)
			}
			row = append(row, codes, names, n.Kind == model.KindAccount && n.InvertValue)

			if n.IsReportLine() {
				row = append(row, globalOrder)
				globalOrder++
			} else {
				row = append(row, "")
			}

			switch {
			case n.Kind == model.KindAccount && n.Account != nil:
				acct := *n.Account
				row = append(row, acct.Code, acct.Name, string(acct.Nature), acct.FullDescription())
			case n.Kind == model.KindMeasure:
				// Measures repeat their name for downstream uniformity.
				row = append(row, n.Name, n.Name, n.Name, n.Name)
			default:
				row = append(row, "", "", "", "")
			}

			row = append(row, string(n.Kind), n.IsReportLine())
			rows = append(rows, row)

			emit(n.Children, level+1, vals)
		}
	}
	emit(format.Structure, 0, nil)
	return rows
}

// costCenterCells returns the comma-joined code and name cells for a node.
// Codes are emitted as stored; names are only emitted for codes the catalog
// resolves, and unresolved codes are logged rather than failing the export.
func (e *Exporter) costCenterCells(n model.Node) (string, string) {
	if len(n.CostCenters) == 0 {
		return "", ""
	}
	var names []string
	if e.CostCenters != nil {
		resolved, missing := e.CostCenters.Resolve(n.CostCenters)
		for _, c := range resolved {
			names = append(names, c.Name)
		}
		for _, code := range missing {
			e.log().Warn("cost center code not in catalog",
				zap.String("code", code),
				zap.String("node", n.ID))
		}
	}
	return strings.Join(n.CostCenters, ", "), strings.Join(names, ", ")
}

func (e *Exporter) log() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

func applyStyles(wb *excelize.File, numCols int, rows [][]any) error {
	lastCol, err := excelize.ColumnNumberToName(numCols)
	if err != nil {
		return fmt.Errorf("resolving last column: %w", err)
	}

	borders := []excelize.Border{
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
	}

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"000000"}},
		Border: borders,
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	bodyStyle, err := wb.NewStyle(&excelize.Style{Border: borders})
	if err != nil {
		return fmt.Errorf("creating body style: %w", err)
	}
	numFmt := "#,##0.00"
	numStyle, err := wb.NewStyle(&excelize.Style{Border: borders, CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("creating number style: %w", err)
	}

	if err := wb.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if len(rows) > 0 {
		last := fmt.Sprintf("%s%d", lastCol, len(rows)+1)
		if err := wb.SetCellStyle(SheetName, "A2", last, bodyStyle); err != nil {
			return fmt.Errorf("styling rows: %w", err)
		}
	}

	// Numeric-looking cells get a thousands-separated two-decimal format.
	for ri, row := range rows {
		for ci, v := range row {
			if !numericCell(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return fmt.Errorf("resolving cell: %w", err)
			}
			if err := wb.SetCellStyle(SheetName, cell, cell, numStyle); err != nil {
				return fmt.Errorf("styling cell %s: %w", cell, err)
			}
		}
	}

	if err := wb.SetColWidth(SheetName, "A", lastCol, 22); err != nil {
		return fmt.Errorf("setting column widths: %w", err)
	}
	return nil
}

func numericCell(v any) bool {
	switch val := v.(type) {
	case int:
		return true
	case string:
		if val == "" {
			return false
		}
		_, err := strconv.ParseFloat(val, 64)
		return err == nil
	default:
		return false
	}
}
