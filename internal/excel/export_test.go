package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/formatos-dev/formatos/internal/catalog"
	"github.com/formatos-dev/formatos/internal/model"
)

func sheetRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

// colIndex maps the exported header row to column positions.
func colIndex(t *testing.T, header []string) map[string]int {
	t.Helper()
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func exportFormat(t *testing.T) model.Format {
	t.Helper()
	return model.Format{
		ID:   "f1",
		Name: "Estado de Resultados",
		Structure: []model.Node{
			{
				ID: "g1", Kind: model.KindGroup, Name: "Revenue",
				CostCenters: []string{"CC1", "CC9"},
				Children: []model.Node{
					{
						ID: "a1", Kind: model.KindAccount, Name: "Sales",
						InvertValue: true,
						Account: &model.Account{
							ID: "acct1", Code: "4000", Name: "Sales", Nature: model.NatureIncome,
						},
					},
				},
			},
			{ID: "m1", Kind: model.KindMeasure, Name: "Net Margin"},
		},
	}
}

func TestExportEmptyTree(t *testing.T) {
	e := &Exporter{}
	data, err := e.Export(model.Format{ID: "f1", Name: "Empty"})
	require.NoError(t, err)

	rows := sheetRows(t, data)
	require.Len(t, rows, 1, "empty tree should export only the header row")
	assert.Equal(t, []string{
		ColReportName, LevelColumn(1),
		ColCostCenterCodes, ColCostCenterNames, ColInvertValue, ColGlobalOrder,
		ColAccountNumber, ColAccountName, ColAccountType, ColFullDescription,
		ColNodeKind, ColIsReportLine,
	}, rows[0])
}

func TestExportLevelColumnsFollowDepth(t *testing.T) {
	format := model.Format{
		Name: "Deep",
		Structure: []model.Node{{
			ID: "g1", Kind: model.KindGroup, Name: "A",
			Children: []model.Node{{
				ID: "g2", Kind: model.KindGroup, Name: "B",
				Children: []model.Node{{ID: "g3", Kind: model.KindGroup, Name: "C"}},
			}},
		}},
	}

	data, err := (&Exporter{}).Export(format)
	require.NoError(t, err)

	rows := sheetRows(t, data)
	idx := colIndex(t, rows[0])
	for k := 1; k <= 3; k++ {
		assert.Contains(t, idx, LevelColumn(k))
	}
	assert.NotContains(t, idx, LevelColumn(4))
}

func TestExportRows(t *testing.T) {
	ccs := catalog.NewCostCenters([]model.CostCenter{
		{ID: "cc1", ExternalCode: "CC1", Name: "Operations"},
	})
	data, err := (&Exporter{CostCenters: ccs}).Export(exportFormat(t))
	require.NoError(t, err)

	rows := sheetRows(t, data)
	require.Len(t, rows, 4, "header plus one row per node")
	idx := colIndex(t, rows[0])

	group, account, measure := rows[1], rows[2], rows[3]

	for _, row := range rows[1:] {
		assert.Equal(t, "Estado de Resultados", row[idx[ColReportName]])
	}

	// Group: own level only, deeper columns stay blank.
	assert.Equal(t, "Revenue", cellAt(group, idx[LevelColumn(1)]))
	assert.Empty(t, cellAt(group, idx[LevelColumn(2)]))
	assert.Equal(t, string(model.KindGroup), cellAt(group, idx[ColNodeKind]))
	assert.Equal(t, "FALSE", cellAt(group, idx[ColIsReportLine]))
	assert.Empty(t, cellAt(group, idx[ColGlobalOrder]), "groups carry no global order")
	assert.Equal(t, "CC1, CC9", cellAt(group, idx[ColCostCenterCodes]))
	assert.Equal(t, "Operations", cellAt(group, idx[ColCostCenterNames]),
		"only catalog-resolved codes contribute names")

	// Account: ancestor name first, own name in its depth's column.
	assert.Equal(t, "Revenue", cellAt(account, idx[LevelColumn(1)]))
	assert.Equal(t, "Sales", cellAt(account, idx[LevelColumn(2)]))
	assert.Equal(t, "4000", cellAt(account, idx[ColAccountNumber]))
	assert.Equal(t, "Sales", cellAt(account, idx[ColAccountName]))
	assert.Equal(t, "income", cellAt(account, idx[ColAccountType]))
	assert.Equal(t, "4000 Sales", cellAt(account, idx[ColFullDescription]))
	assert.Equal(t, "TRUE", cellAt(account, idx[ColInvertValue]))
	assert.Equal(t, "TRUE", cellAt(account, idx[ColIsReportLine]))

	// Measure at root: name propagated across every level column and
	// repeated through the account columns.
	assert.Equal(t, "Net Margin", cellAt(measure, idx[LevelColumn(1)]))
	assert.Equal(t, "Net Margin", cellAt(measure, idx[LevelColumn(2)]))
	for _, col := range []string{ColAccountNumber, ColAccountName, ColAccountType, ColFullDescription} {
		assert.Equal(t, "Net Margin", cellAt(measure, idx[col]))
	}
	assert.Equal(t, "FALSE", cellAt(measure, idx[ColInvertValue]))
}

func TestExportGlobalOrder(t *testing.T) {
	data, err := (&Exporter{}).Export(exportFormat(t))
	require.NoError(t, err)

	rows := sheetRows(t, data)
	idx := colIndex(t, rows[0])

	// Report lines are numbered in emission order; the group is skipped.
	assert.Empty(t, cellAt(rows[1], idx[ColGlobalOrder]))
	assert.Equal(t, "1.00", cellAt(rows[2], idx[ColGlobalOrder]))
	assert.Equal(t, "2.00", cellAt(rows[3], idx[ColGlobalOrder]))
}

func TestExportIdempotent(t *testing.T) {
	format := exportFormat(t)
	e := &Exporter{}

	first, err := e.Export(format)
	require.NoError(t, err)
	second, err := e.Export(format)
	require.NoError(t, err)

	assert.Equal(t, sheetRows(t, first), sheetRows(t, second),
		"exporting the same format twice must yield identical cell data")
}

func TestExportUnknownCostCenterKeepsCode(t *testing.T) {
	ccs := catalog.NewCostCenters(nil)
	format := model.Format{
		Name: "F",
		Structure: []model.Node{
			{ID: "g1", Kind: model.KindGroup, Name: "G", CostCenters: []string{"CC404"}},
		},
	}

	data, err := (&Exporter{CostCenters: ccs}).Export(format)
	require.NoError(t, err)

	rows := sheetRows(t, data)
	idx := colIndex(t, rows[0])
	assert.Equal(t, "CC404", cellAt(rows[1], idx[ColCostCenterCodes]))
	assert.Empty(t, cellAt(rows[1], idx[ColCostCenterNames]))
}
