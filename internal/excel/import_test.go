package excel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/formatos-dev/formatos/internal/catalog"
	"github.com/formatos-dev/formatos/internal/model"
)

// buildSheet assembles a minimal workbook for importer tests.
func buildSheet(t *testing.T, headers []string, rows [][]any) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &head))
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &rows[i]))
	}

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// legacyHeaders is the column set of files that predate the Node Kind column.
func legacyHeaders(levels int) []string {
	headers := []string{ColReportName}
	for k := 1; k <= levels; k++ {
		headers = append(headers, LevelColumn(k))
	}
	return append(headers,
		ColCostCenterCodes, ColCostCenterNames, ColInvertValue, ColGlobalOrder,
		ColAccountNumber, ColAccountName, ColAccountType, ColIsReportLine,
	)
}

func fullHeaders(levels int) []string {
	return append(legacyHeaders(levels), ColNodeKind)
}

// legacyRow positions values against legacyHeaders(levels).
func legacyRow(levels int, levelVals []string, ccCodes, acctNumber, acctName, acctType string, isReportLine bool) []any {
	row := []any{"Report"}
	for k := 0; k < levels; k++ {
		if k < len(levelVals) {
			row = append(row, levelVals[k])
		} else {
			row = append(row, "")
		}
	}
	return append(row, ccCodes, "", "", "", acctNumber, acctName, acctType, isReportLine)
}

func fullRow(levels int, levelVals []string, ccCodes, acctNumber, acctName, acctType string, isReportLine bool, kind string) []any {
	return append(legacyRow(levels, levelVals, ccCodes, acctNumber, acctName, acctType, isReportLine), kind)
}

func TestImportMissingRequiredColumn(t *testing.T) {
	headers := fullHeaders(1)
	var trimmed []string
	for _, h := range headers {
		if h != ColAccountName {
			trimmed = append(trimmed, h)
		}
	}
	data := buildSheet(t, trimmed, nil)

	_, err := (&Importer{}).Import(data)
	var missing MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ColAccountName, missing.Column)
}

func TestImportRequiresNodeKindColumn(t *testing.T) {
	data := buildSheet(t, legacyHeaders(1), nil)

	_, err := (&Importer{}).Import(data)
	var missing MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ColNodeKind, missing.Column)

	_, err = (&Importer{LegacyKindInference: true}).Import(data)
	assert.NoError(t, err, "legacy mode accepts files without the kind column")
}

func TestImportRejectsInvalidNodeKind(t *testing.T) {
	data := buildSheet(t, fullHeaders(1), [][]any{
		fullRow(1, []string{"Revenue"}, "", "", "", "", false, "banana"),
	})

	_, err := (&Importer{}).Import(data)
	var invalid InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, invalid.Row)
	assert.Equal(t, ColNodeKind, invalid.Column)
}

func TestImportGroupedAccountRow(t *testing.T) {
	// A single row naming a parent group in Level 1 plus a full account
	// block yields both nodes: the group and the account beneath it.
	data := buildSheet(t, legacyHeaders(1), [][]any{
		legacyRow(1, []string{"Revenue"}, "", "4000", "Sales", "income", true),
	})

	format, err := (&Importer{LegacyKindInference: true}).Import(data)
	require.NoError(t, err)

	require.Len(t, format.Structure, 1)
	group := format.Structure[0]
	assert.Equal(t, model.KindGroup, group.Kind)
	assert.Equal(t, "Revenue", group.Name)

	require.Len(t, group.Children, 1)
	account := group.Children[0]
	assert.Equal(t, model.KindAccount, account.Kind)
	assert.Equal(t, "Sales", account.Name)
	require.NotNil(t, account.Account)
	assert.Equal(t, "4000", account.Account.Code)
	assert.Equal(t, model.NatureIncome, account.Account.Nature)
}

func TestImportSiblingAccountsShareSynthesizedGroup(t *testing.T) {
	data := buildSheet(t, legacyHeaders(1), [][]any{
		legacyRow(1, []string{"Revenue"}, "", "4000", "Sales", "income", true),
		legacyRow(1, []string{"Revenue"}, "", "4010", "Services", "income", true),
		legacyRow(1, []string{"Expenses"}, "", "5000", "Rent", "expense", true),
	})

	format, err := (&Importer{LegacyKindInference: true}).Import(data)
	require.NoError(t, err)

	require.Len(t, format.Structure, 2)
	assert.Equal(t, "Revenue", format.Structure[0].Name)
	require.Len(t, format.Structure[0].Children, 2)
	assert.Equal(t, "Expenses", format.Structure[1].Name)
	require.Len(t, format.Structure[1].Children, 1)
	assert.Equal(t, "Rent", format.Structure[1].Children[0].Name)
}

func TestImportParentStack(t *testing.T) {
	data := buildSheet(t, fullHeaders(3), [][]any{
		fullRow(3, []string{"Income"}, "", "", "", "", false, "group"),
		fullRow(3, []string{"Income", "Ops"}, "", "", "", "", false, "group"),
		fullRow(3, []string{"Income", "Ops", "Sales"}, "", "4000", "Sales", "income", true, "account"),
		fullRow(3, []string{"Other"}, "", "", "", "", false, "group"),
	})

	format, err := (&Importer{}).Import(data)
	require.NoError(t, err)

	require.Len(t, format.Structure, 2)
	income := format.Structure[0]
	require.Len(t, income.Children, 1)
	ops := income.Children[0]
	assert.Equal(t, "Ops", ops.Name)
	require.Len(t, ops.Children, 1)
	assert.Equal(t, "Sales", ops.Children[0].Name)
	assert.Equal(t, model.KindAccount, ops.Children[0].Kind)

	assert.Equal(t, "Other", format.Structure[1].Name)
	assert.Empty(t, format.Structure[1].Children)
}

func TestImportDerivesDefaultCostCenters(t *testing.T) {
	data := buildSheet(t, fullHeaders(1), [][]any{
		fullRow(1, []string{"Revenue"}, "CC1, CC2", "", "", "", false, "group"),
		fullRow(1, []string{"Net"}, "CC2, CC3", "", "", "", true, "measure"),
	})

	format, err := (&Importer{}).Import(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"CC1", "CC2", "CC3"}, format.DefaultCostCenters,
		"default cost centers are the first-seen-order union of node codes")
}

func TestImportReusesCatalogAccount(t *testing.T) {
	accounts := catalog.NewAccounts([]model.Account{
		{ID: "acct-1", Code: "4000", Name: "Sales Revenue", Nature: model.NatureIncome},
	})
	data := buildSheet(t, fullHeaders(1), [][]any{
		fullRow(1, []string{"Sales"}, "", "4000", "Sales", "income", true, "account"),
		fullRow(1, []string{"Misc"}, "", "9999", "Misc", "income", true, "account"),
	})

	format, err := (&Importer{Accounts: accounts}).Import(data)
	require.NoError(t, err)

	require.Len(t, format.Structure, 2)
	known := format.Structure[0]
	require.NotNil(t, known.Account)
	assert.Equal(t, "acct-1", known.Account.ID, "catalog hit keeps the catalog entry")
	assert.Equal(t, "Sales Revenue", known.Account.Name)

	fabricated := format.Structure[1]
	require.NotNil(t, fabricated.Account)
	assert.Equal(t, "9999", fabricated.Account.Code)
	assert.NotEmpty(t, fabricated.Account.ID, "unknown codes get a standalone snapshot")
	assert.NotEqual(t, "acct-1", fabricated.Account.ID)
}

func TestImportNamesFormatWithTimestamp(t *testing.T) {
	data := buildSheet(t, fullHeaders(1), nil)

	format, err := (&Importer{}).Import(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(format.Name, "Imported_"), "got name %q", format.Name)
	assert.NotEmpty(t, format.ID)
	assert.Empty(t, format.Structure)
}

func TestExportImportRoundTrip(t *testing.T) {
	ccs := catalog.NewCostCenters([]model.CostCenter{
		{ID: "cc1", ExternalCode: "CC1", Name: "Operations"},
	})
	original := model.Format{
		ID:   "f1",
		Name: "Balance",
		Structure: []model.Node{
			{
				ID: "g1", Kind: model.KindGroup, Name: "Revenue",
				CostCenters: []string{"CC1"},
				Children: []model.Node{
					{
						ID: "a1", Kind: model.KindAccount, Name: "Sales",
						InvertValue: true,
						Account:     &model.Account{ID: "x1", Code: "4000", Name: "Sales", Nature: model.NatureIncome},
					},
					{
						ID: "g2", Kind: model.KindGroup, Name: "Other Income",
						Children: []model.Node{
							{
								ID: "a2", Kind: model.KindAccount, Name: "Interest",
								Account: &model.Account{ID: "x2", Code: "4100", Name: "Interest", Nature: model.NatureIncome},
							},
						},
					},
				},
			},
			{ID: "m1", Kind: model.KindMeasure, Name: "Net Margin"},
		},
	}

	data, err := (&Exporter{CostCenters: ccs}).Export(original)
	require.NoError(t, err)
	imported, err := (&Importer{CostCenters: ccs}).Import(data)
	require.NoError(t, err)

	assert.Equal(t, shape(original.Structure), shape(imported.Structure))
	assert.Equal(t, []string{"CC1"}, imported.DefaultCostCenters)

	account := imported.Structure[0].Children[0]
	assert.True(t, account.InvertValue, "invert flag survives the round trip")
	assert.Equal(t, []string{"CC1"}, imported.Structure[0].CostCenters)
}

// shape reduces a tree to kind/name/nesting for round-trip comparison;
// node and snapshot IDs are regenerated on import by design.
type nodeShape struct {
	Kind     model.NodeKind
	Name     string
	Children []nodeShape
}

func shape(nodes []model.Node) []nodeShape {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]nodeShape, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeShape{Kind: n.Kind, Name: n.Name, Children: shape(n.Children)})
	}
	return out
}
