package excel

import "fmt"

// SheetName is the worksheet the exporter writes and the name the importer
// reports in errors. The importer always reads the first sheet, whatever it
// is called.
const SheetName = "ReportFormat"

// Column headers shared by the exporter and importer. Matching is exact
// (after trimming), so these are the canonical spellings.
const (
	ColReportName      = "Report Name"
	ColCostCenterCodes = "Selected Cost Centers"
	ColCostCenterNames = "Selected Cost Center Names"
	ColInvertValue     = "Invert Value"
	ColGlobalOrder     = "Global Order"
	ColAccountNumber   = "Account Number"
	ColAccountName     = "Account Name"
	ColAccountType     = "Account Type"
	ColFullDescription = "Full Description"
	ColNodeKind        = "Node Kind"
	ColIsReportLine    = "Is Report Line"
)

// LevelColumn returns the header for the 1-based level column k.
func LevelColumn(k int) string {
	return fmt.Sprintf("Level %d", k)
}

// requiredColumns is the header set the importer insists on. Node Kind is
// handled separately: required unless legacy kind inference is enabled.
var requiredColumns = []string{
	LevelColumn(1),
	ColAccountNumber,
	ColAccountName,
	ColAccountType,
	ColInvertValue,
	ColCostCenterCodes,
	ColCostCenterNames,
	ColIsReportLine,
}
