package excel

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/formatos-dev/formatos/internal/catalog"
	"github.com/formatos-dev/formatos/internal/model"
)

// Catalog imports use a simpler layout than format files: a header row with
// lowercase column names, then one catalog entry per row. Validation is
// fail-fast: the first bad or duplicate row aborts the whole import with a
// row-numbered error.

var netsuiteCodePattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// ImportAccounts parses an account-catalog workbook (code/name/type columns)
// and returns the new entries. Rows duplicating each other or the existing
// catalog are rejected.
func ImportAccounts(data []byte, existing *catalog.Accounts) ([]model.Account, error) {
	rows, err := catalogRows(data)
	if err != nil {
		return nil, err
	}

	head := lowerHeaderIndex(rows[0])
	codeCol, ok := head["code"]
	if !ok {
		return nil, MissingColumnError{Column: "code"}
	}
	nameCol, ok := head["name"]
	if !ok {
		return nil, MissingColumnError{Column: "name"}
	}
	typeCol, ok := head["type"]
	if !ok {
		typeCol, ok = head["nature"]
	}
	if !ok {
		return nil, MissingColumnError{Column: "type"}
	}

	var accounts []model.Account
	seen := make(map[string]bool)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) == 0 {
			continue
		}

		code := cell(row, codeCol)
		name := cell(row, nameCol)
		nature := strings.ToLower(cell(row, typeCol))

		if code == "" {
			return nil, InvalidValueError{Row: rowNum, Column: "code", Reason: "required"}
		}
		if name == "" {
			return nil, InvalidValueError{Row: rowNum, Column: "name", Reason: "required"}
		}
		if nature == "" {
			nature = string(model.NatureExpense)
		}
		if existing != nil && existing.CodeExists(code) {
			return nil, DuplicateCodeError{Code: code, Row: rowNum}
		}
		if seen[code] {
			return nil, DuplicateCodeError{Code: code, Row: rowNum}
		}
		seen[code] = true

		accounts = append(accounts, model.Account{
			ID:     code,
			Code:   code,
			Name:   name,
			Nature: model.AccountNature(nature),
		})
	}
	return accounts, nil
}

// ImportCostCenters parses a cost-center workbook (id netsuite/name/type
// columns) and returns the new entries. NetSuite codes must be positive
// integers and unique against both the file and the existing catalog.
func ImportCostCenters(data []byte, existing *catalog.CostCenters) ([]model.CostCenter, error) {
	rows, err := catalogRows(data)
	if err != nil {
		return nil, err
	}

	head := lowerHeaderIndex(rows[0])
	codeCol, ok := head["id netsuite"]
	if !ok {
		codeCol, ok = head["idnetsuite"]
	}
	if !ok {
		return nil, MissingColumnError{Column: "id netsuite"}
	}
	nameCol, ok := head["name"]
	if !ok {
		return nil, MissingColumnError{Column: "name"}
	}
	typeCol, ok := head["type"]
	if !ok {
		return nil, MissingColumnError{Column: "type"}
	}

	var centers []model.CostCenter
	seen := make(map[string]bool)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) == 0 {
			continue
		}

		code := cell(row, codeCol)
		name := cell(row, nameCol)
		category := cell(row, typeCol)

		if code == "" || name == "" || category == "" {
			return nil, InvalidValueError{Row: rowNum, Column: "id netsuite", Reason: "id netsuite, name and type are required"}
		}
		if !netsuiteCodePattern.MatchString(code) {
			return nil, InvalidValueError{Row: rowNum, Column: "id netsuite", Reason: "must be a positive integer"}
		}
		if existing != nil && existing.CodeExists(code) {
			return nil, DuplicateCodeError{Code: code, Row: rowNum}
		}
		if seen[code] {
			return nil, DuplicateCodeError{Code: code, Row: rowNum}
		}
		seen[code] = true

		centers = append(centers, model.CostCenter{
			ID:           uuid.NewString(),
			ExternalCode: code,
			Name:         name,
			Category:     category,
		})
	}
	return centers, nil
}

// catalogRows opens the first sheet and requires at least a header row and
// one data row.
func catalogRows(data []byte) ([][]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingSheet
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows, nil
}

func lowerHeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}
