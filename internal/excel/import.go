package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/formatos-dev/formatos/internal/catalog"
	"github.com/formatos-dev/formatos/internal/model"
	"github.com/formatos-dev/formatos/internal/tree"
)

// Importer reconstructs a format tree from a leveled XLSX table.
//
// By default the Node Kind column is required, so every row's type is
// explicit. Files produced before that column existed can be read by
// enabling LegacyKindInference, which falls back to inferring the kind from
// column occupancy: rows with a full account block are accounts, report
// lines without one are measures, everything else is a group. The inference
// can misclassify a measure row that carries stray account-like data, which
// is why it is opt-in.
type Importer struct {
	Accounts    *catalog.Accounts    // optional; resolves snapshots for known codes
	CostCenters *catalog.CostCenters // optional; unknown codes are warned about
	Logger      *zap.Logger

	// LegacyKindInference accepts files without a Node Kind column and
	// infers each row's kind from column occupancy.
	LegacyKindInference bool
}

// importNode buffers a node while its children are still being attached.
type importNode struct {
	node     model.Node
	children []*importNode
}

func (b *importNode) build() model.Node {
	n := b.node
	for _, c := range b.children {
		n.Children = append(n.Children, c.build())
	}
	return n
}

// Import parses a workbook produced by Export (or hand-built to the same
// layout) into a new Format. The format is named Imported_<timestamp>;
// callers typically rename it after the uploaded file.
func (im *Importer) Import(data []byte) (model.Format, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return model.Format{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return model.Format{}, ErrMissingSheet
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return model.Format{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return model.Format{}, MissingColumnError{Column: LevelColumn(1)}
	}

	head, err := im.headerIndex(rows[0])
	if err != nil {
		return model.Format{}, err
	}

	structure, err := im.buildTree(rows[1:], head)
	if err != nil {
		return model.Format{}, err
	}

	// Default cost centers are always derived from the tree, never read
	// from a column.
	return model.Format{
		ID:                 uuid.NewString(),
		Name:               "Imported_" + time.Now().Format("20060102_150405"),
		Structure:          structure,
		DefaultCostCenters: tree.CollectCostCenters(structure),
	}, nil
}

// headerIndex maps header names to column positions and enforces the
// required set. Matching is exact after trimming.
type headerIndex struct {
	byName    map[string]int
	levelCols []int // positions of Level 1..N, in order
	kindCol   int   // -1 when absent
}

func (im *Importer) headerIndex(header []string) (headerIndex, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if _, dup := byName[name]; !dup {
			byName[name] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := byName[col]; !ok {
			return headerIndex{}, MissingColumnError{Column: col}
		}
	}

	kindCol := -1
	if i, ok := byName[ColNodeKind]; ok {
		kindCol = i
	} else if !im.LegacyKindInference {
		return headerIndex{}, MissingColumnError{Column: ColNodeKind}
	}

	var levelCols []int
	for k := 1; ; k++ {
		i, ok := byName[LevelColumn(k)]
		if !ok {
			break
		}
		levelCols = append(levelCols, i)
	}

	return headerIndex{byName: byName, levelCols: levelCols, kindCol: kindCol}, nil
}

// buildTree replays the rows against a parent stack: the chain of
// currently-open ancestor groups. Group rows open at the depth of their
// deepest level value. Report-line rows attach beneath the group chain
// named by their leading level values, synthesizing any group the stack
// does not already hold — a row like Level 1 = "Revenue" with account data
// yields both the group and the account beneath it.
func (im *Importer) buildTree(dataRows [][]string, head headerIndex) ([]model.Node, error) {
	var roots []*importNode
	var stack []*importNode

	attach := func(bn *importNode) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.children = append(top.children, bn)
		} else {
			roots = append(roots, bn)
		}
	}

	for i, row := range dataRows {
		rowNum := i + 2
		if len(row) == 0 {
			continue
		}

		vals := make([]string, len(head.levelCols))
		deepest := -1
		for k, ci := range head.levelCols {
			vals[k] = cell(row, ci)
			if vals[k] != "" {
				deepest = k
			}
		}

		acctNumber := cell(row, head.byName[ColAccountNumber])
		acctName := cell(row, head.byName[ColAccountName])
		acctType := cell(row, head.byName[ColAccountType])
		isReportLine := parseBool(cell(row, head.byName[ColIsReportLine]))

		kind, err := im.rowKind(row, head, rowNum, acctNumber, acctName, acctType, isReportLine)
		if err != nil {
			return nil, err
		}

		if kind == model.KindGroup {
			level, name := 0, ""
			if deepest >= 0 {
				level, name = deepest, vals[deepest]
			}
			if len(stack) > level {
				stack = stack[:level]
			}
			bn := &importNode{node: model.Node{
				ID:          uuid.NewString(),
				Kind:        model.KindGroup,
				Name:        name,
				CostCenters: im.rowCostCenters(cell(row, head.byName[ColCostCenterCodes]), rowNum),
			}}
			attach(bn)
			stack = append(stack, bn)
			continue
		}

		name, depth := reportLinePosition(vals, deepest, acctName)

		node := model.Node{
			ID:          uuid.NewString(),
			Kind:        kind,
			Name:        name,
			CostCenters: im.rowCostCenters(cell(row, head.byName[ColCostCenterCodes]), rowNum),
		}
		if kind == model.KindAccount {
			node.InvertValue = parseBool(cell(row, head.byName[ColInvertValue]))
			node.Account = im.accountSnapshot(acctNumber, acctName, acctType)
		}

		// Reconcile the stack against the row's ancestor chain,
		// synthesizing groups the stack does not cover.
		if len(stack) > depth {
			stack = stack[:depth]
		}
		for j := 0; j < depth; j++ {
			if j < len(stack) {
				if stack[j].node.Name == vals[j] {
					continue
				}
				stack = stack[:j]
			}
			group := &importNode{node: model.Node{
				ID:   uuid.NewString(),
				Kind: model.KindGroup,
				Name: vals[j],
			}}
			attach(group)
			stack = append(stack, group)
		}

		attach(&importNode{node: node})
	}

	structure := make([]model.Node, 0, len(roots))
	for _, r := range roots {
		structure = append(structure, r.build())
	}
	return structure, nil
}

// reportLinePosition works out an account/measure row's display name and
// depth from its level values.
//
// The exporter writes a report line's own name into its depth's column and
// every deeper one, with ancestor names before it, so the trailing run of
// repeated values marks the node and everything before it the group chain.
// Hand-built files often name only the parent group instead (Level 1 =
// "Revenue" for an account named elsewhere); when the deepest value does not
// match the row's own name every level value is an ancestor.
func reportLinePosition(vals []string, deepest int, ownName string) (string, int) {
	if deepest < 0 {
		return ownName, 0
	}
	deepVal := vals[deepest]
	if ownName == "" {
		ownName = deepVal
	}
	if deepVal != ownName {
		return ownName, deepest + 1
	}
	start := deepest
	for start > 0 && vals[start-1] == deepVal {
		start--
	}
	return deepVal, start
}

func (im *Importer) rowKind(row []string, head headerIndex, rowNum int, acctNumber, acctName, acctType string, isReportLine bool) (model.NodeKind, error) {
	if head.kindCol >= 0 {
		raw := cell(row, head.kindCol)
		kind := model.NodeKind(strings.ToLower(raw))
		if model.ValidKind(kind) {
			return kind, nil
		}
		if !im.LegacyKindInference {
			return "", InvalidValueError{Row: rowNum, Column: ColNodeKind, Reason: fmt.Sprintf("%q is not a node kind", raw)}
		}
	}

	switch {
	case acctNumber != "" && acctName != "" && acctType != "":
		return model.KindAccount, nil
	case isReportLine:
		return model.KindMeasure, nil
	default:
		return model.KindGroup, nil
	}
}

// accountSnapshot embeds a denormalized copy of the account on the node.
// A catalog hit reuses the catalog entry so the node links back to it;
// otherwise a standalone snapshot is fabricated from the row.
func (im *Importer) accountSnapshot(code, name, nature string) *model.Account {
	if im.Accounts != nil {
		if acct, ok := im.Accounts.ByCode(code); ok {
			return &acct
		}
	}
	return &model.Account{
		ID:     uuid.NewString(),
		Code:   code,
		Name:   name,
		Nature: model.AccountNature(strings.ToLower(nature)),
	}
}

func (im *Importer) rowCostCenters(raw string, rowNum int) []string {
	codes := splitCodes(raw)
	if im.CostCenters == nil {
		return codes
	}
	for _, code := range codes {
		if !im.CostCenters.CodeExists(code) {
			im.log().Warn("cost center code not in catalog",
				zap.String("code", code),
				zap.Int("row", rowNum))
		}
	}
	return codes
}

func (im *Importer) log() *zap.Logger {
	if im.Logger != nil {
		return im.Logger
	}
	return zap.NewNop()
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(strings.ToLower(s))
	return err == nil && v
}

func splitCodes(raw string) []string {
	if raw == "" {
		return nil
	}
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
