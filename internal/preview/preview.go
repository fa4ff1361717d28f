// Package preview computes report values for a format tree from a map of
// per-account figures, mirroring how the exported layout is consumed
// downstream.
package preview

import (
	"github.com/shopspring/decimal"

	"github.com/formatos-dev/formatos/internal/model"
)

// Values holds the raw figure for each catalog account, keyed by account id.
type Values map[string]decimal.Decimal

// Line is one row of a rendered preview.
type Line struct {
	NodeID string
	Name   string
	Kind   model.NodeKind
	Depth  int
	Order  int // global order over report lines; 0 for groups
	Value  decimal.Decimal
}

// Report renders the format against the given values in export order.
// Account lines carry their (possibly sign-flipped) figure, measure lines
// carry zero, and group lines carry the subtotal of every account beneath
// them.
func Report(f model.Format, values Values) []Line {
	var lines []Line
	order := 1

	var emit func(nodes []model.Node, depth int)
	emit = func(nodes []model.Node, depth int) {
		for _, n := range nodes {
			line := Line{NodeID: n.ID, Name: n.Name, Kind: n.Kind, Depth: depth}
			switch n.Kind {
			case model.KindGroup:
				line.Value = Subtotal(n, values)
			default:
				line.Order = order
				order++
				if n.Kind == model.KindAccount {
					line.Value = accountValue(n, values)
				}
			}
			lines = append(lines, line)
			emit(n.Children, depth+1)
		}
	}
	emit(f.Structure, 0)
	return lines
}

// Subtotal sums the account values across the node's subtree, applying each
// account's sign flip.
func Subtotal(n model.Node, values Values) decimal.Decimal {
	total := decimal.Zero
	if n.Kind == model.KindAccount {
		total = total.Add(accountValue(n, values))
	}
	for _, c := range n.Children {
		total = total.Add(Subtotal(c, values))
	}
	return total
}

func accountValue(n model.Node, values Values) decimal.Decimal {
	if n.Account == nil {
		return decimal.Zero
	}
	v, ok := values[n.Account.ID]
	if !ok {
		return decimal.Zero
	}
	if n.InvertValue {
		return v.Neg()
	}
	return v
}
