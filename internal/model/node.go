package model

// NodeKind classifies entries in a format's tree.
type NodeKind string

const (
	KindGroup   NodeKind = "group"
	KindAccount NodeKind = "account"
	KindMeasure NodeKind = "measure"
)

// ValidKind reports whether k is one of the three node kinds.
func ValidKind(k NodeKind) bool {
	switch k {
	case KindGroup, KindAccount, KindMeasure:
		return true
	}
	return false
}

// Node is a single entry in a format's tree: an organizational group, an
// account line referencing a catalog account, or a named measure line.
type Node struct {
	ID          string   `json:"id"`
	Kind        NodeKind `json:"kind"`
	Name        string   `json:"name"`
	Account     *Account `json:"account,omitempty"` // snapshot taken at assignment, not a live reference
	Children    []Node   `json:"children"`
	CostCenters []string `json:"costCenters"` // external cost-center codes
	InvertValue bool     `json:"invertValue,omitempty"`
}

// IsReportLine reports whether the node is a reportable line
// (account or measure, as opposed to a group).
func (n Node) IsReportLine() bool {
	return n.Kind == KindAccount || n.Kind == KindMeasure
}

// Clone returns a deep copy of the node and its subtree.
func (n Node) Clone() Node {
	out := n
	if n.Account != nil {
		acct := *n.Account
		out.Account = &acct
	}
	if n.CostCenters != nil {
		out.CostCenters = append([]string(nil), n.CostCenters...)
	}
	out.Children = CloneNodes(n.Children)
	return out
}

// CloneNodes deep-copies a node slice.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
