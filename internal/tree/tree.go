// Package tree implements the mutation engine for format structures.
//
// Every operation takes the current root sequence and returns a new one;
// nodes are never mutated in place. Unchanged subtrees are shared between
// the old and new sequences, which is safe because callers replace the
// whole structure and never write through a returned tree.
package tree

import (
	"errors"

	"github.com/formatos-dev/formatos/internal/model"
)

// ErrNodeNotFound is returned when an operation targets an id that does not
// exist in the tree. Operations never degrade to silent no-ops; callers get
// the error and the unchanged tree.
var ErrNodeNotFound = errors.New("node not found")

// Find returns the node with the given id, searching depth-first.
func Find(nodes []model.Node, id string) (model.Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
		if found, ok := Find(n.Children, id); ok {
			return found, true
		}
	}
	return model.Node{}, false
}

// Walk visits every node depth-first pre-order, parents before children.
// depth is 0 for root nodes.
func Walk(nodes []model.Node, fn func(n model.Node, depth int)) {
	walk(nodes, 0, fn)
}

func walk(nodes []model.Node, depth int, fn func(n model.Node, depth int)) {
	for _, n := range nodes {
		fn(n, depth)
		walk(n.Children, depth+1, fn)
	}
}

// MaxDepth returns the 0-based depth of the deepest node. An empty or flat
// tree has depth 0.
func MaxDepth(nodes []model.Node) int {
	return maxDepth(nodes, 0)
}

func maxDepth(nodes []model.Node, level int) int {
	deepest := level
	for _, n := range nodes {
		if len(n.Children) > 0 {
			if d := maxDepth(n.Children, level+1); d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}

// Count returns the total number of nodes in the tree.
func Count(nodes []model.Node) int {
	total := 0
	Walk(nodes, func(model.Node, int) { total++ })
	return total
}

// CollectCostCenters returns the union of every cost-center code appearing on
// any node, in first-seen traversal order.
func CollectCostCenters(nodes []model.Node) []string {
	var codes []string
	seen := make(map[string]bool)
	Walk(nodes, func(n model.Node, _ int) {
		for _, code := range n.CostCenters {
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	})
	return codes
}

// UsesAccount reports whether any account node references the catalog
// account with the given id.
func UsesAccount(nodes []model.Node, accountID string) bool {
	found := false
	Walk(nodes, func(n model.Node, _ int) {
		if n.Kind == model.KindAccount && n.Account != nil && n.Account.ID == accountID {
			found = true
		}
	})
	return found
}

// UsesCostCenter reports whether any node carries the given external code.
func UsesCostCenter(nodes []model.Node, externalCode string) bool {
	found := false
	Walk(nodes, func(n model.Node, _ int) {
		for _, code := range n.CostCenters {
			if code == externalCode {
				found = true
			}
		}
	})
	return found
}
