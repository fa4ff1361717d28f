package tree

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/formatos-dev/formatos/internal/model"
)

// NodeChanges describes a partial update. Nil fields are left untouched;
// non-nil fields replace the node's value wholesale (replacing CostCenters
// replaces the entire set, not individual members).
type NodeChanges struct {
	Name        *string
	Account     *model.Account
	CostCenters *[]string
	InvertValue *bool
}

// Insert creates a new node and appends it to the children of parentID, or
// to the root sequence when parentID is empty. The new node gets a fresh
// uuid, a kind-appropriate default name, and the given cost centers.
func Insert(roots []model.Node, parentID string, kind model.NodeKind, account *model.Account, costCenters []string) ([]model.Node, model.Node, error) {
	node := model.Node{
		ID:          uuid.NewString(),
		Kind:        kind,
		Name:        defaultName(kind, account),
		CostCenters: append([]string(nil), costCenters...),
	}
	if kind == model.KindAccount && account != nil {
		snapshot := *account
		node.Account = &snapshot
	}

	if parentID == "" {
		return append(model.CloneNodes(roots), node), node, nil
	}

	out, attached := appendChild(roots, parentID, node)
	if !attached {
		return roots, model.Node{}, fmt.Errorf("insert under %q: %w", parentID, ErrNodeNotFound)
	}
	return out, node, nil
}

func defaultName(kind model.NodeKind, account *model.Account) string {
	switch kind {
	case model.KindGroup:
		return "New Group"
	case model.KindMeasure:
		return "New Measure"
	default:
		if account != nil && account.Name != "" {
			return account.Name
		}
		return "New Account"
	}
}

func appendChild(nodes []model.Node, parentID string, child model.Node) ([]model.Node, bool) {
	out := make([]model.Node, len(nodes))
	attached := false
	for i, n := range nodes {
		cp := n
		if !attached && n.ID == parentID {
			cp.Children = append(model.CloneNodes(n.Children), child)
			attached = true
		} else if !attached {
			if kids, ok := appendChild(n.Children, parentID, child); ok {
				cp.Children = kids
				attached = true
			}
		}
		out[i] = cp
	}
	return out, attached
}

// Update merges changes into the node with the given id.
func Update(roots []model.Node, id string, changes NodeChanges) ([]model.Node, error) {
	out, updated := updateNode(roots, id, changes)
	if !updated {
		return roots, fmt.Errorf("update %q: %w", id, ErrNodeNotFound)
	}
	return out, nil
}

func updateNode(nodes []model.Node, id string, changes NodeChanges) ([]model.Node, bool) {
	out := make([]model.Node, len(nodes))
	updated := false
	for i, n := range nodes {
		cp := n
		if !updated && n.ID == id {
			if changes.Name != nil {
				cp.Name = *changes.Name
			}
			if changes.Account != nil {
				snapshot := *changes.Account
				cp.Account = &snapshot
			}
			if changes.CostCenters != nil {
				cp.CostCenters = append([]string(nil), *changes.CostCenters...)
			}
			if changes.InvertValue != nil {
				cp.InvertValue = *changes.InvertValue
			}
			updated = true
		} else if !updated {
			if kids, ok := updateNode(n.Children, id, changes); ok {
				cp.Children = kids
				updated = true
			}
		}
		out[i] = cp
	}
	return out, updated
}

// Delete removes the node with the given id together with its entire subtree.
func Delete(roots []model.Node, id string) ([]model.Node, error) {
	out, removed := detach(roots, id)
	if removed == nil {
		return roots, fmt.Errorf("delete %q: %w", id, ErrNodeNotFound)
	}
	return out, nil
}

// Move detaches the subtree rooted at id and reinserts it at index within the
// children of newParentID (or the root sequence when newParentID is empty).
// An index past the end appends; a negative index inserts at the front.
//
// Because the subtree is detached before the insert step searches for the new
// parent, a parent inside the moved subtree can no longer be found; that move
// fails and the tree is returned unchanged rather than dropping the subtree.
func Move(roots []model.Node, id, newParentID string, index int) ([]model.Node, error) {
	detached, subtree := detach(roots, id)
	if subtree == nil {
		return roots, fmt.Errorf("move %q: %w", id, ErrNodeNotFound)
	}

	if newParentID == "" {
		return spliceNodes(detached, index, *subtree), nil
	}

	out, inserted := insertAt(detached, newParentID, index, *subtree)
	if !inserted {
		return roots, fmt.Errorf("move %q under %q: %w", id, newParentID, ErrNodeNotFound)
	}
	return out, nil
}

// detach removes the node with the given id and returns the captured subtree,
// or nil when the id does not occur.
func detach(nodes []model.Node, id string) ([]model.Node, *model.Node) {
	var captured *model.Node
	out := make([]model.Node, 0, len(nodes))
	for _, n := range nodes {
		if captured == nil && n.ID == id {
			cp := n
			captured = &cp
			continue
		}
		cp := n
		if captured == nil {
			if kids, sub := detach(n.Children, id); sub != nil {
				cp.Children = kids
				captured = sub
			}
		}
		out = append(out, cp)
	}
	return out, captured
}

func insertAt(nodes []model.Node, parentID string, index int, child model.Node) ([]model.Node, bool) {
	out := make([]model.Node, len(nodes))
	inserted := false
	for i, n := range nodes {
		cp := n
		if !inserted && n.ID == parentID {
			cp.Children = spliceNodes(n.Children, index, child)
			inserted = true
		} else if !inserted {
			if kids, ok := insertAt(n.Children, parentID, index, child); ok {
				cp.Children = kids
				inserted = true
			}
		}
		out[i] = cp
	}
	return out, inserted
}

// spliceNodes inserts child at index, clamping to the sequence bounds.
func spliceNodes(nodes []model.Node, index int, child model.Node) []model.Node {
	if index < 0 {
		index = 0
	}
	if index > len(nodes) {
		index = len(nodes)
	}
	out := make([]model.Node, 0, len(nodes)+1)
	out = append(out, nodes[:index]...)
	out = append(out, child)
	out = append(out, nodes[index:]...)
	return out
}
