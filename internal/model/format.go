package model

// Format is a named report template: the root aggregate holding a tree of nodes.
type Format struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Structure          []Node   `json:"structure"`
	DefaultCostCenters []string `json:"defaultCostCenters"` // pre-selected codes for new nodes
}

// Clone returns a deep copy of the format.
func (f Format) Clone() Format {
	out := f
	out.Structure = CloneNodes(f.Structure)
	if f.DefaultCostCenters != nil {
		out.DefaultCostCenters = append([]string(nil), f.DefaultCostCenters...)
	}
	return out
}
