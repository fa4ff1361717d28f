package catalog

import "github.com/formatos-dev/formatos/internal/model"

// CostCenters provides in-memory lookup over the cost-center catalog.
// Lookups key on the external (NetSuite) code, which is what format trees
// store.
type CostCenters struct {
	centers []model.CostCenter
	byCode  map[string]model.CostCenter
}

// NewCostCenters creates a CostCenters service from a slice of centers.
func NewCostCenters(centers []model.CostCenter) *CostCenters {
	byCode := make(map[string]model.CostCenter, len(centers))
	for _, c := range centers {
		byCode[c.ExternalCode] = c
	}
	return &CostCenters{centers: centers, byCode: byCode}
}

// All returns all cost centers.
func (s *CostCenters) All() []model.CostCenter {
	return s.centers
}

// ByExternalCode returns a cost center by its external code.
func (s *CostCenters) ByExternalCode(code string) (model.CostCenter, bool) {
	c, ok := s.byCode[code]
	return c, ok
}

// CodeExists reports whether an external code is already taken.
func (s *CostCenters) CodeExists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// Resolve splits codes into resolved centers and the codes with no catalog
// entry, preserving input order.
func (s *CostCenters) Resolve(codes []string) (resolved []model.CostCenter, missing []string) {
	for _, code := range codes {
		if c, ok := s.byCode[code]; ok {
			resolved = append(resolved, c)
		} else {
			missing = append(missing, code)
		}
	}
	return resolved, missing
}
