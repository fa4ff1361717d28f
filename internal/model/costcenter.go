package model

// CostCenter is a catalog dimension tag attachable to account and measure
// nodes. Nodes reference it by ExternalCode (the NetSuite id), never by ID.
type CostCenter struct {
	ID           string `json:"id"`
	ExternalCode string `json:"externalCode"` // unique, the cross-reference key
	Name         string `json:"name"`
	Category     string `json:"category"` // free-form, user-extensible
}
