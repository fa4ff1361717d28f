package model

// AccountNature classifies accounts in the catalog. The set is open-ended;
// these are the values the catalog import recognizes.
type AccountNature string

const (
	NatureExpense AccountNature = "expense"
	NatureIncome  AccountNature = "income"
)

// Account is a catalog entry referenced by account nodes. Nodes embed a
// snapshot of the account, so catalog edits do not rewrite existing trees.
type Account struct {
	ID     string        `json:"id"`
	Code   string        `json:"code"` // unique across the catalog
	Name   string        `json:"name"`
	Nature AccountNature `json:"nature"`
}

// FullDescription returns the "<code> <name>" label used in exports.
func (a Account) FullDescription() string {
	switch {
	case a.Code == "":
		return a.Name
	case a.Name == "":
		return a.Code
	default:
		return a.Code + " " + a.Name
	}
}
