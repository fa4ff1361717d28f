// Package catalog provides in-memory lookup over the account and
// cost-center catalogs.
package catalog

import "github.com/formatos-dev/formatos/internal/model"

// Accounts provides in-memory lookup over the account catalog.
type Accounts struct {
	accounts []model.Account
	byID     map[string]model.Account
	byCode   map[string]model.Account
}

// NewAccounts creates an Accounts service from a slice of accounts.
func NewAccounts(accounts []model.Account) *Accounts {
	byID := make(map[string]model.Account, len(accounts))
	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
		byCode[a.Code] = a
	}
	return &Accounts{accounts: accounts, byID: byID, byCode: byCode}
}

// All returns all accounts.
func (s *Accounts) All() []model.Account {
	return s.accounts
}

// Get returns an account by id.
func (s *Accounts) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// ByCode returns an account by its catalog code.
func (s *Accounts) ByCode(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// CodeExists reports whether a catalog code is already taken.
func (s *Accounts) CodeExists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}
