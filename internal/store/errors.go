package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFormatNotFound     = errors.New("format not found")
	ErrNoActiveFormat     = errors.New("no format selected")
	ErrAccountNotFound    = errors.New("account not found")
	ErrCostCenterNotFound = errors.New("cost center not found")
)

// ReferentialIntegrityError refuses a catalog deletion because format trees
// still reference the entity. The offending formats are listed instead of
// cascading or orphaning the references.
type ReferentialIntegrityError struct {
	Entity      string // "account" or "cost center"
	EntityID    string
	FormatIDs   []string
	FormatNames []string
}

func (e ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %s is in use by %d format(s): %s",
		e.Entity, e.EntityID, len(e.FormatIDs), strings.Join(e.FormatNames, ", "))
}
