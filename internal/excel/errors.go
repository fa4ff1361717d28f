package excel

import (
	"errors"
	"fmt"
)

// ErrMissingSheet is returned when a workbook contains no worksheet.
var ErrMissingSheet = errors.New("workbook has no worksheet")

// MissingColumnError reports a required header column absent from the file.
type MissingColumnError struct {
	Column string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// DuplicateCodeError reports a catalog code that collides with another row
// or with the existing catalog.
type DuplicateCodeError struct {
	Code string
	Row  int
}

func (e DuplicateCodeError) Error() string {
	return fmt.Sprintf("row %d: code %q already exists", e.Row, e.Code)
}

// InvalidValueError reports a cell that fails row-level validation.
type InvalidValueError struct {
	Row    int
	Column string
	Reason string
}

func (e InvalidValueError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("row %d: invalid value in column %q", e.Row, e.Column)
	}
	return fmt.Sprintf("row %d: invalid value in column %q: %s", e.Row, e.Column, e.Reason)
}
