package assessment

import "fmt"

// UnsupportedTypeError is returned when a column's logical or base type has
// no BigQuery mapping.
type UnsupportedTypeError struct {
	Column string
	Token  string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("column '%s' is of unsupported type '%s'", e.Column, e.Token)
}
