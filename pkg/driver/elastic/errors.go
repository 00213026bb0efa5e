package elastic

import "fmt"

// UnknownOperationError is returned when the tree still contains an
// implicit operation and no default operator is configured. Run the
// UnknownOperationResolver from the transform package first, or set
// WithDefaultOperator.
type UnknownOperationError struct {
	Excerpt string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf(
		"implicit operation in %q cannot be translated, resolve it or configure a default operator",
		e.Excerpt)
}

func (e *UnknownOperationError) inconsistentQuery() {}
