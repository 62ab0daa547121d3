package formal

import "fmt"

// Custom error types for better error handling
var (
	ErrDuplicateLabel = fmt.Errorf("duplicate label")
	ErrNotFound       = fmt.Errorf("label not found")
	ErrEmptyFormula   = fmt.Errorf("formula has no symbols")
	ErrMissingBinding = fmt.Errorf("missing binding for template parameter")
	ErrUnknownBinding = fmt.Errorf("binding does not match any template parameter")
	ErrKindMismatch   = fmt.Errorf("bound value kind does not match parameter kind")
	ErrTypeConflict   = fmt.Errorf("conflicting kinds for merged template parameter")
	ErrInvalidBody    = fmt.Errorf("template body does not match declared parameters")
)
