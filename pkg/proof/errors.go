package proof

import "fmt"

// Custom error types for better error handling
var (
	ErrInvalidStatement   = fmt.Errorf("invalid statement")
	ErrStackUnderflow     = fmt.Errorf("proof stack underflow")
	ErrTypecodeMismatch   = fmt.Errorf("typecode mismatch")
	ErrHypothesisMismatch = fmt.Errorf("hypothesis mismatch")
	ErrDisjointViolation  = fmt.Errorf("disjoint variable violation")
	ErrUnknownReference   = fmt.Errorf("unknown proof step reference")
	ErrConclusionMismatch = fmt.Errorf("proof did not conclude with the theorem assertion")
	ErrStepLimitExceeded  = fmt.Errorf("proof step limit exceeded")
)

// VerifyError is a verification failure attributed to a proof step. Step
// is 1-based; for the final conclusion check it is the index one past the
// last script step. Err is always one of the sentinel errors above.
type VerifyError struct {
	Theorem     string
	Step        int
	Ref         string
	Err         error
	Expected    string
	Found       string
	Suggestions []string
}

func (e *VerifyError) Error() string {
	msg := fmt.Sprintf("theorem %q step %d", e.Theorem, e.Step)
	if e.Ref != "" {
		msg += fmt.Sprintf(" (%s)", e.Ref)
	}
	msg += ": " + e.Err.Error()
	if e.Expected != "" || e.Found != "" {
		msg += fmt.Sprintf(": expected %q, got %q", e.Expected, e.Found)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %v?)", e.Suggestions)
	}
	return msg
}

func (e *VerifyError) Unwrap() error { return e.Err }
