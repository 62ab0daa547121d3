package proof

import (
	"fmt"
	"strings"
)

// StepAction identifies what a proof step did.
type StepAction string

const (
	// ActionPushType pushes a typed variable hypothesis onto the stack.
	ActionPushType StepAction = "push_type"
	// ActionPushHypothesis pushes a logical hypothesis onto the stack.
	ActionPushHypothesis StepAction = "push_hypothesis"
	// ActionApply pops an assertion's hypotheses and pushes its
	// substituted conclusion.
	ActionApply StepAction = "apply"
)

// Binding records one unified variable during an assertion application.
type Binding struct {
	Var  string `json:"var"`
	Expr string `json:"expr"`
}

// TraceStep is one entry of a verification run's step log. The detailed
// trace is a pure projection of these entries; no verification outcome
// depends on them.
type TraceStep struct {
	Index    int        `json:"index"`
	Action   StepAction `json:"action"`
	Ref      string     `json:"ref"`
	Kind     string     `json:"kind,omitempty"`
	Expr     string     `json:"expr"`
	Popped   []string   `json:"popped,omitempty"`
	Bindings []Binding  `json:"bindings,omitempty"`
}

// String renders the step in the classic trace format.
func (ts TraceStep) String() string {
	switch ts.Action {
	case ActionPushType:
		return fmt.Sprintf("Step %d: push type assumption '%s' -> '%s'", ts.Index, ts.Ref, ts.Expr)
	case ActionPushHypothesis:
		return fmt.Sprintf("Step %d: push hypothesis '%s' -> '%s'", ts.Index, ts.Ref, ts.Expr)
	case ActionApply:
		var b strings.Builder
		fmt.Fprintf(&b, "Step %d: apply %s '%s', pop %v", ts.Index, ts.Kind, ts.Ref, ts.Popped)
		for _, bind := range ts.Bindings {
			fmt.Fprintf(&b, "\n  match var '%s' -> '%s'", bind.Var, bind.Expr)
		}
		fmt.Fprintf(&b, "\n  conclude -> '%s' and push to stack", ts.Expr)
		return b.String()
	default:
		return fmt.Sprintf("Step %d: %s '%s'", ts.Index, ts.Action, ts.Ref)
	}
}

// Result is a successful verification outcome.
type Result struct {
	// RunID uniquely identifies this verification run in logs and traces.
	RunID string `json:"run_id"`
	// Theorem is the verified theorem's label.
	Theorem string `json:"theorem"`
	// Conclusion is the final derived expression, equal to the theorem's
	// declared conclusion pattern.
	Conclusion string `json:"conclusion"`
	// Steps is the number of proof script steps executed.
	Steps int `json:"steps"`
	// Trace holds the ordered step log in detailed mode, nil otherwise.
	Trace []TraceStep `json:"trace,omitempty"`
}

// TraceStrings renders the trace as human-readable lines.
func (r *Result) TraceStrings() []string {
	out := make([]string, 0, len(r.Trace)+1)
	for _, ts := range r.Trace {
		out = append(out, ts.String())
	}
	if len(r.Trace) > 0 {
		out = append(out, fmt.Sprintf("Proof successfully concludes with assertion '%s'", r.Conclusion))
	}
	return out
}
