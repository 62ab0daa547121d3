package proof

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/duynguyendang/formalmath/pkg/formal"
)

// stackItem is one entry of the proof stack. The typed tag only feeds the
// trace; matching rules treat all items uniformly.
type stackItem struct {
	tokens []string
	typed  bool
}

func (it stackItem) String() string { return strings.Join(it.tokens, " ") }

// Verify replays the named theorem's proof script against the system's
// axioms and previously proved theorems. In detailed mode the result
// carries the full ordered step trace; the verification outcome is the
// same either way. Failures are returned as *VerifyError with the step
// index and reason.
func (s *System) Verify(label string, detailed bool) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	thm, ok := s.theorems[label]
	if !ok {
		return nil, fmt.Errorf("theorem %q (close matches: %v): %w",
			label, Suggest(label, s.theoremOrder), formal.ErrNotFound)
	}
	return s.runProof(thm, detailed)
}

// runProof executes the stack machine. Callers hold at least a read lock.
func (s *System) runProof(thm *Assertion, detailed bool) (*Result, error) {
	var (
		stack []stackItem
		trace []TraceStep
	)

	fail := func(step int, ref string, sentinel error, expected, found string) error {
		return &VerifyError{
			Theorem:  thm.label,
			Step:     step,
			Ref:      ref,
			Err:      sentinel,
			Expected: expected,
			Found:    found,
		}
	}

	for i, ref := range thm.proof {
		step := i + 1
		if s.maxSteps > 0 && step > s.maxSteps {
			return nil, fail(step, ref, ErrStepLimitExceeded, "", "")
		}

		// Case 1: reference to one of the theorem's typed hypotheses.
		if th, ok := thm.typedByLabel[ref]; ok {
			item := stackItem{tokens: []string{th.Typecode, th.Var}, typed: true}
			stack = append(stack, item)
			trace = append(trace, TraceStep{
				Index: step, Action: ActionPushType, Ref: ref, Expr: item.String(),
			})
			continue
		}

		// Case 2: reference to one of the theorem's logical hypotheses.
		if hy, ok := thm.hypByLabel[ref]; ok {
			item := stackItem{tokens: hy.tokens}
			stack = append(stack, item)
			trace = append(trace, TraceStep{
				Index: step, Action: ActionPushHypothesis, Ref: ref, Expr: item.String(),
			})
			continue
		}

		// Case 3: reference to a known axiom or theorem.
		rule, ok := s.axioms[ref]
		if !ok {
			rule, ok = s.theorems[ref]
		}
		if !ok {
			return nil, &VerifyError{
				Theorem:     thm.label,
				Step:        step,
				Ref:         ref,
				Err:         ErrUnknownReference,
				Found:       ref,
				Suggestions: Suggest(ref, s.stepCandidates(thm)),
			}
		}

		item, ts, err := s.apply(thm, rule, &stack, step)
		if err != nil {
			return nil, err
		}
		stack = append(stack, item)
		trace = append(trace, ts)
	}

	// The script is exhausted: exactly one item equal to the declared
	// conclusion must remain.
	if len(stack) != 1 || !equalTokens(stack[0].tokens, thm.conclusion) {
		found := make([]string, len(stack))
		for i, it := range stack {
			found[i] = it.String()
		}
		return nil, fail(len(thm.proof)+1, "", ErrConclusionMismatch,
			thm.Conclusion(), strings.Join(found, " ; "))
	}

	res := &Result{
		RunID:      uuid.NewString(),
		Theorem:    thm.label,
		Conclusion: stack[0].String(),
		Steps:      len(thm.proof),
	}
	if detailed {
		res.Trace = trace
	}
	slog.Debug("proof verified", "run_id", res.RunID, "theorem", thm.label, "steps", res.Steps)
	return res, nil
}

// apply pops rule's hypotheses off the stack, unifies the substitution,
// checks disjointness and logical hypotheses, and returns the substituted
// conclusion as the item to push.
func (s *System) apply(thm, rule *Assertion, stack *[]stackItem, step int) (stackItem, TraceStep, error) {
	fail := func(sentinel error, expected, found string) error {
		return &VerifyError{
			Theorem:  thm.label,
			Step:     step,
			Ref:      rule.label,
			Err:      sentinel,
			Expected: expected,
			Found:    found,
		}
	}

	k := rule.Arity()
	if len(*stack) < k {
		return stackItem{}, TraceStep{}, fail(ErrStackUnderflow,
			fmt.Sprintf("%d stack items", k), fmt.Sprintf("%d", len(*stack)))
	}

	// Pop the top k items; args holds them oldest first, matching the
	// rule's declared hypothesis order.
	args := (*stack)[len(*stack)-k:]
	*stack = (*stack)[:len(*stack)-k]

	ts := TraceStep{
		Index:  step,
		Action: ActionApply,
		Ref:    rule.label,
		Kind:   rule.kind.String(),
		Popped: make([]string, k),
	}
	for i, it := range args {
		ts.Popped[i] = it.String()
	}

	// Unify: each candidate typed item supplies the substitution for one
	// bound variable of the rule.
	subs := make(map[string][]string, len(rule.types))
	for i, th := range rule.types {
		cand := args[i]
		if cand.tokens[0] != th.Typecode {
			return stackItem{}, TraceStep{}, fail(ErrTypecodeMismatch, th.Typecode, cand.tokens[0])
		}
		subs[th.Var] = cand.tokens[1:]
		ts.Bindings = append(ts.Bindings, Binding{
			Var:  th.Var,
			Expr: strings.Join(cand.tokens[1:], " "),
		})
	}

	// Disjointness: substituted expressions for a disjoint pair may not
	// share a variable. Common constants are fine.
	for _, d := range rule.disjoint {
		su, okU := subs[d.A]
		sv, okV := subs[d.B]
		if !okU || !okV {
			continue
		}
		if common, ok := s.commonVariable(su, sv); ok {
			return stackItem{}, TraceStep{}, fail(ErrDisjointViolation,
				fmt.Sprintf("disjoint %s %s", d.A, d.B), common)
		}
	}

	// Each candidate logical item must equal the corresponding hypothesis
	// pattern under the substitution.
	for j, hy := range rule.hyps {
		expected := substitute(hy.tokens, subs)
		actual := args[len(rule.types)+j]
		if !equalTokens(actual.tokens, expected) {
			return stackItem{}, TraceStep{}, fail(ErrHypothesisMismatch,
				strings.Join(expected, " "), actual.String())
		}
	}

	item := stackItem{tokens: substitute(rule.conclusion, subs)}
	ts.Expr = item.String()
	return item, ts, nil
}

// commonVariable returns a variable token occurring in both expressions.
func (s *System) commonVariable(a, b []string) (string, bool) {
	seen := make(map[string]struct{}, len(a))
	for _, tok := range a {
		if !s.isConstant(tok) {
			seen[tok] = struct{}{}
		}
	}
	for _, tok := range b {
		if _, ok := seen[tok]; ok {
			return tok, true
		}
	}
	return "", false
}

// stepCandidates collects every label a proof step could legally
// reference, for suggestion ranking.
func (s *System) stepCandidates(thm *Assertion) []string {
	out := make([]string, 0, len(thm.types)+len(thm.hyps)+len(s.axiomOrder)+len(s.theoremOrder))
	for _, th := range thm.types {
		out = append(out, th.Label)
	}
	for _, hy := range thm.hyps {
		out = append(out, hy.label)
	}
	out = append(out, s.axiomOrder...)
	out = append(out, s.theoremOrder...)
	return out
}

func substitute(pattern []string, subs map[string][]string) []string {
	out := make([]string, 0, len(pattern))
	for _, tok := range pattern {
		if repl, ok := subs[tok]; ok {
			out = append(out, repl...)
			continue
		}
		out = append(out, tok)
	}
	return out
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
