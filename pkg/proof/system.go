package proof

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/duynguyendang/formalmath/pkg/formal"
)

// System is a formal system: a namespace of constants plus validated
// axioms and theorems. Every theorem's proof is checked when it enters
// the system, so a constructed System only ever holds verified theorems.
//
// The namespace is backed by a formal.Registry owned by the system, so
// independent systems never interfere with each other.
type System struct {
	mu       sync.RWMutex
	name     string
	reg      *formal.Registry
	axioms   map[string]*Assertion
	theorems map[string]*Assertion

	axiomOrder   []string
	theoremOrder []string

	maxSteps int
}

// Option configures a System at construction time.
type Option func(*System)

// WithName sets a human-readable system name used in listings and logs.
func WithName(name string) Option {
	return func(s *System) { s.name = name }
}

// WithStepLimit bounds the number of proof steps a single verification
// run may execute. Exceeding the bound fails with ErrStepLimitExceeded.
// Zero means unbounded.
func WithStepLimit(n int) Option {
	return func(s *System) { s.maxSteps = n }
}

// NewSystem builds a formal system from constants and ordered axiom and
// theorem declarations. Axioms are validated for well-formedness;
// theorems are additionally proof-checked in declaration order, so a
// theorem may reference any axiom or earlier theorem.
func NewSystem(constants []string, axioms, theorems []Declaration, opts ...Option) (*System, error) {
	s := &System{
		reg:      formal.NewRegistry(),
		axioms:   make(map[string]*Assertion),
		theorems: make(map[string]*Assertion),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, c := range constants {
		if err := s.addConstantLocked(c); err != nil {
			return nil, err
		}
	}
	for _, decl := range axioms {
		if err := s.addAxiomLocked(decl.Label, decl.Stmt); err != nil {
			return nil, err
		}
	}
	for _, decl := range theorems {
		if err := s.addTheoremLocked(decl.Label, decl.Stmt); err != nil {
			return nil, err
		}
	}

	slog.Debug("formal system constructed",
		"name", s.name,
		"constants", len(constants),
		"axioms", len(s.axioms),
		"theorems", len(s.theorems))
	return s, nil
}

// Name returns the system's display name.
func (s *System) Name() string { return s.name }

// Registry exposes the system's namespace registry for read-only use by
// collaborators such as pretty-printers.
func (s *System) Registry() *formal.Registry { return s.reg }

// AddConstant declares a new constant symbol.
func (s *System) AddConstant(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addConstantLocked(label)
}

// AddAxiom validates and adds an axiom.
func (s *System) AddAxiom(label string, stmt Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAxiomLocked(label, stmt)
}

// AddTheorem validates, proof-checks, and adds a theorem. The theorem is
// rejected without side effects if its proof does not verify.
func (s *System) AddTheorem(label string, stmt Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTheoremLocked(label, stmt)
}

func (s *System) addConstantLocked(label string) error {
	if _, err := formal.NewConstant(s.reg, label); err != nil {
		return fmt.Errorf("constant %q: %w", label, formal.ErrDuplicateLabel)
	}
	return nil
}

func (s *System) addAxiomLocked(label string, stmt Statement) error {
	if len(stmt.Proof) != 0 {
		return fmt.Errorf("axiom %q carries a proof script: %w", label, ErrInvalidStatement)
	}
	a, err := s.checkStatement(label, KindAxiom, stmt)
	if err != nil {
		return err
	}
	if err := s.reg.Register(a); err != nil {
		return err
	}
	s.axioms[label] = a
	s.axiomOrder = append(s.axiomOrder, label)
	return nil
}

func (s *System) addTheoremLocked(label string, stmt Statement) error {
	if len(stmt.Proof) == 0 {
		return fmt.Errorf("theorem %q has no proof script: %w", label, ErrInvalidStatement)
	}
	a, err := s.checkStatement(label, KindTheorem, stmt)
	if err != nil {
		return err
	}
	// Verify before committing anything: the proof script only references
	// the theorem's own hypothesis labels and already-known assertions, so
	// the candidate never needs to be visible to its own verification.
	if _, err := s.runProof(a, false); err != nil {
		return fmt.Errorf("proof of theorem %q is wrong: %w", label, err)
	}
	if err := s.reg.Register(a); err != nil {
		return err
	}
	s.theorems[label] = a
	s.theoremOrder = append(s.theoremOrder, label)
	return nil
}

// checkStatement validates a statement's well-formedness and returns the
// tokenized assertion. It does not mutate the system.
func (s *System) checkStatement(label string, kind Kind, stmt Statement) (*Assertion, error) {
	if s.reg.Contains(label) {
		return nil, fmt.Errorf("%s %q: %w", kind, label, formal.ErrDuplicateLabel)
	}

	a := &Assertion{
		label:        label,
		kind:         kind,
		typedByLabel: make(map[string]TypedHyp, len(stmt.Types)),
		hypByLabel:   make(map[string]tokenizedHyp, len(stmt.Hyps)),
		vars:         make(map[string]struct{}, len(stmt.Types)),
	}

	// Typed variable hypotheses bind the assertion's variables. Labels and
	// variable names are scoped to the assertion but must not shadow the
	// system namespace.
	local := map[string]struct{}{label: {}}
	for _, th := range stmt.Types {
		if err := s.checkLocalName(local, th.Label); err != nil {
			return nil, fmt.Errorf("%s %q: typed hypothesis %q: %w", kind, label, th.Label, err)
		}
		if th.Typecode == "" || th.Var == "" {
			return nil, fmt.Errorf("%s %q: typed hypothesis %q must be a typecode and one variable: %w",
				kind, label, th.Label, ErrInvalidStatement)
		}
		if !s.isConstant(th.Typecode) {
			return nil, fmt.Errorf("%s %q: typed hypothesis %q: typecode %q is not a constant: %w",
				kind, label, th.Label, th.Typecode, formal.ErrNotFound)
		}
		if err := s.checkLocalName(local, th.Var); err != nil {
			return nil, fmt.Errorf("%s %q: variable %q: %w", kind, label, th.Var, err)
		}
		a.vars[th.Var] = struct{}{}
		a.types = append(a.types, th)
		a.typedByLabel[th.Label] = th
	}

	for _, h := range stmt.Hyps {
		if err := s.checkLocalName(local, h.Label); err != nil {
			return nil, fmt.Errorf("%s %q: hypothesis %q: %w", kind, label, h.Label, err)
		}
		tokens, err := a.checkPattern(s, h.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s %q: hypothesis %q: %w", kind, label, h.Label, err)
		}
		th := tokenizedHyp{label: h.Label, tokens: tokens}
		a.hyps = append(a.hyps, th)
		a.hypByLabel[h.Label] = th
	}

	conclusion, err := a.checkPattern(s, stmt.Assertion)
	if err != nil {
		return nil, fmt.Errorf("%s %q: conclusion: %w", kind, label, err)
	}
	a.conclusion = conclusion

	for _, d := range stmt.Disjoint {
		if err := s.checkLocalName(local, d.Label); err != nil {
			return nil, fmt.Errorf("%s %q: disjoint %q: %w", kind, label, d.Label, err)
		}
		if d.A == d.B {
			return nil, fmt.Errorf("%s %q: disjoint %q: variables must differ: %w",
				kind, label, d.Label, ErrInvalidStatement)
		}
		if _, ok := a.vars[d.A]; !ok {
			return nil, fmt.Errorf("%s %q: disjoint %q: %q is not a bound variable: %w",
				kind, label, d.Label, d.A, ErrInvalidStatement)
		}
		if _, ok := a.vars[d.B]; !ok {
			return nil, fmt.Errorf("%s %q: disjoint %q: %q is not a bound variable: %w",
				kind, label, d.Label, d.B, ErrInvalidStatement)
		}
		a.disjoint = append(a.disjoint, d)
	}

	// Every bound variable must actually occur in a hypothesis or the
	// conclusion, otherwise it could never be unified during application.
	used := make(map[string]struct{})
	for _, h := range a.hyps {
		for _, tok := range h.tokens {
			if _, ok := a.vars[tok]; ok {
				used[tok] = struct{}{}
			}
		}
	}
	for _, tok := range a.conclusion {
		if _, ok := a.vars[tok]; ok {
			used[tok] = struct{}{}
		}
	}
	for v := range a.vars {
		if _, ok := used[v]; !ok {
			return nil, fmt.Errorf("%s %q: variable %q never used in hypotheses or conclusion: %w",
				kind, label, v, ErrInvalidStatement)
		}
	}

	a.proof = append(a.proof, stmt.Proof...)
	return a, nil
}

// checkLocalName ensures a statement-local name neither shadows the
// system namespace nor repeats within the statement, then claims it.
func (s *System) checkLocalName(local map[string]struct{}, name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidStatement)
	}
	if s.reg.Contains(name) {
		return formal.ErrDuplicateLabel
	}
	if _, ok := local[name]; ok {
		return formal.ErrDuplicateLabel
	}
	local[name] = struct{}{}
	return nil
}

// checkPattern tokenizes a pattern and verifies every token is either a
// system constant or one of the assertion's bound variables.
func (a *Assertion) checkPattern(s *System, pattern string) ([]string, error) {
	tokens := strings.Fields(pattern)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty pattern: %w", ErrInvalidStatement)
	}
	for _, tok := range tokens {
		if s.isConstant(tok) {
			continue
		}
		if _, ok := a.vars[tok]; ok {
			continue
		}
		return nil, fmt.Errorf("token %q is neither a constant nor a bound variable: %w",
			tok, formal.ErrNotFound)
	}
	return tokens, nil
}

func (s *System) isConstant(label string) bool {
	e, err := s.reg.Lookup(label)
	if err != nil {
		return false
	}
	_, ok := e.(*formal.Constant)
	return ok
}

// Constants returns the labels of all constants, unordered.
func (s *System) Constants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, label := range s.reg.Labels() {
		if s.isConstant(label) {
			out = append(out, label)
		}
	}
	return out
}

// Axioms returns axiom labels in declaration order.
func (s *System) Axioms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.axiomOrder))
	copy(out, s.axiomOrder)
	return out
}

// Theorems returns theorem labels in declaration order.
func (s *System) Theorems() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.theoremOrder))
	copy(out, s.theoremOrder)
	return out
}

// Assertion looks up an axiom or theorem by label.
func (s *System) Assertion(label string) (*Assertion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.axioms[label]; ok {
		return a, nil
	}
	if a, ok := s.theorems[label]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("assertion %q: %w", label, formal.ErrNotFound)
}

// Labels returns every axiom and theorem label, for similarity search.
func (s *System) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.axiomOrder)+len(s.theoremOrder))
	out = append(out, s.axiomOrder...)
	out = append(out, s.theoremOrder...)
	return out
}
