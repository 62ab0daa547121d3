package proof

import "strings"

// Kind distinguishes axioms from theorems.
type Kind int

const (
	// KindAxiom assertions are accepted without proof.
	KindAxiom Kind = iota
	// KindTheorem assertions carry a proof script that must verify.
	KindTheorem
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindAxiom:
		return "axiom"
	case KindTheorem:
		return "theorem"
	default:
		return "unknown"
	}
}

// TypedHyp is one typed variable hypothesis: a typecode constant followed
// by a single bound variable, e.g. "wff ph".
type TypedHyp struct {
	Label    string
	Typecode string
	Var      string
}

// Hypothesis is one logical hypothesis: a pattern over constants and the
// assertion's bound variables, e.g. "|- ( ph -> ps )".
type Hypothesis struct {
	Label   string
	Pattern string
}

// DisjointPair declares two bound variables mutually disjoint: they may
// never be instantiated with expressions sharing a common variable.
type DisjointPair struct {
	Label string
	A     string
	B     string
}

// Statement is the raw, caller-supplied record describing an axiom or
// theorem. Types and Hyps are ordered; the order determines how stack
// items are matched when the assertion is applied in a proof.
type Statement struct {
	Disjoint  []DisjointPair
	Types     []TypedHyp
	Hyps      []Hypothesis
	Assertion string
	Proof     []string
}

// Declaration pairs a label with its statement for ordered construction.
type Declaration struct {
	Label string
	Stmt  Statement
}

type tokenizedHyp struct {
	label  string
	tokens []string
}

// Assertion is a validated axiom or theorem. Patterns are tokenized once
// at validation time; the value is immutable afterwards.
type Assertion struct {
	label      string
	kind       Kind
	disjoint   []DisjointPair
	types      []TypedHyp
	hyps       []tokenizedHyp
	conclusion []string
	proof      []string

	typedByLabel map[string]TypedHyp
	hypByLabel   map[string]tokenizedHyp
	vars         map[string]struct{}
}

// Label returns the assertion's unique label.
func (a *Assertion) Label() string { return a.label }

// Kind returns whether the assertion is an axiom or a theorem.
func (a *Assertion) Kind() Kind { return a.kind }

// Arity returns the number of stack items an application of this
// assertion consumes.
func (a *Assertion) Arity() int { return len(a.types) + len(a.hyps) }

// Conclusion returns the assertion's conclusion pattern.
func (a *Assertion) Conclusion() string { return strings.Join(a.conclusion, " ") }

// Proof returns a copy of the proof script; empty for axioms.
func (a *Assertion) Proof() []string {
	out := make([]string, len(a.proof))
	copy(out, a.proof)
	return out
}

// Types returns a copy of the ordered typed variable hypotheses.
func (a *Assertion) Types() []TypedHyp {
	out := make([]TypedHyp, len(a.types))
	copy(out, a.types)
	return out
}

// Hyps returns a copy of the ordered logical hypotheses.
func (a *Assertion) Hyps() []Hypothesis {
	out := make([]Hypothesis, len(a.hyps))
	for i, h := range a.hyps {
		out[i] = Hypothesis{Label: h.label, Pattern: strings.Join(h.tokens, " ")}
	}
	return out
}
