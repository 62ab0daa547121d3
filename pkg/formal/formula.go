package formal

import (
	"fmt"
	"strings"
)

// Term is anything that can appear in a Formula under construction: a
// single Symbol or a previously built Formula whose symbols are spliced in.
type Term interface {
	termSymbols() []Symbol
}

func (c *Constant) termSymbols() []Symbol { return []Symbol{c} }
func (v *Variable) termSymbols() []Symbol { return []Symbol{v} }

// Formula is an ordered, non-empty sequence of symbols. Nested formulas
// are flattened eagerly at construction; no tree structure is retained.
// Two formulas are interchangeable whenever their symbol sequences are
// identical, independent of label.
type Formula struct {
	label string
	syms  []Symbol
}

// NewFormula builds a formula from the given terms, flattening nested
// formulas in order, and registers it under label.
func NewFormula(reg *Registry, label string, terms ...Term) (*Formula, error) {
	f, err := newFormula(label, terms...)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// newFormula builds a formula without registering it. Template generation
// uses this for transient results.
func newFormula(label string, terms ...Term) (*Formula, error) {
	var syms []Symbol
	for _, t := range terms {
		syms = append(syms, t.termSymbols()...)
	}
	if len(syms) == 0 {
		return nil, fmt.Errorf("formula %q: %w", label, ErrEmptyFormula)
	}
	return &Formula{label: label, syms: syms}, nil
}

func (f *Formula) termSymbols() []Symbol { return f.syms }

// Label returns the formula's label. Transient formulas produced by
// template generation have an empty label.
func (f *Formula) Label() string { return f.label }

// Symbols returns a copy of the symbol sequence.
func (f *Formula) Symbols() []Symbol {
	out := make([]Symbol, len(f.syms))
	copy(out, f.syms)
	return out
}

// Len returns the number of symbols.
func (f *Formula) Len() int { return len(f.syms) }

// Tokens returns the symbol labels in order.
func (f *Formula) Tokens() []string {
	out := make([]string, len(f.syms))
	for i, s := range f.syms {
		out[i] = s.Label()
	}
	return out
}

// String renders the formula as its space-separated symbol labels, the
// same surface syntax assertion patterns use.
func (f *Formula) String() string {
	return strings.Join(f.Tokens(), " ")
}

// Equal reports structural equality: same symbol labels with the same
// constant/variable tags, position by position. Labels of the formulas
// themselves are ignored.
func (f *Formula) Equal(other *Formula) bool {
	if other == nil || len(f.syms) != len(other.syms) {
		return false
	}
	for i, s := range f.syms {
		o := other.syms[i]
		if s.Label() != o.Label() || s.IsVariable() != o.IsVariable() {
			return false
		}
	}
	return true
}

// FormulaVariable is a formula whose symbol sequence is exactly one
// element: itself, acting as an atomic placeholder usable inside larger
// formulas and templates.
type FormulaVariable struct {
	Formula
}

// NewFormulaVariable creates and registers a formula variable.
func NewFormulaVariable(reg *Registry, label string) (*FormulaVariable, error) {
	fv := &FormulaVariable{Formula: Formula{label: label}}
	fv.syms = []Symbol{fv}
	if err := reg.Register(fv); err != nil {
		return nil, err
	}
	return fv, nil
}

// IsVariable always returns true; a formula variable stands for an
// arbitrary formula.
func (fv *FormulaVariable) IsVariable() bool { return true }
