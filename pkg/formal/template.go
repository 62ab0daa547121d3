package formal

import (
	"fmt"
	"strings"
)

// Kind is the expected kind of a template parameter.
type Kind int

const (
	// KindFormula parameters accept a concrete Formula.
	KindFormula Kind = iota
	// KindTemplate parameters accept another FormulaTemplate.
	KindTemplate
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindFormula:
		return "formula"
	case KindTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Token is one element of a template body: either a literal symbol or a
// reference to a declared parameter.
type Token struct {
	ref string // parameter name when non-empty
	lit Symbol // literal symbol otherwise
}

// Lit makes a literal token from a single symbol.
func Lit(s Symbol) Token { return Token{lit: s} }

// Ref makes a parameter-reference token.
func Ref(name string) Token { return Token{ref: name} }

// Splice expands a formula into literal tokens, one per symbol.
func Splice(f *Formula) []Token {
	out := make([]Token, f.Len())
	for i, s := range f.syms {
		out[i] = Token{lit: s}
	}
	return out
}

// IsRef reports whether the token references a parameter, returning the
// parameter name when it does.
func (t Token) IsRef() (string, bool) { return t.ref, t.ref != "" }

// Symbol returns the literal symbol of a non-reference token, or nil.
func (t Token) Symbol() Symbol { return t.lit }

// FormulaTemplate is a parameterized formula skeleton: a mapping from
// parameter name to expected kind plus an ordered body of tokens. Every
// parameter appearing in the body is declared and vice versa. Templates
// are immutable; Generate and GenerateTemplate return new values.
type FormulaTemplate struct {
	params map[string]Kind
	body   []Token
}

// NewTemplate builds a template and checks the parameter/body invariant.
func NewTemplate(params map[string]Kind, body []Token) (*FormulaTemplate, error) {
	t := &FormulaTemplate{
		params: make(map[string]Kind, len(params)),
		body:   make([]Token, len(body)),
	}
	for name, kind := range params {
		t.params[name] = kind
	}
	copy(t.body, body)
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *FormulaTemplate) validate() error {
	referenced := make(map[string]bool, len(t.params))
	for _, tok := range t.body {
		if name, ok := tok.IsRef(); ok {
			if _, declared := t.params[name]; !declared {
				return fmt.Errorf("body references undeclared parameter %q: %w", name, ErrInvalidBody)
			}
			referenced[name] = true
			continue
		}
		if tok.lit == nil {
			return fmt.Errorf("nil literal token: %w", ErrInvalidBody)
		}
	}
	for name := range t.params {
		if !referenced[name] {
			return fmt.Errorf("parameter %q never referenced in body: %w", name, ErrInvalidBody)
		}
	}
	return nil
}

// Params returns a copy of the parameter mapping.
func (t *FormulaTemplate) Params() map[string]Kind {
	out := make(map[string]Kind, len(t.params))
	for name, kind := range t.params {
		out[name] = kind
	}
	return out
}

// Body returns a copy of the body tokens.
func (t *FormulaTemplate) Body() []Token {
	out := make([]Token, len(t.body))
	copy(out, t.body)
	return out
}

// String renders the body with parameter references in braces, for
// diagnostics only.
func (t *FormulaTemplate) String() string {
	parts := make([]string, len(t.body))
	for i, tok := range t.body {
		if name, ok := tok.IsRef(); ok {
			parts[i] = "{" + name + "}"
			continue
		}
		parts[i] = tok.lit.Label()
	}
	return strings.Join(parts, " ")
}

// Generate instantiates the template with a complete, kind-correct set of
// formula bindings and returns a new transient (unlabeled, unregistered)
// formula: the body with each parameter reference replaced in place by the
// bound formula's symbols.
func (t *FormulaTemplate) Generate(bindings map[string]*Formula) (*Formula, error) {
	for name := range bindings {
		if _, ok := t.params[name]; !ok {
			return nil, fmt.Errorf("generate: %q: %w", name, ErrUnknownBinding)
		}
	}
	for name, kind := range t.params {
		f, ok := bindings[name]
		if !ok || f == nil {
			return nil, fmt.Errorf("generate: %q: %w", name, ErrMissingBinding)
		}
		if kind != KindFormula {
			return nil, fmt.Errorf("generate: %q expects %s, got formula: %w", name, kind, ErrKindMismatch)
		}
	}

	var syms []Symbol
	for _, tok := range t.body {
		if name, ok := tok.IsRef(); ok {
			syms = append(syms, bindings[name].syms...)
			continue
		}
		syms = append(syms, tok.lit)
	}
	if len(syms) == 0 {
		return nil, ErrEmptyFormula
	}
	return &Formula{syms: syms}, nil
}

// TemplateArg is one binding value for GenerateTemplate: a parameter
// rename, a formula to splice literally, or a sub-template to compose.
type TemplateArg interface {
	isTemplateArg()
}

type renameArg struct{ name string }

func (renameArg) isTemplateArg()        {}
func (*Formula) isTemplateArg()         {}
func (*FormulaTemplate) isTemplateArg() {}

// RenameTo binds a parameter to a new name, keeping its expected kind.
func RenameTo(name string) TemplateArg { return renameArg{name: name} }

// GenerateTemplate composes the template with a complete set of bindings
// and returns a new template. Renames keep a parameter under a new name;
// formula bindings splice symbols and drop the parameter; template
// bindings splice the sub-template's body and merge its parameters.
// Parameters that collide after merging must agree on kind, otherwise the
// call fails with ErrTypeConflict; agreeing parameters unify.
func (t *FormulaTemplate) GenerateTemplate(bindings map[string]TemplateArg) (*FormulaTemplate, error) {
	for name := range bindings {
		if _, ok := t.params[name]; !ok {
			return nil, fmt.Errorf("generate template: %q: %w", name, ErrUnknownBinding)
		}
	}
	for name, kind := range t.params {
		arg, ok := bindings[name]
		if !ok || arg == nil {
			return nil, fmt.Errorf("generate template: %q: %w", name, ErrMissingBinding)
		}
		switch arg.(type) {
		case *Formula:
			if kind != KindFormula {
				return nil, fmt.Errorf("generate template: %q expects %s, got formula: %w", name, kind, ErrKindMismatch)
			}
		case *FormulaTemplate:
			if kind != KindTemplate {
				return nil, fmt.Errorf("generate template: %q expects %s, got template: %w", name, kind, ErrKindMismatch)
			}
		}
	}

	merged := make(map[string]Kind)
	contribute := func(name string, kind Kind) error {
		if existing, ok := merged[name]; ok && existing != kind {
			return fmt.Errorf("generate template: parameter %q is both %s and %s: %w",
				name, existing, kind, ErrTypeConflict)
		}
		merged[name] = kind
		return nil
	}

	var body []Token
	for _, tok := range t.body {
		name, ok := tok.IsRef()
		if !ok {
			body = append(body, tok)
			continue
		}
		switch arg := bindings[name].(type) {
		case renameArg:
			body = append(body, Ref(arg.name))
			if err := contribute(arg.name, t.params[name]); err != nil {
				return nil, err
			}
		case *Formula:
			body = append(body, Splice(arg)...)
		case *FormulaTemplate:
			body = append(body, arg.body...)
			for subName, subKind := range arg.params {
				if err := contribute(subName, subKind); err != nil {
					return nil, err
				}
			}
		}
	}

	return NewTemplate(merged, body)
}
