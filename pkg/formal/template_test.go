package formal

import (
	"errors"
	"testing"
)

// implication builds the template "( {p} -> {q} )" over fresh symbols.
func implication(t *testing.T) (*Registry, *FormulaTemplate) {
	t.Helper()
	reg, lp, rp, arrow, _, _ := testSymbols(t)
	tpl, err := NewTemplate(
		map[string]Kind{"p": KindFormula, "q": KindFormula},
		[]Token{Lit(lp), Ref("p"), Lit(arrow), Ref("q"), Lit(rp)},
	)
	if err != nil {
		t.Fatal(err)
	}
	return reg, tpl
}

func mustFormula(t *testing.T, reg *Registry, label string, terms ...Term) *Formula {
	t.Helper()
	f, err := NewFormula(reg, label, terms...)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestTemplateInvariant(t *testing.T) {
	reg := NewRegistry()
	c, err := NewConstant(reg, "-.")
	if err != nil {
		t.Fatal(err)
	}

	// Undeclared parameter in body
	if _, err := NewTemplate(nil, []Token{Ref("x")}); !errors.Is(err, ErrInvalidBody) {
		t.Errorf("expected ErrInvalidBody for undeclared ref, got %v", err)
	}
	// Declared parameter never referenced
	if _, err := NewTemplate(map[string]Kind{"x": KindFormula}, []Token{Lit(c)}); !errors.Is(err, ErrInvalidBody) {
		t.Errorf("expected ErrInvalidBody for unused param, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	reg, tpl := implication(t)

	ph, _ := reg.Lookup("ph")
	ps, _ := reg.Lookup("ps")
	fph := mustFormula(t, reg, "fph", ph.(*Variable))
	fps := mustFormula(t, reg, "fps", ps.(*Variable))

	got, err := tpl.Generate(map[string]*Formula{"p": fph, "q": fps})
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "( ph -> ps )" {
		t.Errorf("unexpected generated sequence: %q", got.String())
	}
	// The result is transient: unlabeled and unregistered
	if got.Label() != "" {
		t.Errorf("generated formula must be unlabeled, got %q", got.Label())
	}
	if reg.Contains("( ph -> ps )") {
		t.Error("generated formula must not be registered")
	}

	// Parameter substitution splices whole sequences in place
	nested, err := tpl.Generate(map[string]*Formula{"p": got, "q": fph})
	if err != nil {
		t.Fatal(err)
	}
	if nested.String() != "( ( ph -> ps ) -> ph )" {
		t.Errorf("unexpected nested sequence: %q", nested.String())
	}
}

func TestGenerateBindingErrors(t *testing.T) {
	reg, tpl := implication(t)
	ph, _ := reg.Lookup("ph")
	fph := mustFormula(t, reg, "fph", ph.(*Variable))

	if _, err := tpl.Generate(map[string]*Formula{"p": fph}); !errors.Is(err, ErrMissingBinding) {
		t.Errorf("expected ErrMissingBinding, got %v", err)
	}
	if _, err := tpl.Generate(map[string]*Formula{"p": fph, "q": fph, "r": fph}); !errors.Is(err, ErrUnknownBinding) {
		t.Errorf("expected ErrUnknownBinding, got %v", err)
	}

	// A template-kind parameter cannot be satisfied by a formula
	neg, err := NewConstant(reg, "-.")
	if err != nil {
		t.Fatal(err)
	}
	tktpl, err := NewTemplate(map[string]Kind{"s": KindTemplate}, []Token{Lit(neg), Ref("s")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tktpl.Generate(map[string]*Formula{"s": fph}); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch, got %v", err)
	}
}

func TestGenerateTemplateKindMismatch(t *testing.T) {
	reg, tpl := implication(t)
	ph, _ := reg.Lookup("ph")
	fph := mustFormula(t, reg, "fph", ph.(*Variable))

	neg, err := NewConstant(reg, "-.")
	if err != nil {
		t.Fatal(err)
	}
	tktpl, err := NewTemplate(map[string]Kind{"s": KindTemplate}, []Token{Lit(neg), Ref("s")})
	if err != nil {
		t.Fatal(err)
	}

	// A formula cannot satisfy a template-kind parameter
	_, err = tktpl.GenerateTemplate(map[string]TemplateArg{"s": fph})
	if !errors.Is(err, ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch for formula bound to template param, got %v", err)
	}

	// Nor a template a formula-kind parameter
	_, err = tpl.GenerateTemplate(map[string]TemplateArg{"p": tktpl, "q": RenameTo("q")})
	if !errors.Is(err, ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch for template bound to formula param, got %v", err)
	}
}

func TestGenerateTemplateRename(t *testing.T) {
	_, tpl := implication(t)

	renamed, err := tpl.GenerateTemplate(map[string]TemplateArg{
		"p": RenameTo("x"),
		"q": RenameTo("y"),
	})
	if err != nil {
		t.Fatal(err)
	}

	params := renamed.Params()
	if len(params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(params))
	}
	if params["x"] != KindFormula || params["y"] != KindFormula {
		t.Errorf("renamed params must keep their kind: %v", params)
	}
	if renamed.String() != "( {x} -> {y} )" {
		t.Errorf("unexpected body: %q", renamed.String())
	}
}

func TestGenerateTemplateFormulaSplice(t *testing.T) {
	reg, tpl := implication(t)
	ph, _ := reg.Lookup("ph")
	fph := mustFormula(t, reg, "fph", ph.(*Variable))

	partial, err := tpl.GenerateTemplate(map[string]TemplateArg{
		"p": fph,
		"q": RenameTo("q"),
	})
	if err != nil {
		t.Fatal(err)
	}

	// The spliced parameter is substituted away
	params := partial.Params()
	if _, ok := params["p"]; ok {
		t.Error("formula-bound parameter must be removed")
	}
	if partial.String() != "( ph -> {q} )" {
		t.Errorf("unexpected body: %q", partial.String())
	}
}

func TestGenerateTemplateNested(t *testing.T) {
	reg, tpl := implication(t)
	turnstile, err := NewConstant(reg, "|-")
	if err != nil {
		t.Fatal(err)
	}

	outer, err := NewTemplate(map[string]Kind{"s": KindTemplate}, []Token{Lit(turnstile), Ref("s")})
	if err != nil {
		t.Fatal(err)
	}

	composed, err := outer.GenerateTemplate(map[string]TemplateArg{"s": tpl})
	if err != nil {
		t.Fatal(err)
	}
	// The sub-template's body splices in place and its params merge in
	if composed.String() != "|- ( {p} -> {q} )" {
		t.Errorf("unexpected body: %q", composed.String())
	}
	params := composed.Params()
	if params["p"] != KindFormula || params["q"] != KindFormula {
		t.Errorf("sub-template params must merge: %v", params)
	}
}

func TestGenerateTemplateTypeConflict(t *testing.T) {
	reg := NewRegistry()
	neg, err := NewConstant(reg, "-.")
	if err != nil {
		t.Fatal(err)
	}

	pair, err := NewTemplate(
		map[string]Kind{"a": KindTemplate, "b": KindTemplate},
		[]Token{Ref("a"), Ref("b")},
	)
	if err != nil {
		t.Fatal(err)
	}
	subFormula, err := NewTemplate(map[string]Kind{"x": KindFormula}, []Token{Lit(neg), Ref("x")})
	if err != nil {
		t.Fatal(err)
	}
	subTemplate, err := NewTemplate(map[string]Kind{"x": KindTemplate}, []Token{Lit(neg), Ref("x")})
	if err != nil {
		t.Fatal(err)
	}

	// Same contributed name, different kinds
	_, err = pair.GenerateTemplate(map[string]TemplateArg{"a": subFormula, "b": subTemplate})
	if !errors.Is(err, ErrTypeConflict) {
		t.Errorf("expected ErrTypeConflict, got %v", err)
	}

	// Same contributed name, same kind: unify into a single parameter
	unified, err := pair.GenerateTemplate(map[string]TemplateArg{"a": subFormula, "b": subFormula})
	if err != nil {
		t.Fatal(err)
	}
	if len(unified.Params()) != 1 {
		t.Errorf("expected unified single param, got %v", unified.Params())
	}
	if unified.String() != "-. {x} -. {x}" {
		t.Errorf("unexpected body: %q", unified.String())
	}
}

func TestCompositionConsistency(t *testing.T) {
	reg, tpl := implication(t)
	ph, _ := reg.Lookup("ph")
	ps, _ := reg.Lookup("ps")
	fph := mustFormula(t, reg, "fph", ph.(*Variable))
	fps := mustFormula(t, reg, "fps", ps.(*Variable))

	// generate_template then generate must equal the composed
	// substitution applied directly
	renamed, err := tpl.GenerateTemplate(map[string]TemplateArg{
		"p": RenameTo("x"),
		"q": RenameTo("y"),
	})
	if err != nil {
		t.Fatal(err)
	}
	viaRename, err := renamed.Generate(map[string]*Formula{"x": fph, "y": fps})
	if err != nil {
		t.Fatal(err)
	}
	direct, err := tpl.Generate(map[string]*Formula{"p": fph, "q": fps})
	if err != nil {
		t.Fatal(err)
	}
	if !viaRename.Equal(direct) {
		t.Errorf("rename-then-generate %q != direct generate %q", viaRename, direct)
	}

	// Partial splice then completion agrees as well
	partial, err := tpl.GenerateTemplate(map[string]TemplateArg{
		"p": fph,
		"q": RenameTo("q"),
	})
	if err != nil {
		t.Fatal(err)
	}
	viaSplice, err := partial.Generate(map[string]*Formula{"q": fps})
	if err != nil {
		t.Fatal(err)
	}
	if !viaSplice.Equal(direct) {
		t.Errorf("splice-then-generate %q != direct generate %q", viaSplice, direct)
	}
}
