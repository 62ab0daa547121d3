package formal

// Symbol is one terminal of the formal language: either a Constant or a
// Variable. The distinction is purely role based; both are plain labeled
// tokens, but substitution and disjointness checks only ever act on
// Variables.
type Symbol interface {
	Entity
	// IsVariable reports whether the symbol is substitutable.
	IsVariable() bool
}

// SymbolOption configures optional codes on a symbol at creation time.
type SymbolOption func(*symbolMeta)

type symbolMeta struct {
	shortCode    string
	externalCode string
}

// WithShortCode attaches a short code, unique registry-wide.
func WithShortCode(code string) SymbolOption {
	return func(m *symbolMeta) {
		m.shortCode = code
	}
}

// WithExternalCode attaches an external system identifier, unique
// registry-wide.
func WithExternalCode(code string) SymbolOption {
	return func(m *symbolMeta) {
		m.externalCode = code
	}
}

// Constant is a fixed terminal symbol (a connective, parenthesis, or
// typecode such as "wff" or "|-").
type Constant struct {
	label string
	meta  symbolMeta
}

// NewConstant creates and registers a constant.
func NewConstant(reg *Registry, label string, opts ...SymbolOption) (*Constant, error) {
	c := &Constant{label: label}
	for _, opt := range opts {
		opt(&c.meta)
	}
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Label returns the unique label.
func (c *Constant) Label() string { return c.label }

// ShortCode returns the optional short code.
func (c *Constant) ShortCode() string { return c.meta.shortCode }

// ExternalCode returns the optional external code.
func (c *Constant) ExternalCode() string { return c.meta.externalCode }

// IsVariable always returns false for constants.
func (c *Constant) IsVariable() bool { return false }

func (c *Constant) String() string { return c.label }

// Variable is a substitutable placeholder symbol.
type Variable struct {
	label string
	meta  symbolMeta
}

// NewVariable creates and registers a variable.
func NewVariable(reg *Registry, label string, opts ...SymbolOption) (*Variable, error) {
	v := &Variable{label: label}
	for _, opt := range opts {
		opt(&v.meta)
	}
	if err := reg.Register(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Label returns the unique label.
func (v *Variable) Label() string { return v.label }

// ShortCode returns the optional short code.
func (v *Variable) ShortCode() string { return v.meta.shortCode }

// ExternalCode returns the optional external code.
func (v *Variable) ExternalCode() string { return v.meta.externalCode }

// IsVariable always returns true for variables.
func (v *Variable) IsVariable() bool { return true }

func (v *Variable) String() string { return v.label }
