// Package loader reads Metamath-style formal system databases from YAML
// documents and builds verified proof.System values. Declaration order of
// axioms, theorems, and of typed/logical hypotheses is semantically
// significant (it fixes the stack matching order), so the loader walks
// yaml.Node values instead of decoding into Go maps.
package loader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	commonerrors "github.com/duynguyendang/formalmath/pkg/common/errors"
	"github.com/duynguyendang/formalmath/pkg/proof"
)

// Database is the decoded, order-preserving shape of a system file before
// validation.
type Database struct {
	Name        string
	Description string
	Constants   []string
	Axioms      []proof.Declaration
	Theorems    []proof.Declaration
}

// LoadFile reads and builds a formal system from a YAML file on disk.
func LoadFile(path string, opts ...proof.Option) (*proof.System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database %s: %w", path, err)
	}
	return Parse(data, opts...)
}

// Parse builds a formal system from a YAML document. Every theorem in the
// document is proof-checked during construction.
func Parse(data []byte, opts ...proof.Option) (*proof.System, error) {
	db, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if db.Name != "" {
		opts = append([]proof.Option{proof.WithName(db.Name)}, opts...)
	}
	sys, err := proof.NewSystem(db.Constants, db.Axioms, db.Theorems, opts...)
	if err != nil {
		return nil, fmt.Errorf("database %q: %w", db.Name, err)
	}
	return sys, nil
}

// Decode parses the YAML document into its order-preserving Database
// shape without building or verifying a system.
func Decode(data []byte) (*Database, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse database: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, fmt.Errorf("database must be a single YAML document: %w", commonerrors.ErrInvalidInput)
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("database root must be a mapping: %w", commonerrors.ErrInvalidInput)
	}

	db := &Database{}
	err := eachPair(top, func(key string, val *yaml.Node) error {
		switch key {
		case "name":
			return val.Decode(&db.Name)
		case "description":
			return val.Decode(&db.Description)
		case "constants":
			return val.Decode(&db.Constants)
		case "axioms":
			decls, err := decodeDeclarations(val, false)
			if err != nil {
				return fmt.Errorf("axioms: %w", err)
			}
			db.Axioms = decls
			return nil
		case "theorems":
			decls, err := decodeDeclarations(val, true)
			if err != nil {
				return fmt.Errorf("theorems: %w", err)
			}
			db.Theorems = decls
			return nil
		default:
			return fmt.Errorf("unknown database key %q: %w", key, commonerrors.ErrInvalidInput)
		}
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func decodeDeclarations(node *yaml.Node, theorem bool) ([]proof.Declaration, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of label to statement: %w", commonerrors.ErrInvalidInput)
	}
	var decls []proof.Declaration
	err := eachPair(node, func(label string, val *yaml.Node) error {
		stmt, err := decodeStatement(val, theorem)
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		decls = append(decls, proof.Declaration{Label: label, Stmt: stmt})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decls, nil
}

func decodeStatement(node *yaml.Node, theorem bool) (proof.Statement, error) {
	var stmt proof.Statement
	if node.Kind != yaml.MappingNode {
		return stmt, fmt.Errorf("statement must be a mapping: %w", commonerrors.ErrInvalidInput)
	}

	err := eachPair(node, func(key string, val *yaml.Node) error {
		switch key {
		case "d":
			return eachPair(val, func(label string, pair *yaml.Node) error {
				fields := strings.Fields(pair.Value)
				if len(fields) != 2 {
					return fmt.Errorf("disjoint %q must name two variables: %w", label, commonerrors.ErrInvalidInput)
				}
				stmt.Disjoint = append(stmt.Disjoint, proof.DisjointPair{
					Label: label, A: fields[0], B: fields[1],
				})
				return nil
			})
		case "t":
			return eachPair(val, func(label string, pat *yaml.Node) error {
				fields := strings.Fields(pat.Value)
				if len(fields) != 2 {
					return fmt.Errorf("typed hypothesis %q must be a typecode and one variable: %w",
						label, commonerrors.ErrInvalidInput)
				}
				stmt.Types = append(stmt.Types, proof.TypedHyp{
					Label: label, Typecode: fields[0], Var: fields[1],
				})
				return nil
			})
		case "h":
			return eachPair(val, func(label string, pat *yaml.Node) error {
				stmt.Hyps = append(stmt.Hyps, proof.Hypothesis{Label: label, Pattern: pat.Value})
				return nil
			})
		case "a":
			stmt.Assertion = val.Value
			return nil
		case "p":
			if !theorem {
				return fmt.Errorf("axiom carries a proof script: %w", commonerrors.ErrInvalidInput)
			}
			// Proof scripts may be a YAML sequence or a single
			// space-separated scalar, as in the classic format.
			if val.Kind == yaml.SequenceNode {
				return val.Decode(&stmt.Proof)
			}
			stmt.Proof = strings.Fields(val.Value)
			return nil
		default:
			return fmt.Errorf("unknown statement key %q: %w", key, commonerrors.ErrInvalidInput)
		}
	})
	if err != nil {
		return stmt, err
	}
	return stmt, nil
}

// eachPair walks a mapping node's key/value pairs in document order.
func eachPair(node *yaml.Node, fn func(key string, val *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping: %w", commonerrors.ErrInvalidInput)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
