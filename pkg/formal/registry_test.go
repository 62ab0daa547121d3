package formal

import (
	"errors"
	"testing"
)

func TestRegistryUniqueness(t *testing.T) {
	reg := NewRegistry()

	if _, err := NewConstant(reg, "wff"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := NewConstant(reg, "wff"); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("expected ErrDuplicateLabel, got %v", err)
	}
	// A variable may not reuse a constant's label either
	if _, err := NewVariable(reg, "wff"); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("expected ErrDuplicateLabel across entity types, got %v", err)
	}
	if _, err := NewVariable(reg, "ph"); err != nil {
		t.Errorf("distinct label should register: %v", err)
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	c, err := NewConstant(reg, "|-")
	if err != nil {
		t.Fatal(err)
	}

	e, err := reg.Lookup("|-")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if e != Entity(c) {
		t.Error("lookup returned a different entity")
	}

	if _, err := reg.Lookup("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistryShortCodes(t *testing.T) {
	reg := NewRegistry()

	if _, err := NewConstant(reg, "implies", WithShortCode("->")); err != nil {
		t.Fatal(err)
	}
	// Short codes are their own uniqueness namespace
	if _, err := NewConstant(reg, "arrow", WithShortCode("->")); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("expected duplicate short code rejection, got %v", err)
	}
	if _, err := NewConstant(reg, "turnstile", WithShortCode("|-"), WithExternalCode("mm:|-")); err != nil {
		t.Errorf("distinct codes should register: %v", err)
	}
	if _, err := NewVariable(reg, "ext", WithExternalCode("mm:|-")); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("expected duplicate external code rejection, got %v", err)
	}

	e, err := reg.LookupShortCode("|-")
	if err != nil {
		t.Fatalf("short code lookup failed: %v", err)
	}
	if e.Label() != "turnstile" {
		t.Errorf("expected turnstile, got %s", e.Label())
	}
}

func TestRegistryIsolation(t *testing.T) {
	// Two registries are independent namespaces
	regA := NewRegistry()
	regB := NewRegistry()

	if _, err := NewConstant(regA, "wff"); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConstant(regB, "wff"); err != nil {
		t.Errorf("independent registry rejected label: %v", err)
	}
}
