package manager

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	commonerrors "github.com/duynguyendang/formalmath/pkg/common/errors"
	"github.com/duynguyendang/formalmath/pkg/proof"
)

const testDB = `
name: implication
description: A single-axiom test system
constants: [wff, "|-"]
axioms:
  id:
    t:
      wph: wff ph
    h:
      id.1: "|- ph"
    a: "|- ph"
theorems:
  same:
    t:
      wph: wff ph
    h:
      same.1: "|- ph"
    a: "|- ph"
    p: [wph, same.1, id]
`

func writeDB(t *testing.T, dir, id, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, id+".yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write database: %v", err)
	}
}

func TestGetSystem(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, "implication", testDB)

	sm := NewSystemManager(dir, 0)

	sys, err := sm.GetSystem("implication")
	if err != nil {
		t.Fatalf("GetSystem failed: %v", err)
	}
	if sys.Name() != "implication" {
		t.Errorf("expected system name %q, got %q", "implication", sys.Name())
	}

	// Second access must hit the cache and return the same instance.
	again, err := sm.GetSystem("implication")
	if err != nil {
		t.Fatalf("cached GetSystem failed: %v", err)
	}
	if again != sys {
		t.Error("expected cached system instance on second access")
	}
}

func TestGetSystemNotFound(t *testing.T) {
	sm := NewSystemManager(t.TempDir(), 0)

	_, err := sm.GetSystem("missing")
	if err == nil {
		t.Fatal("expected error for missing system")
	}
	if !errors.Is(err, commonerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetSystemBadDatabase(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, "broken", "constants: [wff]\nbogus: 1\n")

	sm := NewSystemManager(dir, 0)
	if _, err := sm.GetSystem("broken"); err == nil {
		t.Fatal("expected error for malformed database")
	}
}

func TestGetSystemStepLimit(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, "implication", testDB)

	// The test theorem needs 3 steps; a limit of 2 must reject the
	// database at load time since loading proof-checks every theorem.
	sm := NewSystemManager(dir, 2)
	_, err := sm.GetSystem("implication")
	if !errors.Is(err, proof.ErrStepLimitExceeded) {
		t.Errorf("expected ErrStepLimitExceeded, got %v", err)
	}
}

func TestListSystems(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, "implication", testDB)
	writeDB(t, dir, "bare", "constants: [wff]\n")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	sm := NewSystemManager(dir, 0)

	list, err := sm.ListSystems()
	if err != nil {
		t.Fatalf("ListSystems failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 systems, got %d", len(list))
	}

	byID := map[string]SystemMetadata{}
	for _, meta := range list {
		byID[meta.ID] = meta
	}
	if got := byID["implication"]; got.Name != "implication" || got.Description != "A single-axiom test system" {
		t.Errorf("unexpected metadata for implication: %+v", got)
	}
	if got := byID["bare"]; got.Name != "bare" || got.Description != "" {
		t.Errorf("unexpected metadata for bare: %+v", got)
	}
}

func TestListSystemsCached(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, "implication", testDB)

	sm := NewSystemManager(dir, 0)
	if _, err := sm.ListSystems(); err != nil {
		t.Fatalf("ListSystems failed: %v", err)
	}

	// A database added within the TTL window is not visible yet.
	writeDB(t, dir, "late", "constants: [wff]\n")
	list, err := sm.ListSystems()
	if err != nil {
		t.Fatalf("ListSystems failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected cached list of 1 system, got %d", len(list))
	}
}

func TestPurge(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, "implication", testDB)

	sm := NewSystemManager(dir, 0)
	first, err := sm.GetSystem("implication")
	if err != nil {
		t.Fatalf("GetSystem failed: %v", err)
	}

	sm.Purge()

	second, err := sm.GetSystem("implication")
	if err != nil {
		t.Fatalf("GetSystem after purge failed: %v", err)
	}
	if first == second {
		t.Error("expected a fresh instance after purge")
	}
}
