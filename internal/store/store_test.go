package store

import (
	"testing"
)

func TestSQLite_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get(KeyToken); err != nil || ok {
		t.Fatalf("Get on empty store = (%v, %v), want absent", ok, err)
	}

	if err := s.Set(KeyToken, "tok-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := s.Get(KeyToken)
	if err != nil || !ok || v != "tok-1" {
		t.Fatalf("Get = (%q, %v, %v), want tok-1", v, ok, err)
	}

	// Overwrite
	if err := s.Set(KeyToken, "tok-2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, _, _ = s.Get(KeyToken)
	if v != "tok-2" {
		t.Errorf("Get after overwrite = %q, want tok-2", v)
	}

	if err := s.Remove(KeyToken); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := s.Get(KeyToken); ok {
		t.Error("key should be absent after Remove")
	}

	// Removing an absent key is not an error
	if err := s.Remove("never-set"); err != nil {
		t.Errorf("Remove of absent key failed: %v", err)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Set(KeyGuestID, "g-42"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	s2, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	v, ok, err := s2.Get(KeyGuestID)
	if err != nil || !ok || v != "g-42" {
		t.Fatalf("Get after reopen = (%q, %v, %v), want g-42", v, ok, err)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	if _, ok, _ := m.Get(KeyToken); ok {
		t.Error("empty store should report absent")
	}
	if err := m.Set(KeyToken, "x"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, _ := m.Get(KeyToken)
	if !ok || v != "x" {
		t.Errorf("Get = (%q, %v)", v, ok)
	}
	if err := m.Remove(KeyToken); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := m.Get(KeyToken); ok {
		t.Error("key should be absent after Remove")
	}
}
