package credstore

import (
	"errors"
	"testing"
)

func TestFileStore_SetGetDelete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if _, err := s.Get("upstox-access-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty store = %v, want ErrNotFound", err)
	}

	if err := s.Set("upstox-access-token", "tok-123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get("upstox-access-token")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "tok-123" {
		t.Errorf("Get = %q, want tok-123", got)
	}

	if err := s.Delete("upstox-access-token"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get("upstox-access-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.Set("fyers-refresh-token", "r-456"); err != nil {
		t.Fatal(err)
	}

	s2, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s2.Get("fyers-refresh-token")
	if err != nil {
		t.Fatalf("Get from second instance failed: %v", err)
	}
	if got != "r-456" {
		t.Errorf("Get = %q, want r-456", got)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()

	if err := m.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get("k")
	if err != nil || got != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := m.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}

	boom := errors.New("keyring locked")
	m.SetGetError(boom)
	if _, err := m.Get("k"); !errors.Is(err, boom) {
		t.Errorf("Get with injected error = %v, want %v", err, boom)
	}
}
