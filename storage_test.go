package avoir

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRateStorageFreshInstall(t *testing.T) {
	s := NewFileRateStorage(t.TempDir())

	m, err := s.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsEmpty() {
		t.Errorf("missing file yielded a non-empty matrix: %v", m)
	}

	saved, err := s.LastSaved(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !saved.IsZero() {
		t.Errorf("missing file has a last-saved time: %v", saved)
	}
}

func TestFileRateStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m := seededMatrix(t, map[string]map[string]string{
		"EUR": {"USD": "1.08", "XAU": "0.00054", "addr:0xabc": "0.1"},
		"USD": {"EUR": "0.9259"},
	})

	before := time.Now()
	if err := NewFileRateStorage(dir).Save(ctx, m); err != nil {
		t.Fatal(err)
	}

	// a fresh storage over the same directory, like a process restart
	s := NewFileRateStorage(dir)
	got, err := s.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for base, quotes := range m {
		for quote, want := range quotes {
			r, ok := got.Get(base, quote)
			if !ok || !r.Equal(want) {
				t.Errorf("reloaded[%s][%s] = %v (ok=%v), want %v", base, quote, r, ok, want)
			}
		}
	}

	saved, err := s.LastSaved(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if saved.IsZero() || saved.Before(before.Truncate(time.Second)) {
		t.Errorf("last-saved time not persisted: %v", saved)
	}
}

func TestFileRateStorageSkipsCorruptEntries(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "last_saved": "2026-08-28T10:00:00Z",
  "rates": {
    "EUR": {"USD": "1.08", "BAD": "not-a-number"}
  }
}`
	if err := os.WriteFile(filepath.Join(dir, ratesFilename), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewFileRateStorage(dir).Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := m.Get("EUR", "USD"); !ok || got.String() != "1.08" {
		t.Errorf("valid entry lost next to a corrupt one: %v (ok=%v)", got, ok)
	}
	if _, ok := m.Get("EUR", "BAD"); ok {
		t.Error("corrupt entry reached the matrix")
	}
}

func TestFileRateStorageOverwrites(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s := NewFileRateStorage(dir)

	if err := s.Save(ctx, seededMatrix(t, map[string]map[string]string{"EUR": {"USD": "1.07"}})); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, seededMatrix(t, map[string]map[string]string{"EUR": {"USD": "1.08"}})); err != nil {
		t.Fatal(err)
	}

	m, err := NewFileRateStorage(dir).Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Get("EUR", "USD"); got.String() != "1.08" {
		t.Errorf("reloaded[EUR][USD] = %v, want the latest save 1.08", got)
	}
	if _, err := os.Stat(filepath.Join(dir, ratesFilename+".tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}
