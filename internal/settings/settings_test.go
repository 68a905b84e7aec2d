package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestThemeFallsBackToDefault(t *testing.T) {
	m := NewManager(NewMemoryStore(), ThemeDark)

	if got := m.Theme(context.Background()); got != ThemeDark {
		t.Errorf("Expected default theme dark, got %q", got)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), ThemeLight)

	if err := m.SetTheme(ctx, ThemeDark); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if got := m.Theme(ctx); got != ThemeDark {
		t.Errorf("Expected dark after set, got %q", got)
	}
}

func TestSetThemeRejectsUnknownValue(t *testing.T) {
	m := NewManager(NewMemoryStore(), ThemeLight)

	if err := m.SetTheme(context.Background(), "solarized"); err == nil {
		t.Error("Expected error for unknown theme")
	}
}

func TestThemeIgnoresCorruptStoredValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Set(ctx, themeKey, "neon"); err != nil {
		t.Fatal(err)
	}

	m := NewManager(store, ThemeLight)
	if got := m.Theme(ctx); got != ThemeLight {
		t.Errorf("Expected fallback to light, got %q", got)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.json")

	s1 := NewFileStore(path)
	if err := s1.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	s2 := NewFileStore(path)
	v, err := s2.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "dark" {
		t.Errorf("Expected dark, got %q", v)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))

	if _, err := s.Get(context.Background(), "theme"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
