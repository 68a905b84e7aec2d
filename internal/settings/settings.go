// Package settings persists the user's interface preferences. The only
// stored value today is the theme, read at startup and written on every
// change; everything goes through an injected Store so tests run against an
// in-memory fake.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log"
)

const themeKey = "theme"

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ErrNotFound is returned by stores when a key has never been written.
var ErrNotFound = errors.New("settings: key not found")

// Store is the persistence collaborator.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Manager resolves and persists preferences on top of a Store.
type Manager struct {
	store        Store
	defaultTheme string
}

func NewManager(store Store, defaultTheme string) *Manager {
	if defaultTheme != ThemeDark && defaultTheme != ThemeLight {
		defaultTheme = ThemeLight
	}
	return &Manager{store: store, defaultTheme: defaultTheme}
}

// Theme returns the persisted theme, falling back to the configured system
// default when the key is missing or holds an unknown value.
func (m *Manager) Theme(ctx context.Context) string {
	v, err := m.store.Get(ctx, themeKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[settings] read theme: %v", err)
		}
		return m.defaultTheme
	}
	if v != ThemeDark && v != ThemeLight {
		return m.defaultTheme
	}
	return v
}

// SetTheme persists the theme. Only "dark" and "light" are accepted.
func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("settings: unknown theme %q", theme)
	}
	return m.store.Set(ctx, themeKey, theme)
}
