package state

import (
	"context"
	"fmt"
)

// Theme is the page color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// GetTheme returns the saved theme. Unset or unknown values read as dark.
func GetTheme(ctx context.Context, s Interface) (Theme, error) {
	raw, ok, err := s.Get(ctx, KeyTheme)
	if err != nil || !ok {
		return ThemeDark, err
	}
	t, err := ParseTheme(raw)
	if err != nil {
		return ThemeDark, nil
	}
	return t, nil
}

// SetTheme persists t.
func SetTheme(ctx context.Context, s Interface, t Theme) error {
	return s.Set(ctx, KeyTheme, string(t))
}

// ToggleTheme flips the saved theme and returns the new one.
func ToggleTheme(ctx context.Context, s Interface) (Theme, error) {
	cur, err := GetTheme(ctx, s)
	if err != nil {
		return cur, err
	}
	next := cur.Toggle()
	return next, SetTheme(ctx, s, next)
}
