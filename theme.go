package main

import (
	"context"
	"strings"

	"github.com/bhuvan2018/Portfolio/internal/kv"
)

const (
	themeKey   = "theme"
	themeDark  = "dark"
	themeLight = "light"
)

// currentTheme returns the stored preference, falling back to the
// Sec-CH-Prefers-Color-Scheme client hint and then to light.
func currentTheme(ctx context.Context, profile kv.Store, hint string) string {
	if v, ok, err := profile.Get(ctx, themeKey); err == nil && ok && (v == themeDark || v == themeLight) {
		return v
	}
	if strings.EqualFold(strings.Trim(hint, `" `), themeDark) {
		return themeDark
	}
	return themeLight
}

// toggleTheme flips and stores the preference, returning the new theme.
func toggleTheme(ctx context.Context, profile kv.Store, hint string) (string, error) {
	next := themeDark
	if currentTheme(ctx, profile, hint) == themeDark {
		next = themeLight
	}
	if err := profile.Set(ctx, themeKey, next); err != nil {
		return currentTheme(ctx, profile, hint), err
	}
	return next, nil
}
