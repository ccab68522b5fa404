package entity

import "fmt"

// Session records whether a credential is held and how to label its owner.
type Session struct {
	Token          string
	PrincipalLabel string
}

// Authenticated reports token possession; the token is never inspected.
func (s Session) Authenticated() bool { return s.Token != "" }

// Theme is the display theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
