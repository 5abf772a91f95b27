package types

import "fmt"

// Theme is one of the fixed travel styles an itinerary can be built around.
type Theme string

const (
	ThemeCultural  Theme = "cultural"
	ThemeAdventure Theme = "adventure"
	ThemeFoodies   Theme = "foodies"
	ThemeFamily    Theme = "family"
	ThemeCouples   Theme = "couples"
	ThemeFriends   Theme = "friends"
)

// Themes lists every supported theme in a stable order.
func Themes() []Theme {
	return []Theme{
		ThemeCultural,
		ThemeAdventure,
		ThemeFoodies,
		ThemeFamily,
		ThemeCouples,
		ThemeFriends,
	}
}

// ParseTheme validates a raw theme string coming from a request.
func ParseTheme(raw string) (Theme, error) {
	switch Theme(raw) {
	case ThemeCultural, ThemeAdventure, ThemeFoodies, ThemeFamily, ThemeCouples, ThemeFriends:
		return Theme(raw), nil
	}
	return "", fmt.Errorf("unknown theme %q", raw)
}

func (t Theme) String() string { return string(t) }
