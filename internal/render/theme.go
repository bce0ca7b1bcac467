package render

import (
	"log/slog"
	"strings"

	darkmode "github.com/thiagokokada/dark-mode-go"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

// ParseThemePreference accepts auto, light and dark, case-insensitively.
func ParseThemePreference(raw string) (ThemePreference, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", ThemeAuto.String():
		return ThemeAuto, true
	case ThemeLight.String():
		return ThemeLight, true
	case ThemeDark.String():
		return ThemeDark, true
	default:
		return ThemeAuto, false
	}
}

// Palette holds the terminal colors for one theme. ChromaStyle names the
// syntax highlighting style used for diff bodies.
type Palette struct {
	Name        string
	ChromaStyle string
	Hash        string
	Meta        string
	DiffAdd     string
	DiffDel     string
	DiffHeader  string
	DiffHunk    string
}

var (
	lightPalette = Palette{
		Name:        "light",
		ChromaStyle: "github",
		Hash:        "#b08800",
		Meta:        "#586069",
		DiffAdd:     "#22863a",
		DiffDel:     "#cb2431",
		DiffHeader:  "#24292e",
		DiffHunk:    "#6f42c1",
	}
	darkPalette = Palette{
		Name:        "dark",
		ChromaStyle: "github-dark",
		Hash:        "#ffdf5d",
		Meta:        "#959da5",
		DiffAdd:     "#85e89d",
		DiffDel:     "#f97583",
		DiffHeader:  "#e1e4e8",
		DiffHunk:    "#b392f0",
	}
	detectDarkMode = darkmode.IsDarkMode
)

func (p Palette) IsDark() bool {
	return p.Name == darkPalette.Name
}

// PaletteFor resolves a preference to a palette, asking the desktop for
// its color scheme when the preference is ThemeAuto.
func PaletteFor(pref ThemePreference) Palette {
	switch pref {
	case ThemeDark:
		return darkPalette
	case ThemeLight:
		return lightPalette
	default:
		if detectDarkMode != nil {
			dark, err := detectDarkMode()
			if err != nil {
				slog.Debug("detect dark mode", slog.Any("error", err))
			} else if dark {
				return darkPalette
			}
		}
		return lightPalette
	}
}
