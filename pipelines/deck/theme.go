package deck

import (
	"log"

	"autodeck/common"
)

// Palette holds the resolved ARGB color tokens applied uniformly to a deck.
type Palette struct {
	Name       string
	Background string
	TitleText  string
	BodyText   string
	Accent     string
	Surface    string
	Footer     string
}

var palettes = map[string]Palette{
	"light": {
		Name:       "light",
		Background: "FFFFFFFF",
		TitleText:  "FF1E293B",
		BodyText:   "FF334155",
		Accent:     "FF3B82F6",
		Surface:    "FFF1F5F9",
		Footer:     "FF94A3B8",
	},
	"dark": {
		Name:       "dark",
		Background: "FF0F172A",
		TitleText:  "FFF8FAFC",
		BodyText:   "FFE2E8F0",
		Accent:     "FF38BDF8",
		Surface:    "FF1E293B",
		Footer:     "FF64748B",
	},
	"high-contrast": {
		Name:       "high-contrast",
		Background: "FF000000",
		TitleText:  "FFFFFFFF",
		BodyText:   "FFFFFFFF",
		Accent:     "FFFFD400",
		Surface:    "FF1A1A1A",
		Footer:     "FFCCCCCC",
	},
}

// ResolvePalette maps a palette name to its tokens. Unknown names fall back
// to the default palette rather than failing.
func ResolvePalette(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[common.DefaultPalette]
}

// ResolveTheme merges the default theme tokens with caller style overrides.
// Caller keys win; unknown keys pass through opaquely for downstream
// consumers. An unknown palette name is replaced by the default palette.
func ResolveTheme(stylePrefs map[string]string) map[string]string {
	theme := map[string]string{
		"font":    common.DefaultFont,
		"palette": common.DefaultPalette,
		"ratio":   common.AspectRatio,
	}
	for k, v := range stylePrefs {
		theme[k] = v
	}
	theme["ratio"] = common.AspectRatio

	if _, ok := palettes[theme["palette"]]; !ok {
		log.Printf("Warning: unknown palette %q, using %s", theme["palette"], common.DefaultPalette)
		theme["palette"] = common.DefaultPalette
	}
	return theme
}
