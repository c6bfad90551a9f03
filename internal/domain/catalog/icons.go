package catalog

// Icon is the closed set of icon variants a category can be drawn with.
type Icon string

const (
	IconLayers   Icon = "layers"
	IconPalette  Icon = "palette"
	IconDatabase Icon = "database"
	IconSparkles Icon = "sparkles"
	IconShield   Icon = "shield"
	IconWrench   Icon = "wrench"
	IconPackage  Icon = "package"
)

// ValidIcons contains all valid icon values.
var ValidIcons = map[Icon]bool{
	IconLayers:   true,
	IconPalette:  true,
	IconDatabase: true,
	IconSparkles: true,
	IconShield:   true,
	IconWrench:   true,
	IconPackage:  true,
}

var categoryIcons = map[string]Icon{
	"frameworks": IconLayers,
	"ui":         IconPalette,
	"state":      IconDatabase,
	"animation":  IconSparkles,
	"auth":       IconShield,
	"devtools":   IconWrench,
	"utilities":  IconPackage,
}

var glyphs = map[Icon]string{
	IconLayers:   "▤",
	IconPalette:  "◐",
	IconDatabase: "◫",
	IconSparkles: "✦",
	IconShield:   "⛨",
	IconWrench:   "⚒",
	IconPackage:  "▣",
}

// IconFor resolves the icon of a category id. Unknown ids get IconPackage.
func IconFor(categoryID string) Icon {
	if icon, ok := categoryIcons[categoryID]; ok {
		return icon
	}
	return IconPackage
}

// Glyph returns a single-cell terminal symbol for the icon.
func (i Icon) Glyph() string {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return glyphs[IconPackage]
}
