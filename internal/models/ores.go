package models

// DefaultOreColor is used for ores outside OreColors.
const DefaultOreColor = "#7f7f7f"

// Ores is the fixed series order of the character chart.
var Ores = []string{
	"Gleaming Spodumain",
	"Obsidian Ochre",
	"Crystalline Crokite",
	"Prismatic Gneiss",
	"Prime Arkonor",
	"Monoclinic Bistot",
	"Vitreous Mercoxit",
}

var OreColors = map[string]string{
	"Gleaming Spodumain":  "#b3b3b3",
	"Obsidian Ochre":      "#1a1a1a",
	"Crystalline Crokite": "#eeee33",
	"Prismatic Gneiss":    "#33ff33",
	"Prime Arkonor":       "#ff3333",
	"Monoclinic Bistot":   "#33ffff",
	"Vitreous Mercoxit":   "#ff9933",
}

func OreColor(name string) string {
	if c, ok := OreColors[name]; ok {
		return c
	}
	return DefaultOreColor
}
