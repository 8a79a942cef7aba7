package pokedex

import "strings"

// FallbackTypeColor is used for types without a local color.
const FallbackTypeColor = "#68A090"

var typeColors = map[string]string{
	"normal":   "#A8A878",
	"fire":     "#F08030",
	"water":    "#6890F0",
	"electric": "#F8D030",
	"grass":    "#78C850",
	"ice":      "#98D8D8",
	"fighting": "#C03028",
	"poison":   "#A040A0",
	"ground":   "#E0C068",
	"flying":   "#A890F0",
	"psychic":  "#F85888",
	"bug":      "#A8B820",
	"rock":     "#B8A038",
	"ghost":    "#705898",
	"dragon":   "#7038F8",
	"dark":     "#705848",
	"steel":    "#B8B8D0",
	"fairy":    "#EE99AC",
}

// LocalTypeColor returns the locally defined color for a type, if any.
func LocalTypeColor(name string) (string, bool) {
	c, ok := typeColors[strings.ToLower(name)]
	return c, ok
}

// TypeColor returns the display color for a type, falling back to FallbackTypeColor.
func TypeColor(name string) string {
	if c, ok := LocalTypeColor(name); ok {
		return c
	}
	return FallbackTypeColor
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
