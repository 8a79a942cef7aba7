package pokedex

import "strings"

// Range is an inclusive id range.
type Range struct {
	Start int
	End   int
}

// Contains reports whether id lies inside r.
func (r Range) Contains(id int) bool {
	return id >= r.Start && id <= r.End
}

// MaxID is the highest national dex id known to the generation table.
const MaxID = 1025

// generationRanges maps generation number to its national dex id range.
var generationRanges = map[int]Range{
	1: {1, 151},
	2: {152, 251},
	3: {252, 386},
	4: {387, 493},
	5: {494, 649},
	6: {650, 721},
	7: {722, 809},
	8: {810, 905},
	9: {906, 1025},
}

// Generations returns the number of known generations.
func Generations() int {
	return len(generationRanges)
}

// GenerationRange returns the id range of gen.
func GenerationRange(gen int) (Range, bool) {
	r, ok := generationRanges[gen]
	return r, ok
}

// GenerationFromID returns the generation an id belongs to, or 0 when the id
// is outside every range (alternate forms use ids above 10000).
func GenerationFromID(id int) int {
	for gen := 1; gen <= len(generationRanges); gen++ {
		if generationRanges[gen].Contains(id) {
			return gen
		}
	}
	return 0
}

var romanValues = map[byte]int{'i': 1, 'v': 5, 'x': 10}

// ParseGenerationName converts "generation-iv" to 4. Unknown names give 0.
func ParseGenerationName(name string) int {
	roman, ok := strings.CutPrefix(strings.ToLower(name), "generation-")
	if !ok || roman == "" {
		return 0
	}

	total := 0
	for i := 0; i < len(roman); i++ {
		v, ok := romanValues[roman[i]]
		if !ok {
			return 0
		}
		if i+1 < len(roman) && romanValues[roman[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}
