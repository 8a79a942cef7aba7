package pokeapi

// Payload types mirror the PokéAPI v2 documents loosely: everything the
// upstream may omit is a pointer or a slice so that partial documents decode
// cleanly. Conversion into strict records happens in package pokedex.

// NamedResource is the {name, url} reference used throughout PokéAPI.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Pokemon is the /pokemon/{id} document.
type Pokemon struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Height         *int           `json:"height"`
	Weight         *int           `json:"weight"`
	BaseExperience *int           `json:"base_experience"`
	IsDefault      bool           `json:"is_default"`
	Types          []PokemonType  `json:"types"`
	Abilities      []AbilitySlot  `json:"abilities"`
	Stats          []StatValue    `json:"stats"`
	Sprites        *Sprites       `json:"sprites"`
	Moves          []MoveSlot     `json:"moves"`
	Species        *NamedResource `json:"species"`
}

type PokemonType struct {
	Slot int            `json:"slot"`
	Type *NamedResource `json:"type"`
}

type AbilitySlot struct {
	Ability  *NamedResource `json:"ability"`
	IsHidden bool           `json:"is_hidden"`
	Slot     int            `json:"slot"`
}

type StatValue struct {
	BaseStat *int           `json:"base_stat"`
	Effort   *int           `json:"effort"`
	Stat     *NamedResource `json:"stat"`
}

type MoveSlot struct {
	Move *NamedResource `json:"move"`
}

// Sprites holds the image URLs we keep; the upstream document has many more.
type Sprites struct {
	FrontDefault *string       `json:"front_default"`
	FrontShiny   *string       `json:"front_shiny"`
	Other        *OtherSprites `json:"other"`
}

type OtherSprites struct {
	OfficialArtwork *ArtworkSprites `json:"official-artwork"`
}

type ArtworkSprites struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
}

// Species is the /pokemon-species/{id} document.
type Species struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	FlavorTextEntries []FlavorTextEntry `json:"flavor_text_entries"`
	Genera            []Genus           `json:"genera"`
	CaptureRate       *int              `json:"capture_rate"`
	BaseHappiness     *int              `json:"base_happiness"`
	GrowthRate        *NamedResource    `json:"growth_rate"`
	Habitat           *NamedResource    `json:"habitat"`
	EvolutionChain    *APIResource      `json:"evolution_chain"`
	Generation        *NamedResource    `json:"generation"`
	Varieties         []Variety         `json:"varieties"`
}

// APIResource is an unnamed reference such as evolution_chain.
type APIResource struct {
	URL string `json:"url"`
}

type FlavorTextEntry struct {
	FlavorText string         `json:"flavor_text"`
	Language   *NamedResource `json:"language"`
	Version    *NamedResource `json:"version"`
}

type Genus struct {
	Genus    string         `json:"genus"`
	Language *NamedResource `json:"language"`
}

type Variety struct {
	IsDefault bool           `json:"is_default"`
	Pokemon   *NamedResource `json:"pokemon"`
}

// TypeList is the paginated /type listing.
type TypeList struct {
	Count   int             `json:"count"`
	Results []NamedResource `json:"results"`
}

// Pokedex is a regional dex (/pokedex/{name}), reduced to its entries.
type Pokedex struct {
	ID      int
	Name    string
	Entries []PokedexEntry
}

type PokedexEntry struct {
	EntryNumber int
	SpeciesName string
	SpeciesURL  string
}
