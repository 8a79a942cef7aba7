// Package entities defines the GORM models of the catalog cache.
//
//   - Pokemon: normalized Pokémon records keyed by national dex or form id
//   - Species: species projections keyed by the same id
//   - PokemonType: type names with display colors
//   - Favorite: (user, pokemon) pairs
//   - Profile: per-user display settings
//
// List-valued columns are stored as JSON via gorm.io/datatypes.
package entities
