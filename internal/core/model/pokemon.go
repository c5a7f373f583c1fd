package model

// Pokemon is the enriched record served by the API and held in the cache.
// It is built once from a RawPokemon and never mutated afterwards.
type Pokemon struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Types      []string `json:"types"`
	Region     string   `json:"region"`
	Weaknesses []string `json:"weaknesses"` // Sorted; order carries no meaning
	Sprites    Sprites  `json:"sprites"`
	Height     int      `json:"height"`
	Weight     int      `json:"weight"`
	Stats      []Stat   `json:"stats"`
}

type Sprites struct {
	FrontDefault    string `json:"frontDefault"`
	BackDefault     string `json:"backDefault"`
	OfficialArtwork string `json:"officialArtwork"`
}

type Stat struct {
	Name     string `json:"name"`
	BaseStat int    `json:"baseStat"`
}

// TypeRelations lists, for one type, the attacking types that deal double,
// half and no damage to it.
type TypeRelations struct {
	Name             string   `json:"name"`
	DoubleDamageFrom []string `json:"double_damage_from"`
	HalfDamageFrom   []string `json:"half_damage_from"`
	NoDamageFrom     []string `json:"no_damage_from"`
}
