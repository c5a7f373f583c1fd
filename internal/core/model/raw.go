package model

// Wire shapes of the PokeAPI v2 resources we read. Substructures are
// pointers or slices so that an absent block decodes to nil and can be told
// apart from an empty one.

type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RawPokemon matches GET /pokemon/{id}.
type RawPokemon struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Types   []RawTypeSlot `json:"types"`
	Height  int           `json:"height"`
	Weight  int           `json:"weight"`
	Stats   []RawStat     `json:"stats"`
	Sprites *RawSprites   `json:"sprites"`
}

type RawTypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

type RawStat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

type RawSprites struct {
	FrontDefault *string          `json:"front_default"`
	BackDefault  *string          `json:"back_default"`
	Other        *RawOtherSprites `json:"other"`
}

type RawOtherSprites struct {
	OfficialArtwork *RawArtwork `json:"official-artwork"`
}

type RawArtwork struct {
	FrontDefault *string `json:"front_default"`
}

// RawType matches GET /type/{name}.
type RawType struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	DamageRelations *RawDamageRelations `json:"damage_relations"`
}

type RawDamageRelations struct {
	DoubleDamageFrom []NamedResource `json:"double_damage_from"`
	HalfDamageFrom   []NamedResource `json:"half_damage_from"`
	NoDamageFrom     []NamedResource `json:"no_damage_from"`
	DoubleDamageTo   []NamedResource `json:"double_damage_to"`
	HalfDamageTo     []NamedResource `json:"half_damage_to"`
	NoDamageTo       []NamedResource `json:"no_damage_to"`
}

// Relations flattens the incoming-damage half of a type's damage relations.
func (t *RawType) Relations() *TypeRelations {
	return &TypeRelations{
		Name:             t.Name,
		DoubleDamageFrom: names(t.DamageRelations.DoubleDamageFrom),
		HalfDamageFrom:   names(t.DamageRelations.HalfDamageFrom),
		NoDamageFrom:     names(t.DamageRelations.NoDamageFrom),
	}
}

func names(refs []NamedResource) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}
