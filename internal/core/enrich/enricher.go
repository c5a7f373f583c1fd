// Package enrich turns raw catalog records into the Pokemon served by the
// API, deriving region and weaknesses on the way. It holds no state and knows
// nothing about caching; type relations are read through a RelationsSource.
package enrich

import (
	"context"
	"log"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/agenthands/pokedex/internal/core/model"
	"github.com/agenthands/pokedex/internal/errs"
)

// RelationsSource returns the incoming damage relations of one type.
type RelationsSource interface {
	FetchTypeRelations(ctx context.Context, name string) (*model.TypeRelations, error)
}

// RelationsFunc adapts a plain function, such as a cache's GetOrFetch, to a
// RelationsSource.
type RelationsFunc func(ctx context.Context, name string) (*model.TypeRelations, error)

func (f RelationsFunc) FetchTypeRelations(ctx context.Context, name string) (*model.TypeRelations, error) {
	return f(ctx, name)
}

type Enricher struct {
	Relations RelationsSource
}

func NewEnricher(relations RelationsSource) *Enricher {
	return &Enricher{Relations: relations}
}

// Enrich builds a Pokemon from raw. It fails with a Mapping error when raw
// is nil, has an empty name, or lacks its types, stats or sprites blocks.
// Relation lookups that fail are skipped; they never fail the call.
func (e *Enricher) Enrich(ctx context.Context, raw *model.RawPokemon) (model.Pokemon, error) {
	if raw == nil {
		return model.Pokemon{}, errs.Mapping("no pokemon record to map")
	}
	if raw.Name == "" {
		return model.Pokemon{}, errs.Mapping("pokemon %d: empty name", raw.ID)
	}
	if raw.Types == nil {
		return model.Pokemon{}, errs.Mapping("pokemon %d: missing types", raw.ID)
	}
	if raw.Stats == nil {
		return model.Pokemon{}, errs.Mapping("pokemon %d: missing stats", raw.ID)
	}
	sprites, err := mapSprites(raw)
	if err != nil {
		return model.Pokemon{}, err
	}

	types := make([]string, 0, len(raw.Types))
	for _, slot := range raw.Types {
		types = append(types, slot.Type.Name)
	}

	stats := make([]model.Stat, 0, len(raw.Stats))
	for _, s := range raw.Stats {
		stats = append(stats, model.Stat{Name: s.Stat.Name, BaseStat: s.BaseStat})
	}

	return model.Pokemon{
		ID:         raw.ID,
		Name:       CapitalizeName(raw.Name),
		Types:      types,
		Region:     Region(raw.ID),
		Weaknesses: e.Weaknesses(ctx, types),
		Sprites:    sprites,
		Height:     raw.Height,
		Weight:     raw.Weight,
		Stats:      stats,
	}, nil
}

// Weaknesses returns every attacking type whose combined multiplier against
// types is strictly greater than 1. Each distinct type is looked up once, in
// order. A no-damage relation pins the multiplier at 0: zero is absorbing, so
// no double or half relation from another of the types can lift it again.
// The result is sorted and never nil.
func (e *Enricher) Weaknesses(ctx context.Context, types []string) []string {
	multipliers := make(map[string]float64)
	seen := make(map[string]bool, len(types))

	for _, t := range types {
		if seen[t] {
			continue
		}
		seen[t] = true

		rel, err := e.Relations.FetchTypeRelations(ctx, t)
		if err != nil {
			log.Printf("enrich: skipping damage relations for type %q: %v", t, err)
			continue
		}
		if rel == nil {
			continue
		}

		for _, attacker := range rel.DoubleDamageFrom {
			multipliers[attacker] = multiplier(multipliers, attacker) * 2.0
		}
		for _, attacker := range rel.HalfDamageFrom {
			multipliers[attacker] = multiplier(multipliers, attacker) * 0.5
		}
		for _, attacker := range rel.NoDamageFrom {
			multipliers[attacker] = 0.0
		}
	}

	weaknesses := make([]string, 0, len(multipliers))
	for attacker, m := range multipliers {
		if m > 1.0 {
			weaknesses = append(weaknesses, attacker)
		}
	}
	sort.Strings(weaknesses)
	return weaknesses
}

func multiplier(m map[string]float64, attacker string) float64 {
	if v, ok := m[attacker]; ok {
		return v
	}
	return 1.0
}

func mapSprites(raw *model.RawPokemon) (model.Sprites, error) {
	if raw.Sprites == nil {
		return model.Sprites{}, errs.Mapping("pokemon %d: missing sprites", raw.ID)
	}
	if raw.Sprites.Other == nil || raw.Sprites.Other.OfficialArtwork == nil {
		return model.Sprites{}, errs.Mapping("pokemon %d: missing official artwork sprites", raw.ID)
	}
	return model.Sprites{
		FrontDefault:    deref(raw.Sprites.FrontDefault),
		BackDefault:     deref(raw.Sprites.BackDefault),
		OfficialArtwork: deref(raw.Sprites.Other.OfficialArtwork.FrontDefault),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CapitalizeName upper-cases the first rune of name and leaves the rest as is.
func CapitalizeName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
