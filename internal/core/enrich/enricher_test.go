package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/pokedex/internal/core/model"
	"github.com/agenthands/pokedex/internal/errs"
)

// MockRelations serves fixed relations per type and records every lookup.
type MockRelations struct {
	mu        sync.Mutex
	relations map[string]*model.TypeRelations
	failing   map[string]bool
	calls     []string
}

func (m *MockRelations) FetchTypeRelations(ctx context.Context, name string) (*model.TypeRelations, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	if m.failing[name] {
		return nil, errs.Upstream(errors.New("connection reset"), "fetching type %q", name)
	}
	rel, ok := m.relations[name]
	if !ok {
		return nil, errs.NotFound("type %q not found", name)
	}
	return rel, nil
}

func newMockRelations() *MockRelations {
	return &MockRelations{
		relations: map[string]*model.TypeRelations{
			"grass": {
				Name:             "grass",
				DoubleDamageFrom: []string{"flying", "poison", "bug", "fire", "ice"},
				HalfDamageFrom:   []string{"ground", "water", "grass", "electric"},
			},
			"poison": {
				Name:             "poison",
				DoubleDamageFrom: []string{"ground", "psychic"},
				HalfDamageFrom:   []string{"fighting", "poison", "bug", "grass", "fairy"},
			},
			"ghost": {
				Name:             "ghost",
				DoubleDamageFrom: []string{"ghost", "dark"},
				HalfDamageFrom:   []string{"poison", "bug"},
				NoDamageFrom:     []string{"normal", "fighting"},
			},
			"normal": {
				Name:             "normal",
				DoubleDamageFrom: []string{"fighting"},
				NoDamageFrom:     []string{"ghost"},
			},
			"flying": {
				Name:             "flying",
				DoubleDamageFrom: []string{"electric", "ice", "rock"},
				HalfDamageFrom:   []string{"grass", "fighting", "bug"},
				NoDamageFrom:     []string{"ground"},
			},
			"electric": {
				Name:             "electric",
				DoubleDamageFrom: []string{"ground"},
				HalfDamageFrom:   []string{"flying", "steel", "electric"},
			},
		},
		failing: map[string]bool{},
	}
}

func str(s string) *string { return &s }

func rawPokemon(id int, name string, types ...string) *model.RawPokemon {
	slots := make([]model.RawTypeSlot, 0, len(types))
	for i, t := range types {
		slots = append(slots, model.RawTypeSlot{Slot: i + 1, Type: model.NamedResource{Name: t}})
	}
	return &model.RawPokemon{
		ID:     id,
		Name:   name,
		Types:  slots,
		Height: 7,
		Weight: 69,
		Stats: []model.RawStat{
			{BaseStat: 45, Stat: model.NamedResource{Name: "hp"}},
			{BaseStat: 49, Stat: model.NamedResource{Name: "attack"}},
		},
		Sprites: &model.RawSprites{
			FrontDefault: str("https://img.example/front.png"),
			BackDefault:  nil,
			Other: &model.RawOtherSprites{
				OfficialArtwork: &model.RawArtwork{FrontDefault: str("https://img.example/art.png")},
			},
		},
	}
}

func TestEnrich_Bulbasaur(t *testing.T) {
	e := NewEnricher(newMockRelations())

	p, err := e.Enrich(context.Background(), rawPokemon(1, "bulbasaur", "grass", "poison"))
	require.NoError(t, err)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Bulbasaur", p.Name)
	assert.Equal(t, []string{"grass", "poison"}, p.Types)
	assert.Equal(t, "Kanto", p.Region)
	assert.Equal(t, []string{"fire", "flying", "ice", "psychic"}, p.Weaknesses)
	assert.Equal(t, 7, p.Height)
	assert.Equal(t, 69, p.Weight)
	assert.Equal(t, []model.Stat{{Name: "hp", BaseStat: 45}, {Name: "attack", BaseStat: 49}}, p.Stats)
	assert.Equal(t, "https://img.example/front.png", p.Sprites.FrontDefault)
	assert.Equal(t, "", p.Sprites.BackDefault)
	assert.Equal(t, "https://img.example/art.png", p.Sprites.OfficialArtwork)
}

func TestEnrich_MappingErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.RawPokemon)
	}{
		{"empty name", func(r *model.RawPokemon) { r.Name = "" }},
		{"missing types", func(r *model.RawPokemon) { r.Types = nil }},
		{"missing stats", func(r *model.RawPokemon) { r.Stats = nil }},
		{"missing sprites", func(r *model.RawPokemon) { r.Sprites = nil }},
		{"missing other sprites", func(r *model.RawPokemon) { r.Sprites.Other = nil }},
		{"missing official artwork", func(r *model.RawPokemon) { r.Sprites.Other.OfficialArtwork = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawPokemon(1, "bulbasaur", "grass")
			tt.mutate(raw)

			_, err := NewEnricher(newMockRelations()).Enrich(context.Background(), raw)
			require.Error(t, err)
			assert.True(t, errs.IsMapping(err), "unexpected error kind: %v", err)
		})
	}

	_, err := NewEnricher(newMockRelations()).Enrich(context.Background(), nil)
	assert.True(t, errs.IsMapping(err))
}

func TestWeaknesses_SingleType(t *testing.T) {
	e := NewEnricher(newMockRelations())
	assert.Equal(t, []string{"bug", "fire", "flying", "ice", "poison"}, e.Weaknesses(context.Background(), []string{"grass"}))
}

func TestWeaknesses_HalfCancelsDouble(t *testing.T) {
	e := NewEnricher(newMockRelations())

	// flying: grass and bug are halved, so grass's bug weakness cancels out
	// and ground goes to zero.
	got := e.Weaknesses(context.Background(), []string{"grass", "flying"})
	assert.Equal(t, []string{"fire", "flying", "ice", "poison", "rock"}, got)
	assert.NotContains(t, got, "bug")
	assert.NotContains(t, got, "ground")
}

func TestWeaknesses_ZeroIsAbsorbing(t *testing.T) {
	e := NewEnricher(newMockRelations())

	// normal is doubled by fighting, ghost is immune to it.
	got := e.Weaknesses(context.Background(), []string{"normal", "ghost"})
	assert.NotContains(t, got, "fighting")
	assert.NotContains(t, got, "ghost")
	assert.Equal(t, []string{"dark"}, got)

	// Order does not matter: a later double cannot lift a zero.
	rel := newMockRelations()
	rel.relations["immune"] = &model.TypeRelations{Name: "immune", NoDamageFrom: []string{"ground"}}
	got = NewEnricher(rel).Weaknesses(context.Background(), []string{"immune", "electric"})
	assert.NotContains(t, got, "ground")
	assert.Empty(t, got)
}

func TestWeaknesses_DistinctTypesFetchedOnce(t *testing.T) {
	rel := newMockRelations()
	e := NewEnricher(rel)

	got := e.Weaknesses(context.Background(), []string{"grass", "grass", "poison", "grass"})
	assert.Equal(t, []string{"grass", "poison"}, rel.calls)
	assert.Equal(t, []string{"fire", "flying", "ice", "psychic"}, got)
}

func TestWeaknesses_FailedTypeSkipped(t *testing.T) {
	rel := newMockRelations()
	rel.failing["poison"] = true
	e := NewEnricher(rel)

	got := e.Weaknesses(context.Background(), []string{"grass", "poison"})
	assert.Equal(t, []string{"bug", "fire", "flying", "ice", "poison"}, got)

	p, err := e.Enrich(context.Background(), rawPokemon(1, "bulbasaur", "grass", "poison"))
	require.NoError(t, err)
	assert.Equal(t, got, p.Weaknesses)
}

func TestWeaknesses_NeverNil(t *testing.T) {
	e := NewEnricher(newMockRelations())

	got := e.Weaknesses(context.Background(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	rel := newMockRelations()
	rel.failing["grass"] = true
	got = NewEnricher(rel).Weaknesses(context.Background(), []string{"grass"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRelationsFunc(t *testing.T) {
	var asked string
	e := NewEnricher(RelationsFunc(func(ctx context.Context, name string) (*model.TypeRelations, error) {
		asked = name
		return &model.TypeRelations{Name: name, DoubleDamageFrom: []string{"water"}}, nil
	}))

	assert.Equal(t, []string{"water"}, e.Weaknesses(context.Background(), []string{"fire"}))
	assert.Equal(t, "fire", asked)
}

func TestRegion(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{1, "Kanto"},
		{151, "Kanto"},
		{152, "Johto"},
		{251, "Johto"},
		{252, "Hoenn"},
		{386, "Hoenn"},
		{387, "Sinnoh"},
		{493, "Sinnoh"},
		{494, "Unova"},
		{649, "Unova"},
		{650, "Kalos"},
		{721, "Kalos"},
		{722, "Alola"},
		{809, "Alola"},
		{810, "Galar"},
		{905, "Galar"},
		{906, "Paldea"},
		{1025, "Paldea"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Region(tt.id), "id %d", tt.id)
	}
}

func TestCapitalizeName(t *testing.T) {
	assert.Equal(t, "Bulbasaur", CapitalizeName("bulbasaur"))
	assert.Equal(t, "Mr-mime", CapitalizeName("mr-mime"))
	assert.Equal(t, "Éevee", CapitalizeName("éevee"))
	assert.Equal(t, "Pikachu", CapitalizeName("Pikachu"))
	assert.Equal(t, "", CapitalizeName(""))
}
