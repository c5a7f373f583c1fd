package core

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/agenthands/pokedex/internal/core/model"
	"github.com/agenthands/pokedex/internal/errs"
)

// MockCatalog knows pokemon 1..Size, all grass/poison, and counts lookups.
type MockCatalog struct {
	Size  int
	Fail  map[int]error
	Delay time.Duration

	mu           sync.Mutex
	pokemonCalls map[int]int
	typeCalls    map[string]int
}

func NewMockCatalog(size int) *MockCatalog {
	return &MockCatalog{
		Size:         size,
		Fail:         map[int]error{},
		pokemonCalls: map[int]int{},
		typeCalls:    map[string]int{},
	}
}

func (m *MockCatalog) FetchPokemon(ctx context.Context, id int) (*model.RawPokemon, error) {
	m.mu.Lock()
	m.pokemonCalls[id]++
	err := m.Fail[id]
	m.mu.Unlock()

	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if err != nil {
		return nil, err
	}
	if id < 1 || id > m.Size {
		return nil, errs.NotFound("pokemon %d not found", id)
	}

	art := "https://img.example/" + strconv.Itoa(id) + ".png"
	return &model.RawPokemon{
		ID:   id,
		Name: "pokemon-" + strconv.Itoa(id),
		Types: []model.RawTypeSlot{
			{Slot: 1, Type: model.NamedResource{Name: "grass"}},
			{Slot: 2, Type: model.NamedResource{Name: "poison"}},
		},
		Height: 7,
		Weight: 69,
		Stats:  []model.RawStat{{BaseStat: 45, Stat: model.NamedResource{Name: "hp"}}},
		Sprites: &model.RawSprites{
			FrontDefault: &art,
			Other:        &model.RawOtherSprites{OfficialArtwork: &model.RawArtwork{FrontDefault: &art}},
		},
	}, nil
}

func (m *MockCatalog) FetchTypeRelations(ctx context.Context, name string) (*model.TypeRelations, error) {
	m.mu.Lock()
	m.typeCalls[name]++
	m.mu.Unlock()

	switch name {
	case "grass":
		return &model.TypeRelations{
			Name:             "grass",
			DoubleDamageFrom: []string{"flying", "poison", "bug", "fire", "ice"},
			HalfDamageFrom:   []string{"ground", "water", "grass", "electric"},
		}, nil
	case "poison":
		return &model.TypeRelations{
			Name:             "poison",
			DoubleDamageFrom: []string{"ground", "psychic"},
			HalfDamageFrom:   []string{"fighting", "poison", "bug", "grass", "fairy"},
		}, nil
	}
	return nil, errs.NotFound("type %q not found", name)
}

func (m *MockCatalog) PokemonCalls(id int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pokemonCalls[id]
}

func (m *MockCatalog) TotalPokemonCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.pokemonCalls {
		total += n
	}
	return total
}

func (m *MockCatalog) TypeCalls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.typeCalls[name]
}
