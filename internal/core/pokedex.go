package core

import (
	"context"
	"log"
	"math"
	"sync"

	"github.com/agenthands/pokedex/internal/catalog"
	"github.com/agenthands/pokedex/internal/config"
	"github.com/agenthands/pokedex/internal/core/cache"
	"github.com/agenthands/pokedex/internal/core/enrich"
	"github.com/agenthands/pokedex/internal/core/model"
	"github.com/agenthands/pokedex/internal/core/preload"
	"github.com/agenthands/pokedex/internal/errs"
)

// Pokedex serves enriched pokemon out of an in-process cache filled from the
// catalog on demand and by the preload scheduler.
type Pokedex struct {
	Catalog   catalog.Client
	Enricher  *enrich.Enricher
	Pokemon   *cache.Keyed[int, model.Pokemon]
	Relations *cache.Keyed[string, *model.TypeRelations] // nil when relation caching is off
	Scheduler *preload.Scheduler
	Pool      *preload.WorkerPool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// CacheStats reports the pokemon cache and, when enabled, the type relation
// cache.
type CacheStats struct {
	Pokemon       cache.Stats  `json:"pokemon"`
	TypeRelations *cache.Stats `json:"typeRelations,omitempty"`
}

func NewPokedex(client catalog.Client, cfg *config.Config) *Pokedex {
	p := &Pokedex{Catalog: client}

	if cfg.PokeAPI.CacheTypeRelations {
		p.Relations = cache.New("type_relations", client.FetchTypeRelations)
		p.Enricher = enrich.NewEnricher(enrich.RelationsFunc(p.Relations.GetOrFetch))
	} else {
		p.Enricher = enrich.NewEnricher(client)
	}

	p.Pokemon = cache.New("pokemon", p.fetchPokemon)
	p.Pool = preload.NewWorkerPool(cfg.Sync.Workers, cfg.Sync.QueueSize)
	p.Scheduler = preload.NewScheduler(p.preloadOne, preload.OptionsFromConfig(cfg.Sync), p.Pool)
	return p
}

func (p *Pokedex) fetchPokemon(ctx context.Context, id int) (model.Pokemon, error) {
	raw, err := p.Catalog.FetchPokemon(ctx, id)
	if err != nil {
		return model.Pokemon{}, err
	}
	return p.Enricher.Enrich(ctx, raw)
}

func (p *Pokedex) preloadOne(ctx context.Context, id int) error {
	_, err := p.Pokemon.GetOrFetch(ctx, id)
	return err
}

// GetByID returns the pokemon with the given id. A pokemon the catalog does
// not know is reported as absent, not as an error.
func (p *Pokedex) GetByID(ctx context.Context, id int) (model.Pokemon, bool, error) {
	if id < 1 {
		return model.Pokemon{}, false, errs.InvalidInput("pokemon id must be >= 1, got %d", id)
	}

	pokemon, err := p.Pokemon.GetOrFetch(ctx, id)
	if err != nil {
		if errs.IsNotFound(err) {
			return model.Pokemon{}, false, nil
		}
		return model.Pokemon{}, false, err
	}
	return pokemon, true, nil
}

// GetBatch returns the pokemon with ids offset+1 through offset+limit in
// ascending order. Ids that fail to load are left out, so the result may be
// shorter than limit or empty, but never nil. The walk stops once ctx is
// done and returns what it has.
func (p *Pokedex) GetBatch(ctx context.Context, offset, limit int) ([]model.Pokemon, error) {
	if offset < 0 {
		return nil, errs.InvalidInput("offset must be >= 0, got %d", offset)
	}
	if limit < 1 {
		return nil, errs.InvalidInput("limit must be >= 1, got %d", limit)
	}
	if offset > math.MaxInt-limit {
		return nil, errs.InvalidInput("offset %d and limit %d overflow the id range", offset, limit)
	}

	batch := make([]model.Pokemon, 0, limit)
	for id := offset + 1; id <= offset+limit; id++ {
		if err := ctx.Err(); err != nil {
			log.Printf("batch: stopped before pokemon %d: %v", id, err)
			break
		}
		pokemon, err := p.Pokemon.GetOrFetch(ctx, id)
		if err != nil {
			log.Printf("batch: skipping pokemon %d: %v", id, err)
			continue
		}
		batch = append(batch, pokemon)
	}
	return batch, nil
}

// TriggerPreload queues a preload walk and returns immediately.
func (p *Pokedex) TriggerPreload() error {
	return p.Scheduler.Trigger()
}

// RunPreload performs one preload walk and waits for it.
func (p *Pokedex) RunPreload(ctx context.Context) preload.Result {
	return p.Scheduler.RunOnce(ctx)
}

func (p *Pokedex) CacheStats() CacheStats {
	stats := CacheStats{Pokemon: p.Pokemon.Stats()}
	if p.Relations != nil {
		rs := p.Relations.Stats()
		stats.TypeRelations = &rs
	}
	return stats
}

// Start launches the preload workers and the recurring preload schedule.
// Both stop when ctx ends or Close is called.
func (p *Pokedex) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.Pool.Start(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Scheduler.Run(ctx)
	}()
}

// Close stops the schedule, rejects further triggers and waits for the
// workers to exit.
func (p *Pokedex) Close() {
	if p.cancel != nil {
		p.cancel()
	}
	p.Pool.Close()
	p.wg.Wait()
}
