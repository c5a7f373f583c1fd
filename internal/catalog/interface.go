package catalog

import (
	"context"

	"github.com/agenthands/pokedex/internal/core/model"
)

// Client reads raw records from the remote catalog. Implementations return
// errs.NotFound when the catalog has no such record and errs.Upstream for
// transport, status or decoding failures.
type Client interface {
	FetchPokemon(ctx context.Context, id int) (*model.RawPokemon, error)
	FetchTypeRelations(ctx context.Context, name string) (*model.TypeRelations, error)
}
