package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agenthands/pokedex/internal/config"
	"github.com/agenthands/pokedex/internal/core/common"
	"github.com/agenthands/pokedex/internal/core/model"
	"github.com/agenthands/pokedex/internal/errs"
)

const tracerName = "github.com/agenthands/pokedex/internal/catalog"

// PokeAPIClient reads pokemon and type resources from a PokeAPI v2 server.
type PokeAPIClient struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	maxBody    int64
	tracer     trace.Tracer
}

func NewPokeAPIClient(cfg config.PokeAPIConfig) (*PokeAPIClient, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid pokeapi base url %q", cfg.BaseURL)
	}

	return &PokeAPIClient{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout.Std(),
		maxBody:    cfg.MaxBodyBytes,
		tracer:     otel.Tracer(tracerName),
	}, nil
}

func (c *PokeAPIClient) FetchPokemon(ctx context.Context, id int) (*model.RawPokemon, error) {
	if id < 1 {
		return nil, errs.InvalidInput("pokemon id must be >= 1, got %d", id)
	}

	ctx, span := c.tracer.Start(ctx, "catalog.FetchPokemon",
		trace.WithAttributes(attribute.Int("pokemon.id", id)))
	defer span.End()

	raw, err := getJSON[model.RawPokemon](ctx, c, pokemonPath(id), fmt.Sprintf("pokemon %d", id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return raw, nil
}

func (c *PokeAPIClient) FetchTypeRelations(ctx context.Context, name string) (*model.TypeRelations, error) {
	if name == "" {
		return nil, errs.InvalidInput("type name is required")
	}

	ctx, span := c.tracer.Start(ctx, "catalog.FetchTypeRelations",
		trace.WithAttributes(attribute.String("type.name", name)))
	defer span.End()

	raw, err := getJSON[model.RawType](ctx, c, typePath(name), fmt.Sprintf("type %q", name))
	if err == nil && raw.DamageRelations == nil {
		err = errs.Mapping("type %q: missing damage_relations", name)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if raw.Name == "" {
		raw.Name = name
	}
	return raw.Relations(), nil
}

func getJSON[T any](ctx context.Context, c *PokeAPIClient, path, what string) (*T, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errs.Upstream(err, "building request for %s", what)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Upstream(err, "fetching %s", what)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errs.NotFound("%s not found", what)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Upstream(nil, "fetching %s: unexpected status %d", what, resp.StatusCode)
	}

	v, err := common.DecodeJSON[T](resp.Body, c.maxBody)
	if err != nil {
		return nil, errs.Upstream(err, "decoding %s", what)
	}
	return &v, nil
}
