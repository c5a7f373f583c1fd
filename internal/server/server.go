package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agenthands/pokedex/internal/core"
	"github.com/agenthands/pokedex/internal/core/model"
	"github.com/agenthands/pokedex/internal/core/preload"
	"github.com/agenthands/pokedex/internal/errs"
)

const shutdownTimeout = 10 * time.Second

// Pokedex is the part of core.Pokedex the API serves.
type Pokedex interface {
	GetBatch(ctx context.Context, offset, limit int) ([]model.Pokemon, error)
	GetByID(ctx context.Context, id int) (model.Pokemon, bool, error)
	TriggerPreload() error
	CacheStats() core.CacheStats
}

type Server struct {
	Pokedex Pokedex
}

func NewServer(p Pokedex) *Server {
	return &Server{Pokedex: p}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestID())

	r.GET("/healthz", s.Health)

	v1 := r.Group("/api/v1")
	v1.GET("/pokemon", s.ListPokemon)
	v1.GET("/pokemon/:id", s.GetPokemon)
	v1.POST("/pokemon/cache/preload", s.TriggerPreload)
	v1.GET("/cache/stats", s.CacheStats)

	return r
}

// Run serves the API on addr until ctx ends, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(s.SetupRouter(), "pokedex"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ListRequest struct {
	Offset int `form:"offset,default=0" binding:"min=0"`
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
}

func (s *Server) ListPokemon(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", errs.InvalidInput("%v", err))
		return
	}

	batch, err := s.Pokedex.GetBatch(c.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		log.Printf("[%s] Failed to fetch pokemon batch: %v", c.GetString("request_id"), err)
		respondError(c, errs.HTTPStatus(err), "Failed to fetch pokemon data", err)
		return
	}
	if len(batch) == 0 {
		respondError(c, http.StatusNotFound, "No Data found.",
			errs.NotFound("no pokemon in offset %d limit %d", req.Offset, req.Limit))
		return
	}

	respond(c, http.StatusOK, "Data fetched successfully.", batch)
}

func (s *Server) GetPokemon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, "Invalid request",
			errs.InvalidInput("pokemon id must be a positive integer, got %q", c.Param("id")))
		return
	}

	pokemon, found, err := s.Pokedex.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[%s] Failed to fetch pokemon %d: %v", c.GetString("request_id"), id, err)
		respondError(c, errs.HTTPStatus(err), "Failed to fetch pokemon data", err)
		return
	}
	if !found {
		msg := "Pokemon not found with ID: " + strconv.Itoa(id)
		respondError(c, http.StatusNotFound, msg, errs.NotFound("pokemon %d not found", id))
		return
	}

	respond(c, http.StatusOK, "Data fetched successfully.", pokemon)
}

func (s *Server) TriggerPreload(c *gin.Context) {
	if err := s.Pokedex.TriggerPreload(); err != nil {
		log.Printf("[%s] Failed to start cache preload: %v", c.GetString("request_id"), err)
		if errors.Is(err, preload.ErrPoolClosed) {
			err = errs.Unavailable(err, "preload not accepted")
		}
		respondError(c, errs.HTTPStatus(err), "Failed to start cache preload", err)
		return
	}

	respond(c, http.StatusAccepted, "Cache preload started successfully.", []model.Pokemon{})
}

func (s *Server) CacheStats(c *gin.Context) {
	respond(c, http.StatusOK, "Cache statistics fetched successfully.", s.Pokedex.CacheStats())
}
