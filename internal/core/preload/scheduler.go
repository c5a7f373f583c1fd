// Package preload warms the pokemon cache by walking a fixed id range, on a
// schedule and on demand.
package preload

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/agenthands/pokedex/internal/config"
)

// Loader loads one id into the cache. The scheduler only counts its errors.
type Loader func(ctx context.Context, id int) error

type Options struct {
	Enabled      bool
	InitialDelay time.Duration
	Interval     time.Duration
	StartID      int
	Count        int
	StepDelay    time.Duration
}

func OptionsFromConfig(cfg config.SyncConfig) Options {
	return Options{
		Enabled:      cfg.Enabled,
		InitialDelay: cfg.InitialDelay.Std(),
		Interval:     cfg.FixedDelay.Std(),
		StartID:      cfg.StartID,
		Count:        cfg.RangeSize,
		StepDelay:    cfg.StepDelay.Std(),
	}
}

// Result summarizes one walk over the id range.
type Result struct {
	RunID   string `json:"runId"`
	Loaded  int    `json:"loaded"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

type Scheduler struct {
	load    Loader
	opts    Options
	pool    *WorkerPool
	limiter *rate.Limiter
}

func NewScheduler(load Loader, opts Options, pool *WorkerPool) *Scheduler {
	if opts.StartID < 1 {
		opts.StartID = 1
	}
	limit := rate.Inf
	if opts.StepDelay > 0 {
		limit = rate.Every(opts.StepDelay)
	}
	return &Scheduler{
		load:    load,
		opts:    opts,
		pool:    pool,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// RunOnce walks ids StartID..StartID+Count-1 in order. Per-id failures are
// logged and counted; only ctx ending stops the walk early, and the ids not
// reached are reported as skipped. It does nothing when preloading is
// disabled.
func (s *Scheduler) RunOnce(ctx context.Context) Result {
	res := Result{RunID: uuid.NewString()}
	if !s.opts.Enabled {
		return res
	}

	start := time.Now()
	last := s.opts.StartID + s.opts.Count - 1
	log.Printf("preload %s: loading ids %d..%d", res.RunID, s.opts.StartID, last)

	for id := s.opts.StartID; id <= last; id++ {
		if err := s.limiter.Wait(ctx); err != nil {
			res.Skipped = last - id + 1
			log.Printf("preload %s: stopped before id %d: %v", res.RunID, id, err)
			break
		}
		if err := s.load(ctx, id); err != nil {
			res.Failed++
			log.Printf("preload %s: id %d failed: %v", res.RunID, id, err)
			continue
		}
		res.Loaded++
	}

	log.Printf("preload %s: done in %s: loaded=%d failed=%d skipped=%d",
		res.RunID, time.Since(start).Round(time.Millisecond), res.Loaded, res.Failed, res.Skipped)
	return res
}

// Run waits InitialDelay, then repeats RunOnce with Interval between the end
// of one walk and the start of the next, until ctx ends.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.opts.Enabled {
		log.Printf("preload: scheduled preloading disabled")
		return
	}

	timer := time.NewTimer(s.opts.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		s.RunOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		timer.Reset(s.opts.Interval)
	}
}

// Trigger queues a walk on the worker pool and returns without waiting for
// it. A trigger that finds a walk already queued is folded into it.
func (s *Scheduler) Trigger() error {
	err := s.pool.TrySubmit(func(ctx context.Context) error {
		s.RunOnce(ctx)
		return nil
	})
	if errors.Is(err, ErrQueueFull) {
		log.Printf("preload: walk already queued, trigger coalesced")
		return nil
	}
	return err
}
