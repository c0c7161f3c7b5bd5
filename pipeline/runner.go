// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/venicegeo/lc-mosaic-factory/mosaic"
	"github.com/venicegeo/lc-mosaic-factory/util"
)

// Runner drives a territory run: it resolves the tile list, fans tiles out
// to a bounded worker pool, and delivers each finished composite to the
// sink. Tile failures are isolated; one bad tile never aborts the run.
type Runner struct {
	Tiles     TileSource
	Sink      CompositeSink
	Processor *Processor

	Workers       int
	SubmitRetries uint64

	mu    sync.Mutex
	stats RunStats
}

// RunStats counts tile outcomes for a run in progress.
type RunStats struct {
	Total     int
	Completed int
	Skipped   int
	Failed    int
}

// NewRunner wires a runner around a processor and its sources.
func NewRunner(tiles TileSource, sink CompositeSink, processor *Processor) *Runner {
	return &Runner{
		Tiles:         tiles,
		Sink:          sink,
		Processor:     processor,
		Workers:       util.GetWorkerCount(),
		SubmitRetries: uint64(util.GetIntEnv(util.MOSAIC_SUBMIT_RETRIES, 8)),
	}
}

// Stats returns a snapshot of the run counters.
func (r *Runner) Stats() RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Run processes every tile of the territory for the given year. It returns
// an error only when the tile list itself cannot be resolved or the
// context is canceled; per-tile failures are logged and counted.
func (r *Runner) Run(ctx context.Context, logCtx util.LogContext, year int) error {
	territory := r.Processor.Profile.Name
	tiles, err := r.Tiles.Tiles(ctx, territory)
	if err != nil {
		return util.SimpleErr(logCtx, "could not resolve tile list for territory "+territory, err)
	}

	r.mu.Lock()
	r.stats = RunStats{Total: len(tiles)}
	r.mu.Unlock()

	util.LogInfo(logCtx, fmt.Sprintf("starting run: territory=%s year=%d tiles=%d workers=%d",
		territory, year, len(tiles), r.Workers))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.Workers)
	for _, tile := range tiles {
		tile := tile
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			r.runTile(groupCtx, logCtx, tile, year)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	stats := r.Stats()
	util.LogInfo(logCtx, fmt.Sprintf("run finished: completed=%d skipped=%d failed=%d",
		stats.Completed, stats.Skipped, stats.Failed))
	return nil
}

func (r *Runner) runTile(ctx context.Context, logCtx util.LogContext, tile Tile, year int) {
	key := CompositeKey{
		Territory: r.Processor.Profile.Name,
		TileID:    tile.ID,
		Year:      year,
		Sensor:    r.Processor.Sensor,
		Version:   r.Processor.Version,
	}

	exists, err := r.Sink.Exists(ctx, key)
	if err != nil {
		util.LogSimpleErr(logCtx, "tile "+tile.ID+": sink lookup failed", err)
		r.count(func(s *RunStats) { s.Failed++ })
		return
	}
	if exists {
		util.LogInfo(logCtx, "tile "+tile.ID+": composite already exists, skipping")
		r.count(func(s *RunStats) { s.Skipped++ })
		return
	}

	composite, err := r.Processor.ProcessTile(ctx, logCtx, tile, year)
	if err != nil {
		util.LogSimpleErr(logCtx, "tile "+tile.ID+": processing failed", err)
		r.count(func(s *RunStats) { s.Failed++ })
		return
	}

	if err := r.submit(ctx, key, composite); err != nil {
		util.LogSimpleErr(logCtx, "tile "+tile.ID+": composite could not be delivered", err)
		r.count(func(s *RunStats) { s.Failed++ })
		return
	}

	util.LogAudit(logCtx, util.LogAuditInput{
		Actor:    "pipeline",
		Action:   "composite written",
		Actee:    tile.ID,
		Message:  fmt.Sprintf("territory=%s year=%d sensor=%s version=%s", key.Territory, key.Year, key.Sensor, key.Version),
		Severity: util.INFO,
	})
	r.count(func(s *RunStats) { s.Completed++ })
}

// submit writes the composite, backing off and retrying while the sink
// reports a full queue. Other sink errors fail immediately.
func (r *Runner) submit(ctx context.Context, key CompositeKey, composite *mosaic.Composite) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.SubmitRetries), ctx)
	return backoff.Retry(func() error {
		err := r.Sink.Write(ctx, key, composite)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrQuotaExceeded) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

func (r *Runner) count(apply func(*RunStats)) {
	r.mu.Lock()
	apply(&r.stats)
	r.mu.Unlock()
}
