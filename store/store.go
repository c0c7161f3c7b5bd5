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

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/venicegeo/lc-mosaic-factory/mosaic"
	"github.com/venicegeo/lc-mosaic-factory/pipeline"
	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/util"
)

// ConnectionProvider is a function that can provide a database connection.
type ConnectionProvider func(util.LogContext) (*sql.DB, error)

// Store implements the pipeline's tile source and composite sink on
// Postgres.
type Store struct {
	logCtx         util.LogContext
	dbConnProvider ConnectionProvider
}

// NewStore wires a store around a connection provider.
func NewStore(logCtx util.LogContext, provider ConnectionProvider) *Store {
	return &Store{logCtx: logCtx, dbConnProvider: provider}
}

// Tiles lists the territory's tile catalog.
func (s *Store) Tiles(ctx context.Context, territory string) ([]pipeline.Tile, error) {
	var tiles []pipeline.Tile
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := GetTilesByTerritory(tx, territory)
		if err != nil {
			return err
		}
		for _, row := range rows {
			tiles = append(tiles, pipeline.Tile{ID: row.ID, GridName: row.GridName, Geometry: row.Geometry})
		}
		return nil
	})
	return tiles, err
}

// Tile resolves a single tile, mapping a missing row to a lookup error.
func (s *Store) Tile(ctx context.Context, tileID string) (*pipeline.Tile, error) {
	var tile *pipeline.Tile
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row, err := GetTileByID(tx, tileID)
		if err != nil {
			return err
		}
		tile = &pipeline.Tile{ID: row.ID, GridName: row.GridName, Geometry: row.Geometry}
		return nil
	})
	if err != nil {
		return nil, &pipeline.TileLookupError{TileID: tileID, Err: err}
	}
	return tile, nil
}

// Exists reports whether the keyed composite was already delivered.
func (s *Store) Exists(ctx context.Context, key pipeline.CompositeKey) (bool, error) {
	var exists bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var txErr error
		exists, txErr = CompositeExists(tx, key.Territory, key.TileID, key.Year, key.Sensor, key.Version)
		return txErr
	})
	return exists, err
}

// Write records the composite and its band payloads in one transaction.
// Resource exhaustion on the backend surfaces as the pipeline's quota
// error so submission is retried with backoff instead of failing the tile.
func (s *Store) Write(ctx context.Context, key pipeline.CompositeKey, c *mosaic.Composite) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := InsertComposite(tx, CompositeRow{
			Territory: key.Territory,
			TileID:    key.TileID,
			Year:      key.Year,
			Sensor:    key.Sensor,
			Version:   key.Version,
		})
		if err != nil {
			return err
		}
		for name, band := range c.Bands {
			data, err := raster.EncodeGrid(band)
			if err != nil {
				return err
			}
			if err = InsertCompositeBand(tx, id, name, band.Width, band.Height, data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && isQuotaError(err) {
		return fmt.Errorf("%w: %v", pipeline.ErrQuotaExceeded, err)
	}
	return err
}

// isQuotaError recognizes backend rejections caused by resource pressure:
// the Postgres "insufficient resources" error class and the queue-full
// message some submission frontends return.
func isQuotaError(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return strings.HasPrefix(string(pqErr.Code), "53")
	}
	return strings.Contains(err.Error(), "Too many tasks already in the queue")
}

func (s *Store) withTx(ctx context.Context, action func(*sql.Tx) error) error {
	db, err := s.dbConnProvider(s.logCtx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err = action(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
