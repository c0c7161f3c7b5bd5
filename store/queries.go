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
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GetTilesByTerritory loads the tile catalog records for a territory,
// ordered by tile ID so runs walk the grid deterministically.
func GetTilesByTerritory(tx *sql.Tx, territory string) ([]TileRow, error) {
	rows, err := tx.Query(`
		SELECT tile_id, grid_name, territory, ST_AsGeoJSON(bounds)
		FROM public.tiles
		WHERE territory=$1
		ORDER BY tile_id`,
		territory,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiles := []TileRow{}
	for rows.Next() {
		var tile TileRow
		var boundsBytes []byte
		if err = rows.Scan(&tile.ID, &tile.GridName, &tile.Territory, &boundsBytes); err != nil {
			return nil, err
		}
		if tile.Geometry, err = polygonFromGeoJSON(boundsBytes); err != nil {
			return nil, err
		}
		tiles = append(tiles, tile)
	}
	return tiles, rows.Err()
}

// GetTileByID loads a single tile catalog record.
func GetTileByID(tx *sql.Tx, tileID string) (*TileRow, error) {
	var tile TileRow
	var boundsBytes []byte

	rows, err := tx.Query(`
		SELECT tile_id, grid_name, territory, ST_AsGeoJSON(bounds)
		FROM public.tiles
		WHERE tile_id=$1
		LIMIT 1`,
		tileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, sql.ErrNoRows
	}

	if err = rows.Scan(&tile.ID, &tile.GridName, &tile.Territory, &boundsBytes); err != nil {
		return nil, err
	}
	if tile.Geometry, err = polygonFromGeoJSON(boundsBytes); err != nil {
		return nil, err
	}
	return &tile, nil
}

// CompositeExists reports whether the keyed composite is already recorded.
func CompositeExists(tx *sql.Tx, territory, tileID string, year int, sensor, version string) (bool, error) {
	var count int
	err := tx.QueryRow(`
		SELECT COUNT(1)
		FROM public.composites
		WHERE territory=$1 AND tile_id=$2 AND year=$3 AND sensor=$4 AND version=$5`,
		territory, tileID, year, sensor, version,
	).Scan(&count)
	return count > 0, err
}

// InsertComposite records a composite's metadata and returns its row ID.
func InsertComposite(tx *sql.Tx, row CompositeRow) (int64, error) {
	var id int64
	err := tx.QueryRow(`
		INSERT INTO public.composites (territory, tile_id, year, sensor, version, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING composite_id`,
		row.Territory, row.TileID, row.Year, row.Sensor, row.Version,
	).Scan(&id)
	return id, err
}

// InsertCompositeBand stores one encoded band raster of a composite.
func InsertCompositeBand(tx *sql.Tx, compositeID int64, name string, width, height int, data []byte) error {
	_, err := tx.Exec(`
		INSERT INTO public.composite_bands (composite_id, band_name, width, height, payload)
		VALUES ($1, $2, $3, $4, $5)`,
		compositeID, name, width, height, data,
	)
	return err
}

func polygonFromGeoJSON(data []byte) (orb.Polygon, error) {
	var geom geojson.Geometry
	if err := json.Unmarshal(data, &geom); err != nil {
		return nil, err
	}
	if polygon, ok := geom.Geometry().(orb.Polygon); ok {
		return polygon, nil
	}
	return nil, fmt.Errorf("tile bounds are %s, expected Polygon", geom.Type)
}
