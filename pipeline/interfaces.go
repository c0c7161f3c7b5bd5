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

	"github.com/paulmach/orb"
	"github.com/venicegeo/lc-mosaic-factory/mosaic"
	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
)

// Tile is one grid cell of a territory's processing grid.
type Tile struct {
	ID       string
	GridName string
	Geometry orb.Polygon
}

// RawScene is a scene as delivered by the archive: band grids keyed by
// their source names plus the unnormalized metadata property bag.
type RawScene struct {
	ID         string
	Properties scenes.Properties
	Product    scenes.ProductType
	PixelSize  float64
	Width      int
	Height     int
	Bands      map[string]*raster.Grid
}

// TileSource resolves the tiles to process for a territory.
type TileSource interface {
	Tiles(ctx context.Context, territory string) ([]Tile, error)
	Tile(ctx context.Context, tileID string) (*Tile, error)
}

// SceneSource lists and loads the scenes intersecting a tile for a year.
type SceneSource interface {
	Scenes(ctx context.Context, tile Tile, year int) ([]*RawScene, error)
}

// CompositeKey identifies a composite in the output collection. Keys are
// the idempotency unit: a run never rewrites an existing key.
type CompositeKey struct {
	Territory string
	TileID    string
	Year      int
	Sensor    string
	Version   string
}

// CompositeSink receives finished composites. Write must return
// ErrQuotaExceeded (possibly wrapped) when the output queue is full so the
// pipeline can back off and retry.
type CompositeSink interface {
	Exists(ctx context.Context, key CompositeKey) (bool, error)
	Write(ctx context.Context, key CompositeKey, c *mosaic.Composite) error
}
