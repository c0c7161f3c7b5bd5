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

// Package store persists the tile catalog and the output composite
// collection in Postgres. It backs both ends of a run: tiles in, finished
// composites out.
package store

import (
	"time"

	"github.com/paulmach/orb"
)

// TileRow is one tile catalog record.
type TileRow struct {
	ID        string
	GridName  string
	Territory string
	Geometry  orb.Polygon
}

// CompositeRow is the metadata record of a delivered composite.
type CompositeRow struct {
	ID        int64
	Territory string
	TileID    string
	Year      int
	Sensor    string
	Version   string
	CreatedAt time.Time
}
