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

package raster

import (
	"fmt"
	"math"
)

// Grid is a single-band 2-D raster stored row-major. Cells holding NaN are
// treated as no-data everywhere in the pipeline: masked pixels are missing,
// not zero.
type Grid struct {
	Width  int
	Height int
	cells  []float64
}

// NewGrid creates a zero-filled grid of the given dimensions
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]float64, width*height),
	}
}

// NewNoDataGrid creates a grid with every cell set to no-data
func NewNoDataGrid(width, height int) *Grid {
	g := NewGrid(width, height)
	for i := range g.cells {
		g.cells[i] = math.NaN()
	}
	return g
}

// NewFilledGrid creates a grid with every cell set to the given value
func NewFilledGrid(width, height int, value float64) *Grid {
	g := NewGrid(width, height)
	for i := range g.cells {
		g.cells[i] = value
	}
	return g
}

// At returns the cell value at (row, col)
func (g *Grid) At(row, col int) float64 {
	return g.cells[row*g.Width+col]
}

// Set stores a cell value at (row, col)
func (g *Grid) Set(row, col int, value float64) {
	g.cells[row*g.Width+col] = value
}

// SetNoData marks the cell at (row, col) as missing
func (g *Grid) SetNoData(row, col int) {
	g.cells[row*g.Width+col] = math.NaN()
}

// IsNoData reports whether the cell at (row, col) is missing
func (g *Grid) IsNoData(row, col int) bool {
	return math.IsNaN(g.cells[row*g.Width+col])
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.Width, g.Height)
	copy(out.cells, g.cells)
	return out
}

// Aligned reports whether two grids share the same dimensions
func (g *Grid) Aligned(other *Grid) bool {
	return other != nil && g.Width == other.Width && g.Height == other.Height
}

// CheckAligned returns an error naming the mismatch when two grids do not
// share a spatial grid
func (g *Grid) CheckAligned(other *Grid) error {
	if g.Aligned(other) {
		return nil
	}
	if other == nil {
		return fmt.Errorf("grid alignment check against nil grid")
	}
	return fmt.Errorf("misaligned grids: %dx%d vs %dx%d", g.Width, g.Height, other.Width, other.Height)
}

// Values exposes the backing slice for bulk statistics; callers must not
// assume any particular ordering beyond row-major
func (g *Grid) Values() []float64 {
	return g.cells
}
