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

// Mask is a boolean raster aligned to a scene grid, tagged with the id of
// the detection method that produced it
type Mask struct {
	Width  int
	Height int
	Method string
	bits   []bool
}

// NewMask creates an all-clear mask of the given dimensions
func NewMask(width, height int, method string) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Method: method,
		bits:   make([]bool, width*height),
	}
}

// At returns whether the mask is set at (row, col)
func (m *Mask) At(row, col int) bool {
	return m.bits[row*m.Width+col]
}

// Set stores a mask bit at (row, col)
func (m *Mask) Set(row, col int, value bool) {
	m.bits[row*m.Width+col] = value
}

// Count returns the number of set cells
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Or merges another mask into this one in place
func (m *Mask) Or(other *Mask) {
	for i, b := range other.bits {
		if b {
			m.bits[i] = true
		}
	}
}

// Translate returns a copy of the mask shifted by (dRow, dCol) grid cells.
// Cells shifted in from outside the grid are clear.
func (m *Mask) Translate(dRow, dCol int) *Mask {
	out := NewMask(m.Width, m.Height, m.Method)
	for row := 0; row < m.Height; row++ {
		srcRow := row - dRow
		if srcRow < 0 || srcRow >= m.Height {
			continue
		}
		for col := 0; col < m.Width; col++ {
			srcCol := col - dCol
			if srcCol < 0 || srcCol >= m.Width {
				continue
			}
			if m.bits[srcRow*m.Width+srcCol] {
				out.bits[row*m.Width+col] = true
			}
		}
	}
	return out
}

// FocalMin erodes the mask: a cell stays set only if every cell within the
// given Chebyshev radius is also set. Used to suppress single-pixel noise.
func (m *Mask) FocalMin(radius int) *Mask {
	return m.focal(radius, true)
}

// FocalMax dilates the mask: a cell becomes set if any cell within the given
// Chebyshev radius is set
func (m *Mask) FocalMax(radius int) *Mask {
	return m.focal(radius, false)
}

func (m *Mask) focal(radius int, erode bool) *Mask {
	if radius <= 0 {
		out := NewMask(m.Width, m.Height, m.Method)
		copy(out.bits, m.bits)
		return out
	}
	out := NewMask(m.Width, m.Height, m.Method)
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			// The neighborhood is clipped at grid borders rather than
			// treated as clear, so border detections survive erosion.
			value := erode
			for dr := -radius; dr <= radius && value == erode; dr++ {
				r := row + dr
				if r < 0 || r >= m.Height {
					continue
				}
				for dc := -radius; dc <= radius; dc++ {
					c := col + dc
					if c < 0 || c >= m.Width {
						continue
					}
					set := m.bits[r*m.Width+c]
					if erode && !set {
						value = false
						break
					}
					if !erode && set {
						value = true
						break
					}
				}
			}
			out.bits[row*m.Width+col] = value
		}
	}
	return out
}
