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

package sma

import (
	"fmt"
	"math"

	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
)

// solver holds the precomputed normal-equation matrix for a model. The
// unconstrained least-squares fit solves (EtE)a = Etp per pixel, where E
// stacks the endmember spectra column-wise and p is the pixel spectrum.
type solver struct {
	model *Model
	k     int
	ete   [][]float64
}

func newSolver(model *Model) *solver {
	k := len(model.Endmembers)
	ete := make([][]float64, k)
	for i := range ete {
		ete[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			var dot float64
			for b := 0; b < 6; b++ {
				dot += model.Endmembers[i].Spectrum[b] * model.Endmembers[j].Spectrum[b]
			}
			ete[i][j] = dot
		}
	}
	return &solver{model: model, k: k, ete: ete}
}

// solve runs Gaussian elimination with partial pivoting on a copy of the
// normal matrix. The systems are at most 4x4, so the direct solve is exact
// enough and avoids pulling a linear-algebra dependency for one routine.
func (s *solver) solve(rhs []float64) ([]float64, error) {
	k := s.k
	aug := make([][]float64, k)
	for i := 0; i < k; i++ {
		aug[i] = make([]float64, k+1)
		copy(aug[i], s.ete[i])
		aug[i][k] = rhs[i]
	}

	for col := 0; col < k; col++ {
		pivot := col
		for row := col + 1; row < k; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("endmember spectra are linearly dependent")
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		for row := col + 1; row < k; row++ {
			factor := aug[row][col] / aug[col][col]
			for j := col; j <= k; j++ {
				aug[row][j] -= factor * aug[col][j]
			}
		}
	}

	out := make([]float64, k)
	for row := k - 1; row >= 0; row-- {
		sum := aug[row][k]
		for j := row + 1; j < k; j++ {
			sum -= aug[row][j] * out[j]
		}
		out[row] = sum / aug[row][row]
	}
	return out, nil
}

// Fractions holds per-endmember cover fraction grids scaled to [0,100],
// keyed by endmember name, plus the residual shade fraction when the model
// provides the vegetation and soil covers it derives from.
type Fractions struct {
	Model string
	Bands map[string]*raster.Grid
}

// Unmix fits every valid pixel of the scene against the model's endmember
// spectra. Negative fractions clamp to zero and the result is scaled and
// truncated to whole percentages in [0,100]. Pixels missing any reflectance
// band stay no-data.
func Unmix(s *scenes.Scene, model *Model) (*Fractions, error) {
	bands := make([]*raster.Grid, 6)
	for i, name := range scenes.ReflectanceBands {
		band, err := s.Band(name)
		if err != nil {
			return nil, err
		}
		bands[i] = band
	}

	sol := newSolver(model)
	out := &Fractions{Model: model.Name, Bands: map[string]*raster.Grid{}}
	for _, em := range model.Endmembers {
		out.Bands[em.Name] = raster.NewNoDataGrid(s.Width, s.Height)
	}

	pixel := make([]float64, 6)
	rhs := make([]float64, sol.k)
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			nodata := false
			for i, band := range bands {
				if band.IsNoData(row, col) {
					nodata = true
					break
				}
				pixel[i] = band.At(row, col)
			}
			if nodata {
				continue
			}

			for i, em := range model.Endmembers {
				var dot float64
				for b := 0; b < 6; b++ {
					dot += em.Spectrum[b] * pixel[b]
				}
				rhs[i] = dot
			}
			fractions, err := sol.solve(rhs)
			if err != nil {
				return nil, err
			}
			for i, em := range model.Endmembers {
				out.Bands[em.Name].Set(row, col, toPercent(fractions[i]))
			}
		}
	}

	if err := addShade(out, s.Width, s.Height); err != nil {
		return nil, err
	}
	return out, nil
}

// toPercent clamps a raw fraction at zero and truncates to a whole
// percentage capped at 100.
func toPercent(fraction float64) float64 {
	if fraction < 0 {
		fraction = 0
	}
	percent := math.Trunc(fraction * 100)
	if percent > 100 {
		percent = 100
	}
	return percent
}

// addShade derives the shade fraction as the residual of the physical
// covers, |100 - (gv + npv + soil)|, clipped to [0,100].
func addShade(f *Fractions, width, height int) error {
	gv, okGV := f.Bands["gv"]
	npv, okNPV := f.Bands["npv"]
	soil, okSoil := f.Bands["soil"]
	if !okGV || !okNPV || !okSoil {
		return nil
	}

	shade := raster.NewNoDataGrid(width, height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if gv.IsNoData(row, col) || npv.IsNoData(row, col) || soil.IsNoData(row, col) {
				continue
			}
			value := math.Abs(100 - (gv.At(row, col) + npv.At(row, col) + soil.At(row, col)))
			if value > 100 {
				value = 100
			}
			shade.Set(row, col, value)
		}
	}
	f.Bands["shade"] = shade
	return nil
}
