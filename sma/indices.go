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
)

// Fraction indices are normalized differences over cover-fraction
// combinations, shifted into the byte-friendly range [0,200]: the raw
// [-1,1] value is scaled x100 and offset +100.

func fractionBand(f *Fractions, name string) (*raster.Grid, error) {
	band, ok := f.Bands[name]
	if !ok {
		return nil, fmt.Errorf("fraction set %q has no %q band", f.Model, name)
	}
	return band, nil
}

// normalizedIndex computes (a-b)/(a+b), rescaled to [0,200], for two
// per-pixel accessor functions over aligned fraction grids.
func normalizedIndex(width, height int, ready func(row, col int) bool, a, b func(row, col int) float64) *raster.Grid {
	out := raster.NewNoDataGrid(width, height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if !ready(row, col) {
				continue
			}
			va, vb := a(row, col), b(row, col)
			var nd float64
			if va+vb != 0 {
				nd = (va - vb) / (va + vb)
			}
			out.Set(row, col, math.Trunc(nd*100+100))
		}
	}
	return out
}

// GVS is the shade-normalized green vegetation fraction: the share of green
// vegetation in the non-shade surface, on the [0,100] integer scale.
func GVS(f *Fractions) (*raster.Grid, error) {
	gv, err := fractionBand(f, "gv")
	if err != nil {
		return nil, err
	}
	npv, err := fractionBand(f, "npv")
	if err != nil {
		return nil, err
	}
	soil, err := fractionBand(f, "soil")
	if err != nil {
		return nil, err
	}

	out := raster.NewNoDataGrid(gv.Width, gv.Height)
	for row := 0; row < gv.Height; row++ {
		for col := 0; col < gv.Width; col++ {
			if gv.IsNoData(row, col) || npv.IsNoData(row, col) || soil.IsNoData(row, col) {
				continue
			}
			total := gv.At(row, col) + npv.At(row, col) + soil.At(row, col)
			var gvs float64
			if total != 0 {
				gvs = gv.At(row, col) / total * 100
			}
			out.Set(row, col, math.Trunc(gvs))
		}
	}
	return out, nil
}

// NDFI is the normalized difference fraction index: shade-normalized green
// vegetation against the non-vegetation covers.
func NDFI(f *Fractions) (*raster.Grid, error) {
	gv, err := fractionBand(f, "gv")
	if err != nil {
		return nil, err
	}
	npv, err := fractionBand(f, "npv")
	if err != nil {
		return nil, err
	}
	soil, err := fractionBand(f, "soil")
	if err != nil {
		return nil, err
	}

	ready := func(row, col int) bool {
		return !gv.IsNoData(row, col) && !npv.IsNoData(row, col) && !soil.IsNoData(row, col)
	}
	gvs := func(row, col int) float64 {
		total := gv.At(row, col) + npv.At(row, col) + soil.At(row, col)
		if total == 0 {
			return 0
		}
		return gv.At(row, col) / total * 100
	}
	rest := func(row, col int) float64 {
		return npv.At(row, col) + soil.At(row, col)
	}
	return normalizedIndex(gv.Width, gv.Height, ready, gvs, rest), nil
}

// SEFI contrasts total vegetation cover against bare soil.
func SEFI(f *Fractions) (*raster.Grid, error) {
	gv, err := fractionBand(f, "gv")
	if err != nil {
		return nil, err
	}
	npv, err := fractionBand(f, "npv")
	if err != nil {
		return nil, err
	}
	soil, err := fractionBand(f, "soil")
	if err != nil {
		return nil, err
	}

	ready := func(row, col int) bool {
		return !gv.IsNoData(row, col) && !npv.IsNoData(row, col) && !soil.IsNoData(row, col)
	}
	vegetation := func(row, col int) float64 {
		total := gv.At(row, col) + npv.At(row, col) + soil.At(row, col)
		if total == 0 {
			return 0
		}
		return (gv.At(row, col) + npv.At(row, col)) / total * 100
	}
	bare := func(row, col int) float64 {
		return soil.At(row, col)
	}
	return normalizedIndex(gv.Width, gv.Height, ready, vegetation, bare), nil
}

// WEFI contrasts vegetation covers against soil plus shade, separating
// wetlands from dry open areas.
func WEFI(f *Fractions) (*raster.Grid, error) {
	gv, err := fractionBand(f, "gv")
	if err != nil {
		return nil, err
	}
	npv, err := fractionBand(f, "npv")
	if err != nil {
		return nil, err
	}
	soil, err := fractionBand(f, "soil")
	if err != nil {
		return nil, err
	}
	shade, err := fractionBand(f, "shade")
	if err != nil {
		return nil, err
	}

	ready := func(row, col int) bool {
		return !gv.IsNoData(row, col) && !npv.IsNoData(row, col) &&
			!soil.IsNoData(row, col) && !shade.IsNoData(row, col)
	}
	vegetation := func(row, col int) float64 {
		return gv.At(row, col) + npv.At(row, col)
	}
	wet := func(row, col int) float64 {
		return soil.At(row, col) + shade.At(row, col)
	}
	return normalizedIndex(gv.Width, gv.Height, ready, vegetation, wet), nil
}

// FNS contrasts green vegetation plus shade against soil, highlighting
// flooded and shaded natural surfaces.
func FNS(f *Fractions) (*raster.Grid, error) {
	gv, err := fractionBand(f, "gv")
	if err != nil {
		return nil, err
	}
	soil, err := fractionBand(f, "soil")
	if err != nil {
		return nil, err
	}
	shade, err := fractionBand(f, "shade")
	if err != nil {
		return nil, err
	}

	ready := func(row, col int) bool {
		return !gv.IsNoData(row, col) && !soil.IsNoData(row, col) && !shade.IsNoData(row, col)
	}
	shaded := func(row, col int) float64 {
		return gv.At(row, col) + shade.At(row, col)
	}
	bare := func(row, col int) float64 {
		return soil.At(row, col)
	}
	return normalizedIndex(gv.Width, gv.Height, ready, shaded, bare), nil
}

// FractionIndexes computes every fraction index the model supports, keyed
// by index name.
func FractionIndexes(f *Fractions) (map[string]*raster.Grid, error) {
	out := map[string]*raster.Grid{}
	for name, compute := range map[string]func(*Fractions) (*raster.Grid, error){
		"gvs":  GVS,
		"ndfi": NDFI,
		"sefi": SEFI,
		"wefi": WEFI,
		"fns":  FNS,
	} {
		grid, err := compute(f)
		if err != nil {
			continue
		}
		out[name] = grid
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("fraction set %q supports no fraction indexes", f.Model)
	}
	return out, nil
}

