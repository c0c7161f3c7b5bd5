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

// Package indexes computes the spectral index library over a scene's
// reflectance bands. Each index is evaluated on unit reflectance (the
// working range divided by 10000); normalized-difference indexes carry a
// +1 offset to stay positive, and every result is stored back in the
// x10000 working range.
package indexes

import (
	"fmt"
	"math"

	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
)

const workingScale = 10000.0

// reflectance is one pixel's unit-reflectance band values.
type reflectance struct {
	blue, green, red, nir, swir1, swir2 float64
}

type indexFunc func(p reflectance) float64

func nd(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return (a - b) / (a + b)
}

var registry = map[string]indexFunc{
	"ndvi":  func(p reflectance) float64 { return nd(p.nir, p.red) + 1 },
	"ndbi":  func(p reflectance) float64 { return nd(p.swir1, p.nir) + 1 },
	"ui":    func(p reflectance) float64 { return nd(p.swir2, p.nir) + 1 },
	"bu":    func(p reflectance) float64 { return nd(p.swir1, p.nir) - nd(p.nir, p.red) },
	"ndwi":  func(p reflectance) float64 { return nd(p.nir, p.swir1) + 1 },
	"mndwi": func(p reflectance) float64 { return nd(p.green, p.swir1) + 1 },
	"pri":   func(p reflectance) float64 { return nd(p.blue, p.green) + 1 },
	"gcvi": func(p reflectance) float64 {
		if p.green == 0 {
			return 0
		}
		return p.nir/p.green - 1
	},
	"cai": func(p reflectance) float64 {
		if p.swir1 == 0 {
			return 0
		}
		return p.swir2/p.swir1 + 1
	},
	"savi": func(p reflectance) float64 {
		return 1.5*(p.nir-p.red)/(0.5+p.nir+p.red) + 1
	},
	"evi": func(p reflectance) float64 {
		denom := p.nir + 6*p.red - 7.5*p.blue + 1
		if denom == 0 {
			return 0
		}
		return 2.5*(p.nir-p.red)/denom + 1
	},
	"evi2": func(p reflectance) float64 {
		denom := p.nir + 2.4*p.red + 1
		if denom == 0 {
			return 0
		}
		return 2.5*(p.nir-p.red)/denom + 1
	},
	"hallcover": func(p reflectance) float64 {
		return math.Exp(-0.017*p.red - 0.007*p.nir - 0.079*p.swir2 + 5.22)
	},
	"hallheigth": func(p reflectance) float64 {
		return math.Exp(-0.039*p.red - 0.011*p.nir - 0.026*p.swir1 + 4.13)
	},
}

// Names lists every registered index in no particular order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Compute evaluates the named index over every valid pixel of the scene.
func Compute(s *scenes.Scene, name string) (*raster.Grid, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown spectral index %q", name)
	}

	bands := make([]*raster.Grid, 6)
	for i, bandName := range scenes.ReflectanceBands {
		band, err := s.Band(bandName)
		if err != nil {
			return nil, err
		}
		bands[i] = band
	}

	out := raster.NewNoDataGrid(s.Width, s.Height)
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			nodata := false
			for _, band := range bands {
				if band.IsNoData(row, col) {
					nodata = true
					break
				}
			}
			if nodata {
				continue
			}
			p := reflectance{
				blue:  bands[0].At(row, col) / workingScale,
				green: bands[1].At(row, col) / workingScale,
				red:   bands[2].At(row, col) / workingScale,
				nir:   bands[3].At(row, col) / workingScale,
				swir1: bands[4].At(row, col) / workingScale,
				swir2: bands[5].At(row, col) / workingScale,
			}
			out.Set(row, col, fn(p)*workingScale)
		}
	}
	return out, nil
}

// ComputeAll evaluates the requested indexes, keyed by name. An empty
// request computes the full library.
func ComputeAll(s *scenes.Scene, names []string) (map[string]*raster.Grid, error) {
	if len(names) == 0 {
		names = Names()
	}
	out := map[string]*raster.Grid{}
	for _, name := range names {
		grid, err := Compute(s, name)
		if err != nil {
			return nil, err
		}
		out[name] = grid
	}
	return out, nil
}
