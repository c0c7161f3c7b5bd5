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

// Package sma performs linear spectral mixture analysis: per-pixel
// endmember unmixing over the six reflectance bands, plus the fraction
// indices derived from the resulting cover fractions.
package sma

import "fmt"

// Endmember is a pure-cover reflectance signature over the six bands in
// canonical order (blue, green, red, nir, swir1, swir2), in the pipeline's
// x10000 reflectance range.
type Endmember struct {
	Name     string
	Spectrum [6]float64
}

// Model is a named set of endmembers to unmix against.
type Model struct {
	Name       string
	Endmembers []Endmember
}

// DefaultModelName selects the standard four-endmember model.
const (
	DefaultModelName = "default"
	SmallModelName   = "small"
)

// The default model carries green vegetation, non-photosynthetic
// vegetation, soil, and cloud signatures. The same signatures apply to
// every supported sensor family; per-sensor calibration never diverged.
var defaultModel = Model{
	Name: DefaultModelName,
	Endmembers: []Endmember{
		{Name: "gv", Spectrum: [6]float64{119, 475, 169, 6250, 2399, 675}},
		{Name: "npv", Spectrum: [6]float64{1514, 1597, 1421, 3053, 7707, 1975}},
		{Name: "soil", Spectrum: [6]float64{1799, 2479, 3158, 5437, 7707, 6646}},
		{Name: "cloud", Spectrum: [6]float64{4031, 8714, 7900, 8989, 7002, 6607}},
	},
}

// The small model trades cover detail for robustness in sparse landscapes.
var smallModel = Model{
	Name: SmallModelName,
	Endmembers: []Endmember{
		{Name: "substrate", Spectrum: [6]float64{1780, 3370, 4580, 5590, 6830, 6450}},
		{Name: "vegetation", Spectrum: [6]float64{300, 600, 310, 6690, 2400, 960}},
		{Name: "dark", Spectrum: [6]float64{190, 100, 50, 70, 30, 20}},
	},
}

// GetModel returns the endmember model registered under the given name.
func GetModel(name string) (*Model, error) {
	switch name {
	case DefaultModelName:
		return &defaultModel, nil
	case SmallModelName:
		return &smallModel, nil
	}
	return nil, fmt.Errorf("unknown endmember model %q", name)
}
