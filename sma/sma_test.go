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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
)

func sceneFromSpectrum(spectrum [6]float64) *scenes.Scene {
	s := &scenes.Scene{
		Width:  1,
		Height: 1,
		Bands:  map[string]*raster.Grid{},
	}
	for i, name := range scenes.ReflectanceBands {
		s.Bands[name] = raster.NewFilledGrid(1, 1, spectrum[i])
	}
	return s
}

func TestGetModel(t *testing.T) {
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	assert.Len(t, model.Endmembers, 4)

	model, err = GetModel(SmallModelName)
	assert.Nil(t, err)
	assert.Len(t, model.Endmembers, 3)

	_, err = GetModel("bogus")
	assert.NotNil(t, err)
}

func TestUnmix_PureEndmember(t *testing.T) {
	// Mock: a pixel that is exactly the green vegetation signature
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum(model.Endmembers[0].Spectrum)

	// Tested code
	fractions, err := Unmix(s, model)

	// Asserts
	assert.Nil(t, err)
	assert.InDelta(t, 100.0, fractions.Bands["gv"].At(0, 0), 1)
	assert.InDelta(t, 0.0, fractions.Bands["npv"].At(0, 0), 1)
	assert.InDelta(t, 0.0, fractions.Bands["soil"].At(0, 0), 1)
	assert.InDelta(t, 0.0, fractions.Bands["cloud"].At(0, 0), 1)
}

func TestUnmix_MixedPixel(t *testing.T) {
	// Mock: an even gv/soil mixture
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	var mixed [6]float64
	for b := 0; b < 6; b++ {
		mixed[b] = 0.5*model.Endmembers[0].Spectrum[b] + 0.5*model.Endmembers[2].Spectrum[b]
	}
	s := sceneFromSpectrum(mixed)

	// Tested code
	fractions, err := Unmix(s, model)

	// Asserts
	assert.Nil(t, err)
	assert.InDelta(t, 50.0, fractions.Bands["gv"].At(0, 0), 1)
	assert.InDelta(t, 50.0, fractions.Bands["soil"].At(0, 0), 1)
}

func TestUnmix_FractionsBounded(t *testing.T) {
	// Mock: a spectrum outside the endmember simplex
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum([6]float64{9000, 200, 9000, 100, 9500, 50})

	// Tested code
	fractions, err := Unmix(s, model)

	// Asserts
	assert.Nil(t, err)
	for name, band := range fractions.Bands {
		value := band.At(0, 0)
		assert.GreaterOrEqual(t, value, 0.0, name)
		assert.LessOrEqual(t, value, 100.0, name)
	}
}

func TestUnmix_ShadeResidual(t *testing.T) {
	// Mock: a dark pixel leaves most of the signal to shade
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum([6]float64{60, 240, 85, 3125, 1200, 340})

	// Tested code
	fractions, err := Unmix(s, model)

	// Asserts
	assert.Nil(t, err)
	shade := fractions.Bands["shade"]
	assert.NotNil(t, shade)
	covered := fractions.Bands["gv"].At(0, 0) + fractions.Bands["npv"].At(0, 0) + fractions.Bands["soil"].At(0, 0)
	expected := 100 - covered
	if expected < 0 {
		expected = -expected
	}
	assert.InDelta(t, expected, shade.At(0, 0), 0.001)
}

func TestUnmix_NoDataPropagates(t *testing.T) {
	// Mock: a pixel with a masked band
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum(model.Endmembers[0].Spectrum)
	s.Bands["nir"].SetNoData(0, 0)

	// Tested code
	fractions, err := Unmix(s, model)

	// Asserts
	assert.Nil(t, err)
	for name, band := range fractions.Bands {
		assert.True(t, band.IsNoData(0, 0), name)
	}
}

func TestUnmix_SmallModelHasNoShade(t *testing.T) {
	// Mock
	model, err := GetModel(SmallModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum(model.Endmembers[1].Spectrum)

	// Tested code
	fractions, err := Unmix(s, model)

	// Asserts
	assert.Nil(t, err)
	assert.NotContains(t, fractions.Bands, "shade")
	assert.InDelta(t, 100.0, fractions.Bands["vegetation"].At(0, 0), 1)
}

func TestNDFI_PureVegetation(t *testing.T) {
	// Mock: full green vegetation cover
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum(model.Endmembers[0].Spectrum)
	fractions, err := Unmix(s, model)
	assert.Nil(t, err)

	// Tested code
	ndfi, err := NDFI(fractions)

	// Asserts
	assert.Nil(t, err)
	assert.InDelta(t, 200.0, ndfi.At(0, 0), 1)
}

func TestNDFI_PureSoil(t *testing.T) {
	// Mock: full soil cover
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum(model.Endmembers[2].Spectrum)
	fractions, err := Unmix(s, model)
	assert.Nil(t, err)

	// Tested code
	ndfi, err := NDFI(fractions)

	// Asserts
	assert.Nil(t, err)
	assert.InDelta(t, 0.0, ndfi.At(0, 0), 1)
}

func TestGVS_PureVegetation(t *testing.T) {
	// Mock: full green vegetation cover
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum(model.Endmembers[0].Spectrum)
	fractions, err := Unmix(s, model)
	assert.Nil(t, err)

	// Tested code
	gvs, err := GVS(fractions)

	// Asserts
	assert.Nil(t, err)
	assert.InDelta(t, 100.0, gvs.At(0, 0), 1)
}

func TestGVS_PureSoil(t *testing.T) {
	// Mock: full soil cover
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum(model.Endmembers[2].Spectrum)
	fractions, err := Unmix(s, model)
	assert.Nil(t, err)

	// Tested code
	gvs, err := GVS(fractions)

	// Asserts
	assert.Nil(t, err)
	assert.InDelta(t, 0.0, gvs.At(0, 0), 1)
}

func TestFractionIndexes_DefaultModel(t *testing.T) {
	// Mock
	model, err := GetModel(DefaultModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum(model.Endmembers[0].Spectrum)
	fractions, err := Unmix(s, model)
	assert.Nil(t, err)

	// Tested code
	indexes, err := FractionIndexes(fractions)

	// Asserts
	assert.Nil(t, err)
	for _, name := range []string{"gvs", "ndfi", "sefi", "wefi", "fns"} {
		grid, ok := indexes[name]
		assert.True(t, ok, name)
		value := grid.At(0, 0)
		assert.GreaterOrEqual(t, value, 0.0, name)
		assert.LessOrEqual(t, value, 200.0, name)
	}
}

func TestFractionIndexes_SmallModelUnsupported(t *testing.T) {
	// Mock: the small model lacks the covers the indexes need
	model, err := GetModel(SmallModelName)
	assert.Nil(t, err)
	s := sceneFromSpectrum(model.Endmembers[0].Spectrum)
	fractions, err := Unmix(s, model)
	assert.Nil(t, err)

	// Tested code
	indexes, err := FractionIndexes(fractions)

	// Asserts
	assert.Nil(t, indexes)
	assert.NotNil(t, err)
}
