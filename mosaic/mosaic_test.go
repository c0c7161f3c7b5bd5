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

package mosaic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/lc-mosaic-factory/raster"
)

func singlePixelLayer(date time.Time, quality float64, bands map[string]float64) *Layer {
	layer := &Layer{
		Date:    date,
		Quality: raster.NewFilledGrid(1, 1, quality),
		Bands:   map[string]*raster.Grid{},
	}
	for name, value := range bands {
		layer.Bands[name] = raster.NewFilledGrid(1, 1, value)
	}
	return layer
}

func TestThresholds_QuartileSplit(t *testing.T) {
	// Mock
	samples := []float64{10, 20, 30, 70, 90}

	// Tested code
	dry := dryThreshold(samples, 25)
	wet := wetThreshold(samples, 75)

	// Asserts
	assert.Equal(t, 10.0, dry)
	assert.Equal(t, 90.0, wet)
}

func TestThresholds_SmallStack(t *testing.T) {
	// A two-sample stack still splits into seasons
	samples := []float64{40, 60}

	dry := dryThreshold(samples, 25)
	wet := wetThreshold(samples, 75)

	assert.Equal(t, 40.0, dry)
	assert.Equal(t, 60.0, wet)
}

func TestThresholds_SingleSample(t *testing.T) {
	samples := []float64{55}

	assert.Equal(t, 55.0, dryThreshold(samples, 25))
	assert.Equal(t, 55.0, wetThreshold(samples, 75))
}

func TestBuild_SeasonalMedians(t *testing.T) {
	// Mock: five observations whose quality stack is the quartile case;
	// the red values track quality so season membership is observable
	layers := []*Layer{}
	for _, q := range []float64{10, 20, 30, 70, 90} {
		layers = append(layers, singlePixelLayer(
			time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), q,
			map[string]float64{"red": q * 10},
		))
	}
	c := &Composite{TileID: "001-001", Width: 1, Height: 1}

	// Tested code
	err := Build(c, layers, DefaultOptions())

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, 10.0, c.Bands["ndvi_p25"].At(0, 0))
	assert.Equal(t, 90.0, c.Bands["ndvi_p75"].At(0, 0))
	assert.Equal(t, 100.0, c.Bands["red_median_dry"].At(0, 0), "dry season holds only the q=10 layer")
	assert.Equal(t, 900.0, c.Bands["red_median_wet"].At(0, 0), "wet season holds only the q=90 layer")
	assert.Equal(t, 300.0, c.Bands["red_median"].At(0, 0))
	assert.Equal(t, 100.0, c.Bands["red_min"].At(0, 0))
	assert.Equal(t, 900.0, c.Bands["red_max"].At(0, 0))
	assert.Equal(t, 800.0, c.Bands["red_amp"].At(0, 0))
}

func TestBuild_WindowFiltersFullMedianOnly(t *testing.T) {
	// Mock: one in-window and one out-of-window observation
	inWindow := singlePixelLayer(time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), 50, map[string]float64{"red": 100})
	outOfWindow := singlePixelLayer(time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), 90, map[string]float64{"red": 500})

	opts := DefaultOptions()
	opts.WindowStart = time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	opts.WindowEnd = time.Date(2022, 8, 31, 0, 0, 0, 0, time.UTC)

	c := &Composite{TileID: "001-001", Width: 1, Height: 1}

	// Tested code
	err := Build(c, []*Layer{inWindow, outOfWindow}, opts)

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, 100.0, c.Bands["red_median"].At(0, 0), "window excludes the December layer")
	// Seasons draw from the full stack: the December layer is the wet season
	assert.Equal(t, 500.0, c.Bands["red_median_wet"].At(0, 0))
	assert.Equal(t, 400.0, c.Bands["red_amp"].At(0, 0))
}

func TestBuild_EmptyStackFails(t *testing.T) {
	// Tested code
	c := &Composite{TileID: "007-042", Width: 1, Height: 1}
	err := Build(c, nil, DefaultOptions())

	// Asserts
	assert.NotNil(t, err)
	coverage, ok := err.(*ErrInsufficientCoverage)
	assert.True(t, ok)
	assert.Equal(t, "007-042", coverage.TileID)
}

func TestBuild_AllNoDataPixelStaysNoData(t *testing.T) {
	// Mock: every observation of the pixel is masked
	layer := &Layer{
		Date:    time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
		Quality: raster.NewNoDataGrid(1, 1),
		Bands:   map[string]*raster.Grid{"red": raster.NewNoDataGrid(1, 1)},
	}
	c := &Composite{TileID: "001-001", Width: 1, Height: 1}

	// Tested code
	err := Build(c, []*Layer{layer}, DefaultOptions())

	// Asserts
	assert.Nil(t, err)
	assert.True(t, c.Bands["red_median"].IsNoData(0, 0))
	assert.True(t, c.Bands["red_min"].IsNoData(0, 0))
	assert.True(t, c.Bands["ndvi_p25"].IsNoData(0, 0))
}

func TestBuild_SingleClearObservation(t *testing.T) {
	// Mock: one valid layer; every reduction collapses to its value
	layer := singlePixelLayer(time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), 80, map[string]float64{"nir": 3000})
	c := &Composite{TileID: "001-001", Width: 1, Height: 1}

	// Tested code
	err := Build(c, []*Layer{layer}, DefaultOptions())

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, 3000.0, c.Bands["nir_median"].At(0, 0))
	assert.Equal(t, 3000.0, c.Bands["nir_median_dry"].At(0, 0))
	assert.Equal(t, 3000.0, c.Bands["nir_median_wet"].At(0, 0))
	assert.Equal(t, 0.0, c.Bands["nir_amp"].At(0, 0))
	assert.Equal(t, 0.0, c.Bands["nir_stdDev"].At(0, 0))
}

func TestBuild_CustomQualityBand(t *testing.T) {
	// Mock: wetland territories split on ndwi instead
	layer := singlePixelLayer(time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), 120, map[string]float64{"red": 1})
	opts := DefaultOptions()
	opts.QualityBand = "ndwi"

	c := &Composite{TileID: "001-001", Width: 1, Height: 1}

	// Tested code
	err := Build(c, []*Layer{layer}, opts)

	// Asserts
	assert.Nil(t, err)
	assert.Contains(t, c.Bands, "ndwi_p25")
	assert.Contains(t, c.Bands, "ndwi_p75")
}
