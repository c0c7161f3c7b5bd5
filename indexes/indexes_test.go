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

package indexes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
)

func testScene(values map[string]float64) *scenes.Scene {
	s := &scenes.Scene{
		Width:  1,
		Height: 1,
		Bands:  map[string]*raster.Grid{},
	}
	for name, value := range values {
		s.Bands[name] = raster.NewFilledGrid(1, 1, value)
	}
	return s
}

func vegetatedScene() *scenes.Scene {
	return testScene(map[string]float64{
		"blue": 300, "green": 600, "red": 400,
		"nir": 4000, "swir1": 2000, "swir2": 1000,
	})
}

func TestCompute_NDVI(t *testing.T) {
	// Mock
	s := vegetatedScene()

	// Tested code
	ndvi, err := Compute(s, "ndvi")

	// Asserts
	assert.Nil(t, err)
	// (0.4 - 0.04) / (0.4 + 0.04) + 1, back in the working range
	assert.InDelta(t, ((0.4-0.04)/(0.4+0.04)+1)*10000, ndvi.At(0, 0), 0.5)
}

func TestCompute_SAVI(t *testing.T) {
	// Mock
	s := vegetatedScene()

	// Tested code
	savi, err := Compute(s, "savi")

	// Asserts
	assert.Nil(t, err)
	expected := (1.5*(0.4-0.04)/(0.5+0.4+0.04) + 1) * 10000
	assert.InDelta(t, expected, savi.At(0, 0), 0.5)
}

func TestCompute_EVI2(t *testing.T) {
	// Mock
	s := vegetatedScene()

	// Tested code
	evi2, err := Compute(s, "evi2")

	// Asserts
	assert.Nil(t, err)
	expected := (2.5*(0.4-0.04)/(0.4+2.4*0.04+1) + 1) * 10000
	assert.InDelta(t, expected, evi2.At(0, 0), 0.5)
}

func TestCompute_GCVI(t *testing.T) {
	// Mock
	s := vegetatedScene()

	// Tested code
	gcvi, err := Compute(s, "gcvi")

	// Asserts
	assert.Nil(t, err)
	assert.InDelta(t, (0.4/0.06-1)*10000, gcvi.At(0, 0), 0.5)
}

func TestCompute_BUHasNoOffset(t *testing.T) {
	// Mock
	s := vegetatedScene()

	// Tested code
	bu, err := Compute(s, "bu")
	ndvi, err2 := Compute(s, "ndvi")
	ndbi, err3 := Compute(s, "ndbi")

	// Asserts
	assert.Nil(t, err)
	assert.Nil(t, err2)
	assert.Nil(t, err3)
	// bu is the difference of the raw indexes, so the +1 offsets cancel
	assert.InDelta(t, ndbi.At(0, 0)-ndvi.At(0, 0), bu.At(0, 0), 0.5)
}

func TestCompute_UnknownIndex(t *testing.T) {
	// Tested code
	grid, err := Compute(vegetatedScene(), "tasseled-cap")

	// Asserts
	assert.Nil(t, grid)
	assert.NotNil(t, err)
}

func TestCompute_NoDataPropagates(t *testing.T) {
	// Mock
	s := vegetatedScene()
	s.Bands["red"].SetNoData(0, 0)

	// Tested code
	ndvi, err := Compute(s, "ndvi")

	// Asserts
	assert.Nil(t, err)
	assert.True(t, ndvi.IsNoData(0, 0))
}

func TestComputeAll_FullLibrary(t *testing.T) {
	// Mock
	s := vegetatedScene()

	// Tested code
	all, err := ComputeAll(s, nil)

	// Asserts
	assert.Nil(t, err)
	assert.Len(t, all, len(Names()))
	for _, name := range []string{"ndvi", "ndwi", "mndwi", "evi", "hallcover", "hallheigth"} {
		grid, ok := all[name]
		assert.True(t, ok, name)
		assert.False(t, grid.IsNoData(0, 0), name)
	}
}
