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

package scenes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/lc-mosaic-factory/raster"
)

func TestScene_Band(t *testing.T) {
	// Mock
	s := &Scene{ID: "LC08_001", Bands: map[string]*raster.Grid{"red": raster.NewGrid(1, 1)}}

	// Tested code / Asserts
	band, err := s.Band("red")
	assert.Nil(t, err)
	assert.NotNil(t, band)

	_, err = s.Band("tir")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "LC08_001")
}

func TestScene_AddBandAlignment(t *testing.T) {
	// Mock
	s := &Scene{ID: "LC08_001", Width: 2, Height: 2}

	// Tested code / Asserts
	assert.Nil(t, s.AddBand("ndvi", raster.NewGrid(2, 2)))
	assert.NotNil(t, s.AddBand("bad", raster.NewGrid(3, 3)))
	_, err := s.Band("ndvi")
	assert.Nil(t, err)
}

func TestScene_ApplyValidMask(t *testing.T) {
	// Mock
	s := &Scene{
		Width:  2,
		Height: 1,
		Bands: map[string]*raster.Grid{
			"red": raster.NewFilledGrid(2, 1, 5),
			"nir": raster.NewFilledGrid(2, 1, 9),
		},
	}
	valid := raster.NewMask(2, 1, "valid")
	valid.Set(0, 0, true)

	// Tested code
	s.ApplyValidMask(valid)

	// Asserts
	assert.Equal(t, 5.0, s.Bands["red"].At(0, 0))
	assert.True(t, s.Bands["red"].IsNoData(0, 1))
	assert.True(t, s.Bands["nir"].IsNoData(0, 1))
}
