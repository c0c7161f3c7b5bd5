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

package cloudmask

import (
	"math"

	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
)

// DefaultCloudThresh is the spectral cloud score above which a pixel is
// treated as cloud.
const DefaultCloudThresh = 10.0

// rescale maps a value onto [0,1] across the given range, clamping outside
func rescale(value, min, max float64) float64 {
	scaled := (value - min) / (max - min)
	if scaled < 0 {
		return 0
	}
	if scaled > 1 {
		return 1
	}
	return scaled
}

func normalizedDifference(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return (a - b) / (a + b)
}

// CloudScore computes the simple spectral cloud likelihood per pixel, as
// the minimum of brightness tests in the blue, visible, and infrared bands
// plus an inverted snow test (NDSI), scaled to [0,100]. Pixels missing any
// reflectance band are no-data.
func CloudScore(s *scenes.Scene) (*raster.Grid, error) {
	bands := map[string]*raster.Grid{}
	for _, name := range scenes.ReflectanceBands {
		band, err := s.Band(name)
		if err != nil {
			return nil, err
		}
		bands[name] = band
	}

	score := raster.NewNoDataGrid(s.Width, s.Height)
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

			blue := bands["blue"].At(row, col)
			green := bands["green"].At(row, col)
			red := bands["red"].At(row, col)
			nir := bands["nir"].At(row, col)
			swir1 := bands["swir1"].At(row, col)
			swir2 := bands["swir2"].At(row, col)

			pixelScore := 1.0
			pixelScore = math.Min(pixelScore, rescale(blue, 1000, 3000))
			pixelScore = math.Min(pixelScore, rescale(red+green+blue, 2000, 8000))
			pixelScore = math.Min(pixelScore, rescale(nir+swir1+swir2, 3000, 8000))

			// Snow is bright in the visible but dark in SWIR; a high NDSI
			// marks snow, so the test is inverted.
			ndsi := normalizedDifference(green, swir1)
			pixelScore = math.Min(pixelScore, rescale(ndsi, 0.8, 0.6))

			score.Set(row, col, pixelScore*100)
		}
	}
	return score, nil
}

// ScoreCloudMask thresholds the spectral cloud score into a mask.
func ScoreCloudMask(s *scenes.Scene, cloudThresh float64) (*raster.Mask, error) {
	score, err := CloudScore(s)
	if err != nil {
		return nil, err
	}
	mask := raster.NewMask(s.Width, s.Height, MethodScore)
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			if score.IsNoData(row, col) {
				continue
			}
			mask.Set(row, col, score.At(row, col) >= cloudThresh)
		}
	}
	return mask, nil
}
