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
	"fmt"
	"math"

	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
)

// Temporal dark outlier mask (TDOM) defaults. A pixel is a dark outlier
// when both infrared bands sit more than a standard deviation below their
// temporal mean and the pixel is dark in absolute terms too.
const (
	DefaultZScoreThresh    = -1.0
	DefaultShadowSumThresh = 5000.0
	DefaultDilatePixels    = 2
)

var tdomBands = []string{"nir", "swir1"}

// TemporalStats holds per-pixel mean and standard deviation of the infrared
// bands across a tile's scene collection.
type TemporalStats struct {
	Width, Height int
	Mean          map[string]*raster.Grid
	StdDev        map[string]*raster.Grid
}

// ComputeTemporalStats reduces a scene collection to per-pixel infrared
// statistics. Scenes must already be renamed and scaled; no-data pixels are
// excluded from the reduction. At least two scenes are required for a
// meaningful deviation.
func ComputeTemporalStats(collection []*scenes.Scene) (*TemporalStats, error) {
	if len(collection) < 2 {
		return nil, fmt.Errorf("temporal statistics require at least 2 scenes, got %d", len(collection))
	}

	width, height := collection[0].Width, collection[0].Height
	stats := &TemporalStats{
		Width:  width,
		Height: height,
		Mean:   map[string]*raster.Grid{},
		StdDev: map[string]*raster.Grid{},
	}

	for _, name := range tdomBands {
		mean := raster.NewNoDataGrid(width, height)
		stddev := raster.NewNoDataGrid(width, height)

		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				var sum, sumSq float64
				n := 0
				for _, s := range collection {
					band, err := s.Band(name)
					if err != nil {
						return nil, err
					}
					if band.IsNoData(row, col) {
						continue
					}
					v := band.At(row, col)
					sum += v
					sumSq += v * v
					n++
				}
				if n < 2 {
					continue
				}
				m := sum / float64(n)
				variance := sumSq/float64(n) - m*m
				if variance < 0 {
					variance = 0
				}
				mean.Set(row, col, m)
				stddev.Set(row, col, math.Sqrt(variance))
			}
		}
		stats.Mean[name] = mean
		stats.StdDev[name] = stddev
	}
	return stats, nil
}

// TDOMMask flags dark temporal outliers in a single scene against the
// collection statistics. The raw detections are eroded by dilatePixels to
// drop isolated noise, matching the focal_min applied upstream.
func TDOMMask(s *scenes.Scene, stats *TemporalStats, zScoreThresh, shadowSumThresh float64, dilatePixels int) (*raster.Mask, error) {
	bands := map[string]*raster.Grid{}
	for _, name := range tdomBands {
		band, err := s.Band(name)
		if err != nil {
			return nil, err
		}
		if err := band.CheckAligned(stats.Mean[name]); err != nil {
			return nil, err
		}
		bands[name] = band
	}

	mask := raster.NewMask(s.Width, s.Height, MethodTDOM)
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			outlier := true
			irSum := 0.0
			for _, name := range tdomBands {
				band := bands[name]
				mean := stats.Mean[name]
				stddev := stats.StdDev[name]
				if band.IsNoData(row, col) || mean.IsNoData(row, col) || stddev.IsNoData(row, col) {
					outlier = false
					break
				}
				sd := stddev.At(row, col)
				if sd == 0 {
					outlier = false
					break
				}
				z := (band.At(row, col) - mean.At(row, col)) / sd
				if z >= zScoreThresh {
					outlier = false
					break
				}
				irSum += band.At(row, col)
			}
			mask.Set(row, col, outlier && irSum < shadowSumThresh)
		}
	}

	if dilatePixels > 0 {
		mask = mask.FocalMin(dilatePixels)
	}
	return mask, nil
}
