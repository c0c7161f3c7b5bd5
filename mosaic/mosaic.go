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
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/venicegeo/lc-mosaic-factory/raster"
)

// Layer is one scene's contribution to a tile composite: its processed
// band set with invalid pixels already no-data, the quality band used for
// seasonal splitting, and the acquisition date.
type Layer struct {
	Date    time.Time
	Quality *raster.Grid
	Bands   map[string]*raster.Grid
}

// Options configures the seasonal reduction.
type Options struct {
	QualityBand   string
	PercentileDry float64
	PercentileWet float64

	// The full-period median is restricted to this window; the dry and wet
	// medians always draw from the whole collection. A zero window keeps
	// every layer.
	WindowStart time.Time
	WindowEnd   time.Time
}

// DefaultOptions uses the 25/75 split on NDVI.
func DefaultOptions() Options {
	return Options{
		QualityBand:   "ndvi",
		PercentileDry: 25,
		PercentileWet: 75,
	}
}

// Composite is the reduced raster stack for one tile plus the identifying
// metadata carried into the output collection.
type Composite struct {
	Territory string
	TileID    string
	Year      int
	Sensor    string
	Version   string

	Width, Height int
	Bands         map[string]*raster.Grid
}

// ErrInsufficientCoverage reports that a tile's collection holds no layers
// at all after filtering, so no composite can be produced.
type ErrInsufficientCoverage struct {
	TileID string
}

func (e *ErrInsufficientCoverage) Error() string {
	return fmt.Sprintf("tile %s has no usable observations for compositing", e.TileID)
}

func (o Options) inWindow(date time.Time) bool {
	if o.WindowStart.IsZero() && o.WindowEnd.IsZero() {
		return true
	}
	return !date.Before(o.WindowStart) && !date.After(o.WindowEnd)
}

// Build reduces the layer stack into the composite band set. Per band the
// output carries "<band>_median" (window-filtered), "_median_dry" and
// "_median_wet" (percentile seasons over the full stack), "_min", "_max",
// "_amp", and "_stdDev", plus the two per-pixel percentile threshold
// rasters for the quality band. Pixels with no valid observation in a
// reduction are no-data.
func Build(c *Composite, layers []*Layer, opts Options) error {
	if len(layers) == 0 {
		return &ErrInsufficientCoverage{TileID: c.TileID}
	}

	width, height := c.Width, c.Height
	if c.Bands == nil {
		c.Bands = map[string]*raster.Grid{}
	}

	bandNames := map[string]bool{}
	for _, layer := range layers {
		for name := range layer.Bands {
			bandNames[name] = true
		}
	}

	dryGrid := raster.NewNoDataGrid(width, height)
	wetGrid := raster.NewNoDataGrid(width, height)
	c.Bands[fmt.Sprintf("%s_p%d", opts.QualityBand, int(opts.PercentileDry))] = dryGrid
	c.Bands[fmt.Sprintf("%s_p%d", opts.QualityBand, int(opts.PercentileWet))] = wetGrid

	outputs := map[string]*raster.Grid{}
	for name := range bandNames {
		for _, suffix := range []string{"median", "median_dry", "median_wet", "min", "max", "amp", "stdDev"} {
			outputs[name+"_"+suffix] = raster.NewNoDataGrid(width, height)
		}
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			quality := make([]float64, 0, len(layers))
			for _, layer := range layers {
				if layer.Quality != nil && !layer.Quality.IsNoData(row, col) {
					quality = append(quality, layer.Quality.At(row, col))
				}
			}

			var dry, wet float64
			hasSeasons := len(quality) > 0
			if hasSeasons {
				dry = dryThreshold(quality, opts.PercentileDry)
				wet = wetThreshold(quality, opts.PercentileWet)
				dryGrid.Set(row, col, dry)
				wetGrid.Set(row, col, wet)
			}

			for name := range bandNames {
				var all, windowed, drySamples, wetSamples []float64
				for _, layer := range layers {
					band, ok := layer.Bands[name]
					if !ok || band.IsNoData(row, col) {
						continue
					}
					v := band.At(row, col)
					all = append(all, v)
					if opts.inWindow(layer.Date) {
						windowed = append(windowed, v)
					}
					if hasSeasons && layer.Quality != nil && !layer.Quality.IsNoData(row, col) {
						q := layer.Quality.At(row, col)
						if q <= dry {
							drySamples = append(drySamples, v)
						}
						if q >= wet {
							wetSamples = append(wetSamples, v)
						}
					}
				}
				if len(all) == 0 {
					continue
				}

				if m, ok := median(windowed); ok {
					outputs[name+"_median"].Set(row, col, m)
				}
				if m, ok := median(drySamples); ok {
					outputs[name+"_median_dry"].Set(row, col, m)
				}
				if m, ok := median(wetSamples); ok {
					outputs[name+"_median_wet"].Set(row, col, m)
				}

				min, max := all[0], all[0]
				for _, v := range all[1:] {
					if v < min {
						min = v
					}
					if v > max {
						max = v
					}
				}
				outputs[name+"_min"].Set(row, col, min)
				outputs[name+"_max"].Set(row, col, max)
				outputs[name+"_amp"].Set(row, col, max-min)

				if sd, err := stats.StandardDeviation(stats.Float64Data(all)); err == nil {
					outputs[name+"_stdDev"].Set(row, col, sd)
				}
			}
		}
	}

	for name, grid := range outputs {
		c.Bands[name] = grid
	}
	return nil
}

func median(samples []float64) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	m, err := stats.Median(stats.Float64Data(samples))
	if err != nil {
		return 0, false
	}
	return m, true
}
