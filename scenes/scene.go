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
	"fmt"
	"time"

	"github.com/venicegeo/lc-mosaic-factory/raster"
)

// SensorFamily identifies the satellite platform a scene came from
type SensorFamily string

// Recognized sensor families
const (
	Landsat4  SensorFamily = "landsat-4"
	Landsat5  SensorFamily = "landsat-5"
	Landsat7  SensorFamily = "landsat-7"
	Landsat8  SensorFamily = "landsat-8"
	Landsat9  SensorFamily = "landsat-9"
	Sentinel2 SensorFamily = "sentinel-2"
)

// ProductType is an enum type for the reflectance product a scene carries
type ProductType string

// SurfaceReflectance corresponds to atmospherically corrected products
const SurfaceReflectance ProductType = "SR"

// TopOfAtmosphere corresponds to uncorrected at-satellite reflectance
const TopOfAtmosphere ProductType = "TOA"

// Canonical reflectance band names, in unmixing column order
var ReflectanceBands = []string{"blue", "green", "red", "nir", "swir1", "swir2"}

// QABandName is the canonical name of the quality-assurance bitfield band
const QABandName = "pixel_qa"

// Scene is one raster acquisition for one tile and date. All bands share the
// scene's grid; a scene is immutable once ingested except for bands added by
// downstream stages.
type Scene struct {
	ID           string
	TileID       string
	Sensor       SensorFamily
	Product      ProductType
	AcquiredDate time.Time
	CloudCover   float64
	SunAzimuth   float64
	SunElevation float64
	PixelSize    float64 // meters
	Width        int
	Height       int
	Bands        map[string]*raster.Grid
}

// Band returns the named band or an error naming the gap. A missing band is
// a contract violation between the scene source and the pipeline, not a
// per-pixel condition.
func (s *Scene) Band(name string) (*raster.Grid, error) {
	band, ok := s.Bands[name]
	if !ok {
		return nil, fmt.Errorf("scene %s has no %q band", s.ID, name)
	}
	return band, nil
}

// AddBand attaches a derived band to the scene, overwriting any prior band
// of the same name
func (s *Scene) AddBand(name string, band *raster.Grid) error {
	if band.Width != s.Width || band.Height != s.Height {
		return fmt.Errorf("band %q (%dx%d) does not align with scene %s grid (%dx%d)",
			name, band.Width, band.Height, s.ID, s.Width, s.Height)
	}
	if s.Bands == nil {
		s.Bands = map[string]*raster.Grid{}
	}
	s.Bands[name] = band
	return nil
}

// ApplyValidMask marks every band cell no-data where the valid mask is
// clear. Downstream stages then see masked pixels as missing, never as zero.
func (s *Scene) ApplyValidMask(valid *raster.Mask) {
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			if valid.At(row, col) {
				continue
			}
			for _, band := range s.Bands {
				band.SetNoData(row, col)
			}
		}
	}
}
