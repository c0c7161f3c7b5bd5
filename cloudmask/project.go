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

// Candidate cloud-top heights in meters for shadow casting. Shadows from
// every height are unioned, since true cloud height is unknown.
var DefaultCloudHeights = []float64{200, 700, 1200, 2000, 5000}

// shadowOffset converts solar geometry and an assumed cloud height into a
// pixel displacement from cloud to shadow. The row axis follows the
// projection's y axis.
func shadowOffset(azimuthDeg, elevationDeg, cloudHeight, pixelSize float64) (dRow, dCol int) {
	azR := azimuthDeg*math.Pi/180 + math.Pi/2
	zenR := math.Pi/2 - elevationDeg*math.Pi/180
	distance := math.Tan(zenR) * cloudHeight
	dCol = int(math.Round(math.Cos(azR) * distance / pixelSize))
	dRow = int(math.Round(math.Sin(azR) * distance / pixelSize))
	return dRow, dCol
}

// ProjectShadows casts the cloud mask along the solar direction for each
// candidate cloud height and unions the results. Projected shadows are
// dilated, then kept only where the scene is actually dark: the pixel's
// infrared sum must fall below shadowSumThresh, and pixels already flagged
// as cloud or as TDOM outliers are excluded so each mask stays disjoint.
func ProjectShadows(s *scenes.Scene, cloud, tdom *raster.Mask, shadowSumThresh float64, dilatePixels int) (*raster.Mask, error) {
	nir, err := s.Band("nir")
	if err != nil {
		return nil, err
	}
	swir1, err := s.Band("swir1")
	if err != nil {
		return nil, err
	}
	swir2, err := s.Band("swir2")
	if err != nil {
		return nil, err
	}

	projected := raster.NewMask(s.Width, s.Height, MethodProjected)
	for _, height := range DefaultCloudHeights {
		dRow, dCol := shadowOffset(s.SunAzimuth, s.SunElevation, height, s.PixelSize)
		projected.Or(cloud.Translate(dRow, dCol))
	}
	if dilatePixels > 0 {
		projected = projected.FocalMax(dilatePixels)
	}

	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			if !projected.At(row, col) {
				continue
			}
			if nir.IsNoData(row, col) || swir1.IsNoData(row, col) || swir2.IsNoData(row, col) {
				projected.Set(row, col, false)
				continue
			}
			irSum := nir.At(row, col) + swir1.At(row, col) + swir2.At(row, col)
			dark := irSum < shadowSumThresh
			projected.Set(row, col, dark && !cloud.At(row, col) && !tdom.At(row, col))
		}
	}
	return projected, nil
}
