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

// Collection 2 Level-2 radiometric rescale coefficients. Optical surface
// reflectance digital numbers convert to reflectance via DN*2.75e-5 - 0.2,
// thermal to Kelvin via DN*3.41802e-3 + 149. Both are then restored to the
// pipeline's integer-friendly working range: reflectance x10000, thermal x10.
const (
	srOpticalGain   = 0.0000275
	srOpticalOffset = -0.2
	srThermalGain   = 0.00341802
	srThermalOffset = 149.0

	reflectanceScale = 10000.0
	thermalScale     = 10.0
)

// ScaleReflectance normalizes a scene's band values into the working range.
// Surface reflectance bands are rescaled with the Collection 2 coefficients;
// top-of-atmosphere reflectance is already [0,1] and only needs the working
// range multiplier. The QA band is never scaled.
func ScaleReflectance(s *Scene) {
	for name, band := range s.Bands {
		if name == QABandName {
			continue
		}
		thermal := name == "tir"
		for row := 0; row < band.Height; row++ {
			for col := 0; col < band.Width; col++ {
				if band.IsNoData(row, col) {
					continue
				}
				dn := band.At(row, col)
				var scaled float64
				switch {
				case s.Product == SurfaceReflectance && thermal:
					scaled = (dn*srThermalGain + srThermalOffset) * thermalScale
				case s.Product == SurfaceReflectance:
					scaled = (dn*srOpticalGain + srOpticalOffset) * reflectanceScale
				case thermal:
					scaled = dn * thermalScale
				default:
					scaled = dn * reflectanceScale
				}
				band.Set(row, col, scaled)
			}
		}
	}
}
