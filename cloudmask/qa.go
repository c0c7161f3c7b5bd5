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

// Package cloudmask builds per-scene cloud and shadow masks from QA
// bitfields, spectral tests, temporal dark-object statistics, and solar
// geometry, then composes them into a single valid-pixel mask.
package cloudmask

import (
	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
)

// QA_PIXEL bit positions, Landsat Collection 2. Sentinel-2 QA60 marks
// opaque and cirrus clouds at bits 10 and 11 and carries no shadow bit.
const (
	landsatCloudBit  = 3
	landsatShadowBit = 4

	sentinelOpaqueBit = 10
	sentinelCirrusBit = 11
)

const (
	MethodQACloud   = "qa-cloud"
	MethodQAShadow  = "qa-shadow"
	MethodScore     = "cloud-score"
	MethodTDOM      = "tdom"
	MethodProjected = "shadow-projection"
)

// QACloudMask flags pixels whose QA bitfield marks cloud.
func QACloudMask(s *scenes.Scene) (*raster.Mask, error) {
	qa, err := s.Band(scenes.QABandName)
	if err != nil {
		return nil, err
	}
	mask := raster.NewMask(qa.Width, qa.Height, MethodQACloud)
	for row := 0; row < qa.Height; row++ {
		for col := 0; col < qa.Width; col++ {
			if qa.IsNoData(row, col) {
				continue
			}
			bits := uint32(qa.At(row, col))
			if s.Sensor == scenes.Sentinel2 {
				mask.Set(row, col, bits&(1<<sentinelOpaqueBit) != 0 || bits&(1<<sentinelCirrusBit) != 0)
			} else {
				mask.Set(row, col, bits&(1<<landsatCloudBit) != 0)
			}
		}
	}
	return mask, nil
}

// QAShadowMask flags pixels whose QA bitfield marks cloud shadow. Sentinel-2
// QA60 has no shadow flag, so its mask is uniformly clear rather than an
// error; shadow detection for Sentinel-2 relies on the other methods.
func QAShadowMask(s *scenes.Scene) (*raster.Mask, error) {
	qa, err := s.Band(scenes.QABandName)
	if err != nil {
		return nil, err
	}
	mask := raster.NewMask(qa.Width, qa.Height, MethodQAShadow)
	if s.Sensor == scenes.Sentinel2 {
		return mask, nil
	}
	for row := 0; row < qa.Height; row++ {
		for col := 0; col < qa.Width; col++ {
			if qa.IsNoData(row, col) {
				continue
			}
			bits := uint32(qa.At(row, col))
			mask.Set(row, col, bits&(1<<landsatShadowBit) != 0)
		}
	}
	return mask, nil
}
