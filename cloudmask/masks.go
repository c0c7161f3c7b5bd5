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
	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
)

// Options toggles the individual detection methods and carries their
// tuning parameters. The zero value disables everything; use
// DefaultOptions for the standard configuration.
type Options struct {
	QACloud          bool
	QAShadow         bool
	CloudScore       bool
	TDOM             bool
	ShadowProjection bool

	CloudThresh     float64
	ZScoreThresh    float64
	ShadowSumThresh float64
	DilatePixels    int
}

// DefaultOptions enables every detection method with the standard thresholds
func DefaultOptions() Options {
	return Options{
		QACloud:          true,
		QAShadow:         true,
		CloudScore:       true,
		TDOM:             true,
		ShadowProjection: true,
		CloudThresh:      DefaultCloudThresh,
		ZScoreThresh:     DefaultZScoreThresh,
		ShadowSumThresh:  DefaultShadowSumThresh,
		DilatePixels:     DefaultDilatePixels,
	}
}

// SceneMasks holds the per-method detections for one scene plus the
// composite valid mask. Valid is set where NO method flagged the pixel.
type SceneMasks struct {
	Cloud  *raster.Mask
	Shadow *raster.Mask
	Valid  *raster.Mask
}

// BuildMasks runs the enabled detection methods against a scene and
// composes their union into cloud, shadow, and valid masks. TDOM needs
// collection statistics; pass nil stats to skip it even when enabled (a
// tile with too few scenes for statistics still gets the other methods).
func BuildMasks(s *scenes.Scene, stats *TemporalStats, opts Options) (*SceneMasks, error) {
	cloud := raster.NewMask(s.Width, s.Height, MethodQACloud)
	shadow := raster.NewMask(s.Width, s.Height, MethodQAShadow)

	if opts.QACloud {
		m, err := QACloudMask(s)
		if err != nil {
			return nil, err
		}
		cloud.Or(m)
	}
	if opts.CloudScore {
		m, err := ScoreCloudMask(s, opts.CloudThresh)
		if err != nil {
			return nil, err
		}
		cloud.Or(m)
	}
	if opts.QAShadow {
		m, err := QAShadowMask(s)
		if err != nil {
			return nil, err
		}
		shadow.Or(m)
	}

	tdom := raster.NewMask(s.Width, s.Height, MethodTDOM)
	if opts.TDOM && stats != nil {
		m, err := TDOMMask(s, stats, opts.ZScoreThresh, opts.ShadowSumThresh, opts.DilatePixels)
		if err != nil {
			return nil, err
		}
		tdom = m
		shadow.Or(m)
	}
	if opts.ShadowProjection {
		m, err := ProjectShadows(s, cloud, tdom, opts.ShadowSumThresh, opts.DilatePixels)
		if err != nil {
			return nil, err
		}
		shadow.Or(m)
	}

	valid := raster.NewMask(s.Width, s.Height, "valid")
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			valid.Set(row, col, !cloud.At(row, col) && !shadow.At(row, col))
		}
	}
	return &SceneMasks{Cloud: cloud, Shadow: shadow, Valid: valid}, nil
}
