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

package pipeline

import (
	"context"

	"github.com/venicegeo/lc-mosaic-factory/cloudmask"
	"github.com/venicegeo/lc-mosaic-factory/indexes"
	"github.com/venicegeo/lc-mosaic-factory/mosaic"
	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
	"github.com/venicegeo/lc-mosaic-factory/sma"
	"github.com/venicegeo/lc-mosaic-factory/util"
)

// Processor builds one tile's composite from raw archive scenes.
type Processor struct {
	Scenes  SceneSource
	Profile TerritoryProfile

	// Sensor labels the scene collection the run draws from and becomes
	// part of every composite key.
	Sensor  string
	Version string

	MaskOptions cloudmask.Options
	Indexes     []string
}

// NewProcessor wires a processor with the standard mask configuration.
func NewProcessor(source SceneSource, profile TerritoryProfile, sensor, version string) *Processor {
	return &Processor{
		Scenes:      source,
		Profile:     profile,
		Sensor:      sensor,
		Version:     version,
		MaskOptions: cloudmask.DefaultOptions(),
	}
}

// ProcessTile runs the full per-tile sequence: scene admission and
// normalization, the temporal statistics barrier over the admitted
// collection, per-scene masking with spectral unmixing and index
// computation, and finally the seasonal reduction. Scenes that fail
// normalization are logged and dropped; the tile fails only when nothing
// usable remains.
func (p *Processor) ProcessTile(ctx context.Context, logCtx util.LogContext, tile Tile, year int) (*mosaic.Composite, error) {
	raw, err := p.Scenes.Scenes(ctx, tile, year)
	if err != nil {
		return nil, err
	}

	admitted := p.admitScenes(logCtx, tile, raw)
	if len(admitted) == 0 {
		return nil, &mosaic.ErrInsufficientCoverage{TileID: tile.ID}
	}

	// Barrier: the dark-outlier statistics need every admitted scene.
	var stats *cloudmask.TemporalStats
	if p.MaskOptions.TDOM && len(admitted) >= 2 {
		stats, err = cloudmask.ComputeTemporalStats(admitted)
		if err != nil {
			return nil, err
		}
	}

	model, err := sma.GetModel(p.Profile.EndmemberModel)
	if err != nil {
		return nil, err
	}

	windowStart, windowEnd := p.Profile.Window(year)
	layers := make([]*mosaic.Layer, 0, len(admitted))
	for _, s := range admitted {
		masks, err := cloudmask.BuildMasks(s, stats, p.MaskOptions)
		if err != nil {
			return nil, err
		}
		s.ApplyValidMask(masks.Valid)

		layer, err := p.buildLayer(s, model)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}

	composite := &mosaic.Composite{
		Territory: p.Profile.Name,
		TileID:    tile.ID,
		Year:      year,
		Sensor:    p.Sensor,
		Version:   p.Version,
		Width:     admitted[0].Width,
		Height:    admitted[0].Height,
	}
	opts := mosaic.Options{
		QualityBand:   p.Profile.QualityBand,
		PercentileDry: float64(util.GetIntEnv(util.MOSAIC_PERCENTILE_DRY, 25)),
		PercentileWet: float64(util.GetIntEnv(util.MOSAIC_PERCENTILE_WET, 75)),
		WindowStart:   windowStart,
		WindowEnd:     windowEnd,
	}
	if err := mosaic.Build(composite, layers, opts); err != nil {
		return nil, err
	}
	return composite, nil
}

// admitScenes normalizes raw scene metadata and applies the territory's
// admission rules. Individual scene failures never fail the tile.
func (p *Processor) admitScenes(logCtx util.LogContext, tile Tile, raw []*RawScene) []*scenes.Scene {
	admitted := []*scenes.Scene{}
	for _, r := range raw {
		if p.Profile.Excluded(r.ID) {
			util.LogInfo(logCtx, "scene "+r.ID+" is on the exclusion list, skipping")
			continue
		}

		meta, err := scenes.NormalizeMetadata(r.Properties)
		if err != nil {
			util.LogSimpleErr(logCtx, "scene "+r.ID+" metadata could not be normalized, skipping", err)
			continue
		}
		if meta.CloudCover > p.Profile.CloudCoverMax {
			continue
		}

		sensor, err := scenes.ResolveSensor(meta.SatelliteID)
		if err != nil {
			util.LogSimpleErr(logCtx, "scene "+r.ID+" has an unknown platform, skipping", err)
			continue
		}
		bands, err := scenes.RenameBands(sensor, r.Product, r.Bands)
		if err != nil {
			util.LogSimpleErr(logCtx, "scene "+r.ID+" band set is incomplete, skipping", err)
			continue
		}

		s := &scenes.Scene{
			ID:           r.ID,
			TileID:       tile.ID,
			Sensor:       sensor,
			Product:      r.Product,
			AcquiredDate: meta.AcquiredDate,
			CloudCover:   meta.CloudCover,
			SunAzimuth:   meta.SunAzimuth,
			SunElevation: meta.SunElevation,
			PixelSize:    r.PixelSize,
			Width:        r.Width,
			Height:       r.Height,
			Bands:        bands,
		}
		scenes.ScaleReflectance(s)
		admitted = append(admitted, s)
	}
	return admitted
}

// buildLayer derives a scene's composite contribution: reflectance bands,
// cover fractions with their indices, and the spectral index library.
func (p *Processor) buildLayer(s *scenes.Scene, model *sma.Model) (*mosaic.Layer, error) {
	layer := &mosaic.Layer{
		Date:  s.AcquiredDate,
		Bands: map[string]*raster.Grid{},
	}
	for _, name := range scenes.ReflectanceBands {
		band, err := s.Band(name)
		if err != nil {
			return nil, err
		}
		layer.Bands[name] = band
	}
	if tir, err := s.Band("tir"); err == nil {
		layer.Bands["tir"] = tir
	}

	fractions, err := sma.Unmix(s, model)
	if err != nil {
		return nil, err
	}
	for name, band := range fractions.Bands {
		layer.Bands[name] = band
	}
	if fractionIdx, err := sma.FractionIndexes(fractions); err == nil {
		for name, band := range fractionIdx {
			layer.Bands[name] = band
		}
	}

	spectral, err := indexes.ComputeAll(s, p.Indexes)
	if err != nil {
		return nil, err
	}
	for name, band := range spectral {
		layer.Bands[name] = band
	}

	quality, ok := layer.Bands[p.Profile.QualityBand]
	if !ok {
		quality, err = indexes.Compute(s, p.Profile.QualityBand)
		if err != nil {
			return nil, err
		}
		layer.Bands[p.Profile.QualityBand] = quality
	}
	layer.Quality = quality
	return layer, nil
}
