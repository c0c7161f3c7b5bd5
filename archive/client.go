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

// Package archive retrieves scenes from the imagery archive service. The
// archive lists a tile's scenes as a GeoJSON feature collection and serves
// band payloads individually in the pipeline's grid wire format.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/venicegeo/lc-mosaic-factory/pipeline"
	"github.com/venicegeo/lc-mosaic-factory/raster"
	"github.com/venicegeo/lc-mosaic-factory/scenes"
	"github.com/venicegeo/lc-mosaic-factory/util"
)

// Client talks to the imagery archive. It implements the pipeline's scene
// source.
type Client struct {
	BaseURL    string
	Collection string
	HTTPClient *http.Client

	logCtx util.LogContext
}

// NewClient wires an archive client for a scene collection such as
// "landsat-8-sr".
func NewClient(logCtx util.LogContext, baseURL, collection string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Collection: collection,
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		logCtx:     logCtx,
	}
}

// Scenes lists and loads the scenes intersecting a tile for a year.
func (c *Client) Scenes(ctx context.Context, tile pipeline.Tile, year int) ([]*pipeline.RawScene, error) {
	listing, err := c.listScenes(ctx, tile, year)
	if err != nil {
		return nil, err
	}

	raw := make([]*pipeline.RawScene, 0, len(listing.Features))
	for _, feature := range listing.Features {
		scene, err := c.loadScene(ctx, feature)
		if err != nil {
			util.LogSimpleErr(c.logCtx, "archive scene could not be loaded, skipping", err)
			continue
		}
		raw = append(raw, scene)
	}
	return raw, nil
}

func (c *Client) listScenes(ctx context.Context, tile pipeline.Tile, year int) (*geojson.FeatureCollection, error) {
	query := url.Values{}
	query.Set("collection", c.Collection)
	query.Set("tile", tile.ID)
	query.Set("year", fmt.Sprintf("%d", year))

	body, err := c.get(ctx, "/scenes?"+query.Encode())
	if err != nil {
		return nil, util.SimpleErr(c.logCtx, "failed to list archive scenes for tile "+tile.ID, err)
	}

	listing, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, util.SimpleErr(c.logCtx, "archive scene listing is not valid GeoJSON", err)
	}
	return listing, nil
}

// loadScene resolves one listed feature into a raw scene with all its
// source bands fetched.
func (c *Client) loadScene(ctx context.Context, feature *geojson.Feature) (*pipeline.RawScene, error) {
	id, _ := feature.Properties["scene_id"].(string)
	if id == "" {
		return nil, errors.New("scene feature carries no scene_id property")
	}

	width := intProperty(feature, "width")
	height := intProperty(feature, "height")
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("scene %s has invalid raster dimensions %dx%d", id, width, height)
	}

	product := scenes.SurfaceReflectance
	if p, _ := feature.Properties["product"].(string); p != "" {
		product = scenes.ProductType(p)
	}

	bandNames, err := bandListProperty(feature)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %v", id, err)
	}

	bands := map[string]*raster.Grid{}
	for _, name := range bandNames {
		payload, err := c.get(ctx, fmt.Sprintf("/scenes/%s/bands/%s", id, name))
		if err != nil {
			return nil, fmt.Errorf("scene %s band %s could not be fetched: %v", id, name, err)
		}
		grid, err := raster.DecodeGrid(width, height, payload)
		if err != nil {
			return nil, fmt.Errorf("scene %s band %s could not be decoded: %v", id, name, err)
		}
		bands[name] = grid
	}

	pixelSize, _ := feature.Properties["pixel_size"].(float64)
	if pixelSize == 0 {
		pixelSize = 30
	}

	properties := scenes.Properties{}
	for key, value := range feature.Properties {
		properties[key] = value
	}

	return &pipeline.RawScene{
		ID:         id,
		Properties: properties,
		Product:    product,
		PixelSize:  pixelSize,
		Width:      width,
		Height:     height,
		Bands:      bands,
	}, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	response, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return nil, fmt.Errorf("archive returned %s for %s", response.Status, path)
	}
	return io.ReadAll(response.Body)
}

func intProperty(feature *geojson.Feature, name string) int {
	switch value := feature.Properties[name].(type) {
	case float64:
		return int(value)
	case int:
		return value
	}
	return 0
}

func bandListProperty(feature *geojson.Feature) ([]string, error) {
	raw, ok := feature.Properties["bands"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, errors.New("scene feature carries no band list")
	}
	names := make([]string, 0, len(raw))
	for _, entry := range raw {
		if name, ok := entry.(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}
