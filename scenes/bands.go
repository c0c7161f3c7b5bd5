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

	"github.com/venicegeo/lc-mosaic-factory/raster"
)

type bandKey struct {
	Sensor  SensorFamily
	Product ProductType
}

// bandTables maps each sensor family and product level to its source band
// identifiers, in canonical order. The canonical names for Landsat are
// blue, green, red, nir, swir1, swir2, pixel_qa, tir; Sentinel-2 adds
// red_edge_1 and carries no thermal band.
var bandTables = map[bandKey]map[string]string{
	{Landsat4, SurfaceReflectance}: landsatTMSRBands,
	{Landsat5, SurfaceReflectance}: landsatTMSRBands,
	{Landsat7, SurfaceReflectance}: landsatTMSRBands,
	{Landsat8, SurfaceReflectance}: landsatOLISRBands,
	{Landsat9, SurfaceReflectance}: landsatOLISRBands,
	{Landsat4, TopOfAtmosphere}:    landsatTMTOABands,
	{Landsat5, TopOfAtmosphere}:    landsatTMTOABands,
	{Landsat7, TopOfAtmosphere}:    landsatETMTOABands,
	{Landsat8, TopOfAtmosphere}:    landsatOLITOABands,
	{Landsat9, TopOfAtmosphere}:    landsatOLITOABands,
	{Sentinel2, SurfaceReflectance}: sentinel2Bands,
	{Sentinel2, TopOfAtmosphere}:    sentinel2Bands,
}

var landsatTMSRBands = map[string]string{
	"blue":     "SR_B1",
	"green":    "SR_B2",
	"red":      "SR_B3",
	"nir":      "SR_B4",
	"swir1":    "SR_B5",
	"swir2":    "SR_B7",
	"pixel_qa": "QA_PIXEL",
	"tir":      "ST_B6",
}

var landsatOLISRBands = map[string]string{
	"blue":     "SR_B2",
	"green":    "SR_B3",
	"red":      "SR_B4",
	"nir":      "SR_B5",
	"swir1":    "SR_B6",
	"swir2":    "SR_B7",
	"pixel_qa": "QA_PIXEL",
	"tir":      "ST_B10",
}

var landsatTMTOABands = map[string]string{
	"blue":     "B1",
	"green":    "B2",
	"red":      "B3",
	"nir":      "B4",
	"swir1":    "B5",
	"swir2":    "B7",
	"pixel_qa": "QA_PIXEL",
	"tir":      "B6",
}

var landsatETMTOABands = map[string]string{
	"blue":     "B1",
	"green":    "B2",
	"red":      "B3",
	"nir":      "B4",
	"swir1":    "B5",
	"swir2":    "B7",
	"pixel_qa": "QA_PIXEL",
	"tir":      "B6_VCID_1",
}

var landsatOLITOABands = map[string]string{
	"blue":     "B2",
	"green":    "B3",
	"red":      "B4",
	"nir":      "B5",
	"swir1":    "B6",
	"swir2":    "B7",
	"pixel_qa": "QA_PIXEL",
	"tir":      "B10",
}

var sentinel2Bands = map[string]string{
	"blue":       "B2",
	"green":      "B3",
	"red":        "B4",
	"red_edge_1": "B5",
	"nir":        "B8",
	"swir1":      "B11",
	"swir2":      "B12",
	"pixel_qa":   "QA60",
}

// SourceBandName returns the raw archive band identifier backing a canonical
// band name for the given sensor family and product level.
func SourceBandName(sensor SensorFamily, product ProductType, canonical string) (string, error) {
	table, ok := bandTables[bandKey{sensor, product}]
	if !ok {
		return "", fmt.Errorf("no band table for sensor %s product %s", sensor, product)
	}
	source, ok := table[canonical]
	if !ok {
		return "", fmt.Errorf("sensor %s product %s has no band named %q", sensor, product, canonical)
	}
	return source, nil
}

// RenameBands rewrites a raw source-named band set to canonical names.
// Bands with no canonical mapping are dropped. Returns an error if any
// canonical reflectance band or the QA band is missing from the input.
func RenameBands(sensor SensorFamily, product ProductType, source map[string]*raster.Grid) (map[string]*raster.Grid, error) {
	table, ok := bandTables[bandKey{sensor, product}]
	if !ok {
		return nil, fmt.Errorf("no band table for sensor %s product %s", sensor, product)
	}

	renamed := map[string]*raster.Grid{}
	for canonical, raw := range table {
		if band, ok := source[raw]; ok {
			renamed[canonical] = band
		}
	}

	required := append([]string{}, ReflectanceBands...)
	required = append(required, QABandName)
	for _, name := range required {
		if _, ok := renamed[name]; !ok {
			return nil, fmt.Errorf("source scene is missing required band %q (%s %s)", name, sensor, product)
		}
	}
	return renamed, nil
}
