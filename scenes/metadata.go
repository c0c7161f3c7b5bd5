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
	"strconv"
	"time"
)

// Properties is a scene's raw metadata bag as delivered by the scene source.
// Field names vary between Landsat and Sentinel-2 product chains, so each
// canonical field is resolved through an ordered fallback chain.
type Properties map[string]interface{}

// Metadata holds the canonical per-scene fields the pipeline depends on
type Metadata struct {
	CloudCover   float64
	AcquiredDate time.Time
	SatelliteID  string
	SunAzimuth   float64
	SunElevation float64
}

// MissingMetadataError reports that no source property could satisfy a
// required canonical field. Scenes failing normalization are excluded from
// collection statistics; the run continues.
type MissingMetadataError struct {
	Field string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("no source property found for required metadata field %q", e.Field)
}

// Ordered source-property fallback chains; first present wins.
var (
	cloudCoverSources = []string{"CLOUD_COVER", "CLOUDY_PIXEL_PERCENTAGE"}
	dateSources       = []string{"DATE_ACQUIRED", "SENSING_TIME", "GENERATION_TIME"}
	satelliteSources  = []string{"SPACECRAFT_ID", "SATELLITE", "SPACECRAFT_NAME"}
	azimuthSources    = []string{"SUN_AZIMUTH", "SOLAR_AZIMUTH_ANGLE", "MEAN_SOLAR_AZIMUTH_ANGLE"}
	elevationSources  = []string{"SUN_ELEVATION"}
	zenithSources     = []string{"SOLAR_ZENITH_ANGLE", "MEAN_SOLAR_ZENITH_ANGLE"}
)

// Scene acquisition timestamps do not adhere to any single layout across
// product chains, so parsing is lenient "multi-format", as with the
// acquisition dates the scene archives emit.
var sceneTimeLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// ParseSceneTime is a drop-in replacement for time.Parse matching against
// the known scene timestamp layouts
func ParseSceneTime(raw string) (time.Time, error) {
	for _, layout := range sceneTimeLayouts {
		if output, err := time.Parse(layout, raw); err == nil {
			return output, nil
		}
	}
	return time.Time{}, fmt.Errorf("date could not be parsed by any expected time format: `%s`", raw)
}

// NormalizeMetadata resolves a raw property bag into the canonical schema.
// Solar elevation is derived from the zenith angle (elevation = 90 - zenith)
// for product chains that report zenith only.
func NormalizeMetadata(props Properties) (*Metadata, error) {
	out := &Metadata{}

	cloudCover, ok := firstFloat(props, cloudCoverSources)
	if !ok {
		return nil, &MissingMetadataError{Field: "cloud_cover"}
	}
	out.CloudCover = cloudCover

	rawDate, ok := firstString(props, dateSources)
	if !ok {
		return nil, &MissingMetadataError{Field: "date"}
	}
	acquired, err := ParseSceneTime(rawDate)
	if err != nil {
		return nil, &MissingMetadataError{Field: "date"}
	}
	out.AcquiredDate = acquired

	satellite, ok := firstString(props, satelliteSources)
	if !ok {
		return nil, &MissingMetadataError{Field: "satellite_name"}
	}
	out.SatelliteID = satellite

	azimuth, ok := firstFloat(props, azimuthSources)
	if !ok {
		return nil, &MissingMetadataError{Field: "sun_azimuth_angle"}
	}
	out.SunAzimuth = azimuth

	if elevation, ok := firstFloat(props, elevationSources); ok {
		out.SunElevation = elevation
	} else if zenith, ok := firstFloat(props, zenithSources); ok {
		out.SunElevation = 90 - zenith
	} else {
		return nil, &MissingMetadataError{Field: "sun_elevation_angle"}
	}

	return out, nil
}

// ResolveSensor maps a satellite identifier to its sensor family
func ResolveSensor(satelliteID string) (SensorFamily, error) {
	switch satelliteID {
	case "LANDSAT_4":
		return Landsat4, nil
	case "LANDSAT_5":
		return Landsat5, nil
	case "LANDSAT_7":
		return Landsat7, nil
	case "LANDSAT_8":
		return Landsat8, nil
	case "LANDSAT_9":
		return Landsat9, nil
	}
	if len(satelliteID) >= 10 && satelliteID[:10] == "Sentinel-2" {
		return Sentinel2, nil
	}
	return "", fmt.Errorf("unrecognized satellite identifier: %q", satelliteID)
}

func firstString(props Properties, keys []string) (string, bool) {
	for _, key := range keys {
		if raw, ok := props[key]; ok {
			if value, ok := raw.(string); ok && value != "" {
				return value, true
			}
		}
	}
	return "", false
}

func firstFloat(props Properties, keys []string) (float64, bool) {
	for _, key := range keys {
		raw, ok := props[key]
		if !ok {
			continue
		}
		switch value := raw.(type) {
		case float64:
			return value, true
		case float32:
			return float64(value), true
		case int:
			return float64(value), true
		case string:
			if parsed, err := strconv.ParseFloat(value, 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}
