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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMetadata_Landsat(t *testing.T) {
	// Mock
	props := Properties{
		"CLOUD_COVER":   12.5,
		"DATE_ACQUIRED": "2021-07-14",
		"SPACECRAFT_ID": "LANDSAT_8",
		"SUN_AZIMUTH":   147.3,
		"SUN_ELEVATION": 58.2,
	}

	// Tested code
	meta, err := NormalizeMetadata(props)

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, 12.5, meta.CloudCover)
	assert.Equal(t, "LANDSAT_8", meta.SatelliteID)
	assert.Equal(t, 2021, meta.AcquiredDate.Year())
	assert.Equal(t, 147.3, meta.SunAzimuth)
	assert.Equal(t, 58.2, meta.SunElevation)
}

func TestNormalizeMetadata_SentinelFallbacks(t *testing.T) {
	// Mock
	props := Properties{
		"CLOUDY_PIXEL_PERCENTAGE":  3.0,
		"SENSING_TIME":             "2022-01-05T10:30:00Z",
		"SPACECRAFT_NAME":          "Sentinel-2A",
		"MEAN_SOLAR_AZIMUTH_ANGLE": 161.0,
		"MEAN_SOLAR_ZENITH_ANGLE":  28.0,
	}

	// Tested code
	meta, err := NormalizeMetadata(props)

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, 3.0, meta.CloudCover)
	assert.Equal(t, "Sentinel-2A", meta.SatelliteID)
	assert.Equal(t, 161.0, meta.SunAzimuth)
	assert.Equal(t, 62.0, meta.SunElevation) // 90 - zenith
}

func TestNormalizeMetadata_PrefersPrimarySource(t *testing.T) {
	// Mock
	props := Properties{
		"CLOUD_COVER":             5.0,
		"CLOUDY_PIXEL_PERCENTAGE": 99.0,
		"DATE_ACQUIRED":           "2020-03-01",
		"SPACECRAFT_ID":           "LANDSAT_5",
		"SUN_AZIMUTH":             100.0,
		"SUN_ELEVATION":           45.0,
	}

	// Tested code
	meta, err := NormalizeMetadata(props)

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, 5.0, meta.CloudCover)
}

func TestNormalizeMetadata_MissingField(t *testing.T) {
	// Mock: no date property at all
	props := Properties{
		"CLOUD_COVER":   1.0,
		"SPACECRAFT_ID": "LANDSAT_8",
		"SUN_AZIMUTH":   100.0,
		"SUN_ELEVATION": 45.0,
	}

	// Tested code
	meta, err := NormalizeMetadata(props)

	// Asserts
	assert.Nil(t, meta)
	assert.NotNil(t, err)
	missing, ok := err.(*MissingMetadataError)
	assert.True(t, ok)
	assert.Equal(t, "date", missing.Field)
}

func TestNormalizeMetadata_StringNumbers(t *testing.T) {
	// Mock: property bags sometimes carry numerics as strings
	props := Properties{
		"CLOUD_COVER":   "22.1",
		"DATE_ACQUIRED": "2019-09-09",
		"SATELLITE":     "LANDSAT_7",
		"SUN_AZIMUTH":   "88.0",
		"SUN_ELEVATION": "30.5",
	}

	// Tested code
	meta, err := NormalizeMetadata(props)

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, 22.1, meta.CloudCover)
	assert.Equal(t, 30.5, meta.SunElevation)
}

func TestParseSceneTime(t *testing.T) {
	for _, raw := range []string{
		"2021-07-14",
		"2021-07-14T10:30:00Z",
		"2021-07-14T10:30:00.123456Z",
		"2021-07-14T10:30:00",
	} {
		parsed, err := ParseSceneTime(raw)
		assert.Nil(t, err, "expected layout to parse: %s", raw)
		assert.Equal(t, 2021, parsed.Year())
	}

	_, err := ParseSceneTime("14/07/2021")
	assert.NotNil(t, err)
}

func TestResolveSensor(t *testing.T) {
	sensor, err := ResolveSensor("LANDSAT_8")
	assert.Nil(t, err)
	assert.Equal(t, Landsat8, sensor)

	sensor, err = ResolveSensor("Sentinel-2B")
	assert.Nil(t, err)
	assert.Equal(t, Sentinel2, sensor)

	_, err = ResolveSensor("SPOT-6")
	assert.NotNil(t, err)
}
