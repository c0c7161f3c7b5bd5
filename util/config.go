// Copyright 2016, RadiantBlue Technologies, Inc.
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

package util

import (
	"os"
	"strconv"
)

// Environment variables
const (
	MOSAIC_TERRITORY       = "MOSAIC_TERRITORY"
	MOSAIC_VERSION         = "MOSAIC_VERSION"
	MOSAIC_WORKERS         = "MOSAIC_WORKERS"
	MOSAIC_CLOUD_THRESHOLD = "MOSAIC_CLOUD_THRESHOLD"
	MOSAIC_QUALITY_BAND    = "MOSAIC_QUALITY_BAND"
	MOSAIC_SUBMIT_RETRIES  = "MOSAIC_SUBMIT_RETRIES"
	MOSAIC_PERCENTILE_DRY  = "MOSAIC_PERCENTILE_DRY"
	MOSAIC_PERCENTILE_WET  = "MOSAIC_PERCENTILE_WET"
)

const defaultWorkers = 4

// GetTerritory returns a string for the MOSAIC_TERRITORY environment variable
func GetTerritory() string {
	territory, ok := os.LookupEnv(MOSAIC_TERRITORY)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get territory from the environment. Composites will carry an empty territory.")
	}
	return territory
}

// GetVersion returns a string for the MOSAIC_VERSION environment variable,
// defaulting to "1"
func GetVersion() string {
	if version, ok := os.LookupEnv(MOSAIC_VERSION); ok {
		return version
	}
	return "1"
}

// GetWorkerCount returns the number of concurrent tile workers
func GetWorkerCount() int {
	if raw, ok := os.LookupEnv(MOSAIC_WORKERS); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
		LogAlert(&BasicLogContext{}, "Invalid MOSAIC_WORKERS value: "+raw+". Using default.")
	}
	return defaultWorkers
}

// GetIntEnv returns an integer environment value or its default
func GetIntEnv(name string, fallback int) int {
	if raw, ok := os.LookupEnv(name); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
		LogAlert(&BasicLogContext{}, "Invalid "+name+" value: "+raw+". Using default.")
	}
	return fallback
}

// GetQualityBand returns the band name used for percentile compositing
func GetQualityBand() string {
	if band, ok := os.LookupEnv(MOSAIC_QUALITY_BAND); ok {
		return band
	}
	return "ndvi"
}
