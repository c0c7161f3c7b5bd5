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

import "time"

// TerritoryProfile carries the per-territory processing parameters: the
// seasonal date window, the cloud cover admission ceiling, the quality
// band driving the percentile split, and the scene exclusion list for
// observations known to be corrupt.
type TerritoryProfile struct {
	Name           string
	WindowStart    time.Time
	WindowEnd      time.Time
	CloudCoverMax  float64
	QualityBand    string
	EndmemberModel string

	// TrashList names scene IDs excluded from every run of the territory.
	TrashList []string
}

// DefaultProfile is a permissive profile for territories without a tuned
// configuration.
func DefaultProfile(name string) TerritoryProfile {
	return TerritoryProfile{
		Name:           name,
		CloudCoverMax:  50,
		QualityBand:    "ndvi",
		EndmemberModel: "default",
	}
}

// Excluded reports whether a scene is on the territory's exclusion list.
func (p TerritoryProfile) Excluded(sceneID string) bool {
	for _, id := range p.TrashList {
		if id == sceneID {
			return true
		}
	}
	return false
}

// Window applies the territory's seasonal window to a calendar year. A
// profile without a window defaults to the whole year.
func (p TerritoryProfile) Window(year int) (time.Time, time.Time) {
	if p.WindowStart.IsZero() || p.WindowEnd.IsZero() {
		return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)
	}
	start := time.Date(year, p.WindowStart.Month(), p.WindowStart.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(year, p.WindowEnd.Month(), p.WindowEnd.Day(), 23, 59, 59, 0, time.UTC)
	if end.Before(start) {
		end = end.AddDate(1, 0, 0)
	}
	return start, end
}
