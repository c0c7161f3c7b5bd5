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

// Package mosaic reduces per-scene observation stacks into seasonal
// composite rasters: percentile-split dry and wet medians plus the
// min/max/amplitude/deviation statistics per band.
package mosaic

import "sort"

// dryThreshold returns the largest sample value whose cumulative share of
// the sorted stack stays at or below p percent. The rank is taken from the
// bottom, never below the first sample, so a small stack still yields a
// threshold instead of an empty season.
func dryThreshold(samples []float64, p float64) float64 {
	sorted := append([]float64{}, samples...)
	sort.Float64s(sorted)
	return sorted[thresholdRank(len(sorted), p)-1]
}

// wetThreshold is symmetric from the top of the stack.
func wetThreshold(samples []float64, p float64) float64 {
	sorted := append([]float64{}, samples...)
	sort.Float64s(sorted)
	return sorted[len(sorted)-thresholdRank(len(sorted), 100-p)]
}

// thresholdRank converts a percentage into a 1-based sample rank.
func thresholdRank(n int, p float64) int {
	rank := int(float64(n) * p / 100)
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return rank
}
