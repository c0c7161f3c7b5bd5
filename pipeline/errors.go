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

// Package pipeline orchestrates the per-tile compositing run: scene
// retrieval, mask construction, unmixing, seasonal reduction, and delivery
// to the composite sink, with tiles processed in parallel.
package pipeline

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded marks a sink rejection caused by the output queue being
// full. Submissions hitting it are retried with backoff rather than failed.
var ErrQuotaExceeded = errors.New("composite sink quota exceeded")

// TileLookupError reports that a tile named by the run could not be
// resolved in the tile catalog.
type TileLookupError struct {
	TileID string
	Err    error
}

func (e *TileLookupError) Error() string {
	return fmt.Sprintf("tile %s could not be resolved: %v", e.TileID, e.Err)
}

func (e *TileLookupError) Unwrap() error {
	return e.Err
}
