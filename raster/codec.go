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

package raster

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// EncodeGrid serializes a grid as gzipped little-endian float64 cells in
// row-major order. NaN cells survive the round trip as no-data. This is
// the wire and storage format for band payloads.
func EncodeGrid(g *Grid) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := binary.Write(zw, binary.LittleEndian, g.Values()); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeGrid restores a grid serialized by EncodeGrid.
func DecodeGrid(width, height int, data []byte) (*Grid, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	if len(raw) != width*height*8 {
		return nil, fmt.Errorf("band payload holds %d bytes, expected %d", len(raw), width*height*8)
	}

	grid := NewGrid(width, height)
	cells := grid.Values()
	for i := range cells {
		cells[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return grid, nil
}
