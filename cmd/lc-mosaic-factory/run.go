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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	cli "gopkg.in/urfave/cli.v1"

	_ "github.com/lib/pq"

	"github.com/venicegeo/lc-mosaic-factory/archive"
	"github.com/venicegeo/lc-mosaic-factory/cloudmask"
	"github.com/venicegeo/lc-mosaic-factory/pipeline"
	"github.com/venicegeo/lc-mosaic-factory/store"
	"github.com/venicegeo/lc-mosaic-factory/util"
)

const archiveURLEnv = "MOSAIC_ARCHIVE_URL"

// buildRunner assembles the full pipeline from the environment: archive
// client as scene source, Postgres store as tile catalog and sink.
func buildRunner(logCtx util.LogContext, sensor string) (*pipeline.Runner, error) {
	archiveURL := os.Getenv(archiveURLEnv)
	if archiveURL == "" {
		return nil, fmt.Errorf("no archive endpoint configured in %s", archiveURLEnv)
	}

	profile := pipeline.DefaultProfile(util.GetTerritory())
	profile.QualityBand = util.GetQualityBand()
	profile.CloudCoverMax = float64(util.GetIntEnv(util.MOSAIC_CLOUD_THRESHOLD, 50))

	source := archive.NewClient(logCtx, archiveURL, sensor+"-sr")
	processor := pipeline.NewProcessor(source, profile, sensor, util.GetVersion())
	processor.MaskOptions = cloudmask.DefaultOptions()

	pg := store.NewStore(logCtx, store.ConnectionProvider(getDbConnectionFunc))
	return pipeline.NewRunner(pg, pg, processor), nil
}

func runAction(c *cli.Context) {
	logCtx := &util.BasicLogContext{}

	// Local configuration is optional; the platform environment wins.
	godotenv.Load()

	year := c.Int("year")
	if year == 0 {
		year = time.Now().Year() - 1
	}

	runner, err := buildRunner(logCtx, c.String("sensor"))
	if err != nil {
		util.LogSimpleErr(logCtx, "could not assemble the pipeline", err)
		return
	}

	if err := runner.Run(context.Background(), logCtx, year); err != nil {
		util.LogSimpleErr(logCtx, "run failed", err)
	}
}
