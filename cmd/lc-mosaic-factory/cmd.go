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
	cli "gopkg.in/urfave/cli.v1"
)

var commands = cli.Commands{
	cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Build the composites for a territory and year",
		Action:  runAction,
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "year",
				Usage: "Calendar year to composite",
			},
			cli.StringFlag{
				Name:  "sensor",
				Usage: "Scene collection to draw from (e.g. landsat-8)",
				Value: "landsat-8",
			},
		},
	},
	cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Launch the lc-mosaic-factory webserver",
		Action:  serveAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the mosaic factory CLI",
		Action:  versionAction,
	},
	cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Update database schema",
		Action:  migrateDatabaseAction,
	},
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "lc-mosaic-factory"
	app.Usage = "Launch a lc-mosaic-factory process"
	app.Commands = commands
	return
}
