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
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/lc-mosaic-factory/pipeline"
	"github.com/venicegeo/lc-mosaic-factory/util"
)

func getPortStr() string {
	if port, ok := os.LookupEnv("PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

// runController serializes web-triggered runs: one run at a time, with the
// last runner kept around for status queries.
type runController struct {
	mu      sync.Mutex
	running bool
	runner  *pipeline.Runner
	cancel  context.CancelFunc
}

func (rc *runController) start(logCtx util.LogContext, sensor string, year int) (bool, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.running {
		return false, nil
	}

	runner, err := buildRunner(logCtx, sensor)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	rc.running = true
	rc.runner = runner
	rc.cancel = cancel

	go func() {
		if err := runner.Run(ctx, logCtx, year); err != nil {
			util.LogSimpleErr(logCtx, "web-triggered run failed", err)
		}
		rc.mu.Lock()
		rc.running = false
		rc.mu.Unlock()
	}()
	return true, nil
}

func (rc *runController) status() map[string]interface{} {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	status := map[string]interface{}{"running": rc.running}
	if rc.runner != nil {
		status["stats"] = rc.runner.Stats()
	}
	return status
}

func (rc *runController) stop() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if !rc.running || rc.cancel == nil {
		return false
	}
	rc.cancel()
	return true
}

func createRouter(logCtx util.LogContext, controller *runController) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("OK"))
	})

	router.HandleFunc("/status", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(controller.status())
	}).Methods("GET")

	router.HandleFunc("/run", func(writer http.ResponseWriter, request *http.Request) {
		year, _ := strconv.Atoi(request.URL.Query().Get("year"))
		if year == 0 {
			year = time.Now().Year() - 1
		}
		sensor := request.URL.Query().Get("sensor")
		if sensor == "" {
			sensor = "landsat-8"
		}

		started, err := controller.start(logCtx, sensor, year)
		if err != nil {
			http.Error(writer, err.Error(), http.StatusInternalServerError)
			return
		}
		if !started {
			http.Error(writer, "a run is already in progress", http.StatusConflict)
			return
		}
		writer.WriteHeader(http.StatusAccepted)
		writer.Write([]byte("started"))
	}).Methods("POST")

	router.HandleFunc("/cancel", func(writer http.ResponseWriter, request *http.Request) {
		if controller.stop() {
			writer.Write([]byte("canceling"))
			return
		}
		http.Error(writer, "no run in progress", http.StatusConflict)
	}).Methods("POST")

	return router
}

func serveAction(*cli.Context) {
	logContext := &(util.BasicLogContext{})

	portStr := getPortStr()
	router := createRouter(logContext, &runController{})
	launchServerFunc(portStr, router)
}

var launchServerFunc = launchServer

func launchServer(portStr string, router *mux.Router) {
	server := http.Server{
		Addr:    portStr,
		Handler: router,
	}

	log.Fatal(server.ListenAndServe())
}
