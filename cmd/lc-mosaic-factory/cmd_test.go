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
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/venicegeo/lc-mosaic-factory/util"
)

func TestServe_CallsLaunchServer(t *testing.T) {
	success := make(chan bool)
	launchServerFunc = func(portStr string, router *mux.Router) { // Mock
		success <- true
	}
	timer := time.NewTimer(1 * time.Second)

	go serveAction(nil)

	select {
	case <-success:
	case <-timer.C:
		assert.Fail(t, "launchServer not called within 1 second of serve()")
	}
}

func TestServe_BaseHealthCheckEndpoint(t *testing.T) {
	// Mock
	router := createRouter(&util.BasicLogContext{}, &runController{})

	// Tested code
	req := httptest.NewRequest("GET", "/", strings.NewReader(""))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, req)

	// Asserts
	responseBody, _ := io.ReadAll(response.Result().Body)
	assert.Equal(t, "OK", string(responseBody))
}

func TestServe_StatusEndpoint(t *testing.T) {
	// Mock
	router := createRouter(&util.BasicLogContext{}, &runController{})

	// Tested code
	req := httptest.NewRequest("GET", "/status", strings.NewReader(""))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, req)

	// Asserts
	assert.Equal(t, 200, response.Code)
	body, _ := io.ReadAll(response.Result().Body)
	assert.Contains(t, string(body), `"running":false`)
}

func TestServe_CancelWithoutRun(t *testing.T) {
	// Mock
	router := createRouter(&util.BasicLogContext{}, &runController{})

	// Tested code
	req := httptest.NewRequest("POST", "/cancel", strings.NewReader(""))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, req)

	// Asserts
	assert.Equal(t, 409, response.Code)
}

func TestRunEndpoint_FailsWithoutArchiveConfig(t *testing.T) {
	// Mock: no MOSAIC_ARCHIVE_URL in the environment
	t.Setenv(archiveURLEnv, "")
	router := createRouter(&util.BasicLogContext{}, &runController{})

	// Tested code
	req := httptest.NewRequest("POST", "/run?year=2022", strings.NewReader(""))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, req)

	// Asserts
	assert.Equal(t, 500, response.Code)
}

func TestCreateCliApp(t *testing.T) {
	// Tested code
	app := createCliApp()

	// Asserts
	assert.Equal(t, "lc-mosaic-factory", app.Name)
	names := []string{}
	for _, command := range app.Commands {
		names = append(names, command.Name)
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "version")
}
