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

package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
)

// Severity levels for audit messages, mirroring syslog severities
const (
	ERROR = "error"
	ALERT = "alert"
	INFO  = "info"
)

// LogContext is the minimal context a component must supply so that its log
// messages can be attributed and correlated
type LogContext interface {
	AppName() string
	SessionID() string
}

// BasicLogContext is a free-standing LogContext for callers that have no
// component context of their own (main functions, tests)
type BasicLogContext struct {
	sessionID string
}

// AppName returns the application name
func (c *BasicLogContext) AppName() string {
	return "lc-mosaic-factory"
}

// SessionID returns a session ID, creating one if needed
func (c *BasicLogContext) SessionID() string {
	if c.sessionID == "" {
		c.sessionID = uuid.NewString()
	}
	return c.sessionID
}

type logMessage struct {
	App       string `json:"app"`
	Session   string `json:"session,omitempty"`
	Time      string `json:"time"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Actor     string `json:"actor,omitempty"`
	Action    string `json:"action,omitempty"`
	Actee     string `json:"actee,omitempty"`
	ErrorText string `json:"error,omitempty"`
}

// LogAuditInput carries the fields of a structured audit message
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity string
}

var logWriter = log.New(os.Stderr, "", 0)

func emit(ctx LogContext, msg logMessage) {
	msg.App = ctx.AppName()
	msg.Session = ctx.SessionID()
	msg.Time = time.Now().UTC().Format(time.RFC3339)
	encoded, err := json.Marshal(msg)
	if err != nil {
		logWriter.Printf(`{"severity":"%s","message":%q}`, ERROR, "log encoding failure: "+err.Error())
		return
	}
	logWriter.Println(string(encoded))
}

// LogInfo logs an informational message
func LogInfo(ctx LogContext, message string) {
	emit(ctx, logMessage{Severity: INFO, Message: message})
}

// LogAlert logs a condition that an operator should notice but that does not
// stop the run
func LogAlert(ctx LogContext, message string) {
	emit(ctx, logMessage{Severity: ALERT, Message: message})
}

// LogSimpleErr logs a message together with its underlying error
func LogSimpleErr(ctx LogContext, message string, err error) {
	msg := logMessage{Severity: ERROR, Message: message}
	if err != nil {
		msg.ErrorText = err.Error()
	}
	emit(ctx, msg)
}

// LogAudit logs a structured actor/action/actee audit record
func LogAudit(ctx LogContext, input LogAuditInput) {
	emit(ctx, logMessage{
		Severity: input.Severity,
		Message:  input.Message,
		Actor:    input.Actor,
		Action:   input.Action,
		Actee:    input.Actee,
	})
}

// SimpleErr builds an error from a message and a cause, logging it on the way
func SimpleErr(ctx LogContext, message string, err error) error {
	LogSimpleErr(ctx, message, err)
	return fmt.Errorf("%s: %w", message, err)
}
