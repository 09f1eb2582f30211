// Copyright 2023 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/jacobsa/timeutil"
	"github.com/stretchr/testify/assert"

	"github.com/free5lot-go/catalogfs/cfg"
)

func withCapturedOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	defaultLoggerFactory = &loggerFactory{sysWriter: &buf, format: "text", level: cfg.InfoLogSeverity}
	defaultLogger = slog.New(
		defaultLoggerFactory.createJsonOrTextHandler(&buf, programLevelFor(cfg.InfoLogSeverity), ""),
	)
	return &buf
}

func TestOpTrackerLogsSuccessAtInfo(t *testing.T) {
	buf := withCapturedOutput(t)

	tracker := NewOpTracker(timeutil.RealClock(), false)
	var err error
	func() {
		defer tracker.Track("GetInodeAttributes", "a.txt")(&err)
	}()

	out := buf.String()
	assert.Contains(t, out, "severity=INFO")
	assert.Contains(t, out, "op=GetInodeAttributes")
	assert.Contains(t, out, "path=\"a.txt\"")
	assert.Contains(t, out, "result=OK")
}

func TestOpTrackerLogsFailureAtError(t *testing.T) {
	buf := withCapturedOutput(t)

	tracker := NewOpTracker(timeutil.RealClock(), false)
	err := errors.New("boom")
	func() {
		defer tracker.Track("OpenFile", "b.txt")(&err)
	}()

	out := buf.String()
	assert.Contains(t, out, "severity=ERROR")
	assert.Contains(t, out, "op=OpenFile")
	assert.Contains(t, out, "result=boom")
}

func TestOpTrackerErrorsOnlySuppressesSuccess(t *testing.T) {
	buf := withCapturedOutput(t)

	tracker := NewOpTracker(timeutil.RealClock(), true)
	var err error
	func() {
		defer tracker.Track("ReadDir", "c")(&err)
	}()

	assert.Empty(t, buf.String())
}

func TestOpTrackerErrorsOnlyStillLogsFailure(t *testing.T) {
	buf := withCapturedOutput(t)

	tracker := NewOpTracker(timeutil.RealClock(), true)
	err := errors.New("denied")
	func() {
		defer tracker.Track("Open", "d")(&err)
	}()

	assert.Contains(t, buf.String(), "severity=ERROR")
}
