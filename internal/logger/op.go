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
	"github.com/jacobsa/timeutil"
)

// OpTracker records one line per dispatcher call: operation name, path,
// result code, and elapsed time, so every entry and exit through the
// dispatcher leaves an audit trail.
type OpTracker struct {
	clock      timeutil.Clock
	errorsOnly bool
}

// NewOpTracker builds an OpTracker. When errorsOnly is set, successful
// calls are not logged at all — only failures are, matching the
// log_errors_only mount policy.
func NewOpTracker(clock timeutil.Clock, errorsOnly bool) *OpTracker {
	return &OpTracker{clock: clock, errorsOnly: errorsOnly}
}

// Track starts timing one dispatcher call and returns a closure the
// caller defers, passing a pointer to its named error return value:
//
//	func (fs *fileSystem) Foo(...) (err error) {
//	    defer fs.ops.Track("Foo", path)(&err)
//	    ...
//	}
//
// On return, the closure logs the operation at Info severity (result=OK)
// or Error severity (result=<err>), always including elapsed time.
func (t *OpTracker) Track(op, path string) func(*error) {
	start := t.clock.Now()
	return func(errp *error) {
		elapsed := t.clock.Now().Sub(start)

		var err error
		if errp != nil {
			err = *errp
		}

		if err == nil {
			if !t.errorsOnly {
				Infof("op=%s path=%q result=OK elapsed=%s", op, path, elapsed)
			}
			return
		}

		Errorf("op=%s path=%q result=%v elapsed=%s", op, path, err, elapsed)
	}
}
