// Copyright 2015 Google Inc. All Rights Reserved.
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

// Package perms answers the one question the mount command needs about
// the process's own identity: its uid/gid, which the mount command
// passes to the dispatcher in fs.ServerConfig.
package perms

import "os"

// MyUserAndGroup returns the current process's real uid and gid.
// There's no third-party wrapper for this among this module's
// dependencies — it's a direct read of process state, not something a
// library adds value over.
func MyUserAndGroup() (uid, gid uint32, err error) {
	return uint32(os.Getuid()), uint32(os.Getgid()), nil
}
