// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshio

import "errors"

// ErrFormat indicates a file that does not follow its format: a missing or
// garbled header, a face with fewer than 3 vertices, or a truncated binary
// section. Readers wrap it with a format-specific message, so test with
// errors.Is. I/O failures (missing file, permissions) are returned as the
// underlying os errors, not as ErrFormat. Recoverable element-level parse
// failures are not errors at all: they are logged as warnings and the
// affected element is left zeroed.
var ErrFormat = errors.New("invalid file format")
