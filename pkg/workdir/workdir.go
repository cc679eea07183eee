// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workdir provides the invocation-scoped mutable scratch directory
// the External Unpacker stages its per-volume extraction into. gpiotab's
// own parsing is read-only, but an external tool like UEFIExtract needs a
// real directory to write files into, and that directory must not outlive
// the invocation that created it.
package workdir

import "os"

// Dir is a temporary directory that is removed in its entirety by Close.
// The zero value is not usable; construct one with New.
type Dir struct {
	path string
}

// New creates a fresh scratch directory under the system temp dir (or
// under parent, if non-empty), prefixed with "gpiotab-".
func New(parent string) (*Dir, error) {
	path, err := os.MkdirTemp(parent, "gpiotab-")
	if err != nil {
		return nil, err
	}
	return &Dir{path: path}, nil
}

// Path returns the directory's filesystem path.
func (d *Dir) Path() string {
	return d.path
}

// Sub creates and returns a fresh subdirectory of d, for staging one
// firmware volume's extraction independently of its siblings.
func (d *Dir) Sub(prefix string) (string, error) {
	return os.MkdirTemp(d.path, prefix)
}

// Close removes the directory and everything under it. It is safe to call
// on a directory that no longer exists.
func (d *Dir) Close() error {
	return os.RemoveAll(d.path)
}
