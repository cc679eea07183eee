// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package workdir

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesDirectoryAndCloseRemovesIt(t *testing.T) {
	d, err := New(t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(d.Path())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	sub, err := d.Sub("volume-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sub, d.Path()))

	require.NoError(t, d.Close())
	_, err = os.Stat(d.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestCloseOnAlreadyRemovedDirectoryIsNotAnError(t *testing.T) {
	d, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(d.Path()))
	assert.NoError(t, d.Close())
}
