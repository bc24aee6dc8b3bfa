// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeConcatPath(t *testing.T) {
	// Backslash escaping runs first, then quote escaping, so the quote's
	// backslash is not doubled.
	in := `C:\cam's\RecM01_20240101_000000.mp4`
	assert.Equal(t, `C:\\cam\'s\\RecM01_20240101_000000.mp4`, EscapeConcatPath(in))
}

func TestEscapeConcatPathClean(t *testing.T) {
	in := "/videos/RecM01_20240101_000000.mp4"
	assert.Equal(t, in, EscapeConcatPath(in))
}

func TestWritePlaylist(t *testing.T) {
	listPath, err := WritePlaylist([]string{
		"/v/RecM03_20240101_083000.mov",
		"/v/RecM01_20240101_090000.mp4",
	})
	require.NoError(t, err)
	defer os.Remove(listPath)

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.Equal(t, "file '/v/RecM03_20240101_083000.mov'\nfile '/v/RecM01_20240101_090000.mp4'\n", string(data))
}

func TestWritePlaylistEmpty(t *testing.T) {
	_, err := WritePlaylist(nil)
	assert.Error(t, err)
}
