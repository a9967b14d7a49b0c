// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ply

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentcore/meshio"
	"github.com/cogentcore/meshio/plyfile"
)

const quad = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.ply")
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))
	return path
}

func TestReadQuad(t *testing.T) {
	m, err := Read(writeTemp(t, quad))
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 1, m.NumFaces())
	assert.Equal(t, []uint32{4}, m.FaceSizes)
	assert.Equal(t, []uint32{0, 1, 2, 3}, m.FaceVertexIndices)
	x, y, z := m.Vertex(2)
	assert.Equal(t, []float64{1, 1, 0}, []float64{x, y, z})
}

// Out-of-range face indices are clamped to 0 instead of failing the read.
func TestReadClampsIndices(t *testing.T) {
	content := `ply
format ascii 1.0
element vertex 2
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
3 0 1 9
`
	m, err := Read(writeTemp(t, content))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 0}, m.FaceVertexIndices)
}

// Elements other than vertex and face are skipped.
func TestReadSkipsOtherElements(t *testing.T) {
	content := `ply
format ascii 1.0
element vertex 1
property float x
property float y
property float z
element material 1
property float red
element face 1
property list uchar int vertex_indices
end_header
0 0 0
0.8
3 0 0 0
`
	m, err := Read(writeTemp(t, content))
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumVertices())
	assert.Equal(t, []uint32{0, 0, 0}, m.FaceVertexIndices)
}

// A file declaring face before vertex still has its indices checked against
// the vertex count declared in the header, not the vertices read so far.
func TestReadFaceElementFirst(t *testing.T) {
	content := `ply
format ascii 1.0
element face 1
property list uchar int vertex_indices
element vertex 2
property float x
property float y
property float z
end_header
3 0 1 1
0 0 0
1 0 0
`
	m, err := Read(writeTemp(t, content))
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumVertices())
	assert.Equal(t, []uint32{0, 1, 1}, m.FaceVertexIndices)
}

func TestReadBadHeader(t *testing.T) {
	_, err := Read(writeTemp(t, "off\n"))
	assert.ErrorIs(t, err, plyfile.ErrFormat)
	assert.ErrorIs(t, err, meshio.ErrFormat)
}

func TestRoundTrip(t *testing.T) {
	m, err := Read(writeTemp(t, quad))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.ply")
	require.NoError(t, Write(path, m))

	m2, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, m.Vertices, m2.Vertices)
	assert.Equal(t, m.FaceSizes, m2.FaceSizes)
	assert.Equal(t, m.FaceVertexIndices, m2.FaceVertexIndices)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.ply"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
