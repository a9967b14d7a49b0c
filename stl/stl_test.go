// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stl

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentcore/meshio"
)

const asciiTwoFacets = `solid fixture
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
facet normal 0 0 -1
outer loop
vertex 0 0 1
vertex 0 1 1
vertex 1 0 1
endloop
endfacet
endsolid fixture
`

func TestIsASCII(t *testing.T) {
	tests := []struct {
		prefix string
		ascii  bool
	}{
		{"solid", true},
		{"solid fixture", true},
		{"SOLID", false},
		{"\x00\x01\x02\x03\x04", false},
		{"sol", false},
		{"", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.ascii, IsASCII([]byte(test.prefix)), "%q", test.prefix)
	}
}

func TestReadASCII(t *testing.T) {
	m, err := Decode(bytes.NewReader([]byte(asciiTwoFacets)))
	require.NoError(t, err)
	// k facets yield 3k vertices and k normals
	assert.Equal(t, 6, m.NumVertices())
	assert.Equal(t, 2, m.NumNormals())
	assert.Nil(t, m.FaceSizes)
	assert.Equal(t, []float64{0, 0, 1, 0, 0, -1}, m.Normals)
	x, y, z := m.Vertex(5)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 0.0, y)
	assert.Equal(t, 1.0, z)
}

func TestBinaryRoundTrip(t *testing.T) {
	m := &meshio.Mesh{
		Vertices: []float64{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
			0, 1, 1,
			1, 0, 1,
		},
		Normals: []float64{0, 0, 1, 0, 0, -1},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, m))
	assert.Equal(t, 84+2*50, buf.Len())

	// a binary file must take the binary path of the sniffer
	assert.False(t, IsASCII(buf.Bytes()[:5]))
	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, m.Vertices, got.Vertices)
	assert.Equal(t, m.Normals, got.Normals)
}

func TestASCIIRoundTrip(t *testing.T) {
	m := &meshio.Mesh{
		Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float64{0, 0, 1},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m))
	assert.True(t, IsASCII(buf.Bytes()[:5]))
	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, m.Vertices, got.Vertices)
	assert.Equal(t, m.Normals, got.Normals)
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	m := &meshio.Mesh{
		Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float64{0, 0, 1},
	}
	require.NoError(t, Write(path, m))
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumVertices())
	assert.Equal(t, 1, got.NumNormals())
}

func TestTruncatedBinary(t *testing.T) {
	m := &meshio.Mesh{
		Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float64{0, 0, 1},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, m))
	_, err := Decode(bytes.NewReader(buf.Bytes()[:buf.Len()-10]))
	assert.ErrorIs(t, err, meshio.ErrFormat)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.stl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
