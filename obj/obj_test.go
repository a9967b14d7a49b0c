// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cogentcore/meshio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))
	return path
}

func TestReadTriangle(t *testing.T) {
	path := writeTemp(t, "tri.obj", "v 0 0 0\nv 1 0 0\nv 0.5 1 0\nf 1 2 3\n")
	m, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumVertices())
	assert.Equal(t, 1, m.NumFaces())
	assert.Equal(t, []uint32{3}, m.FaceSizes)
	assert.Equal(t, []uint32{0, 1, 2}, m.FaceVertexIndices)
	x, y, z := m.Vertex(0)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
	assert.Equal(t, 0.0, z)
	assert.Nil(t, m.Normals)
	assert.Nil(t, m.TexCoords)
}

func TestReadEmpty(t *testing.T) {
	path := writeTemp(t, "empty.obj", "")
	m, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NumVertices())
	assert.Equal(t, 0, m.NumFaces())
	assert.Nil(t, m.Vertices)
	assert.Nil(t, m.FaceSizes)
	assert.Nil(t, m.FaceVertexIndices)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.obj"))
	assert.Error(t, err)
}

func TestFaceVertexForms(t *testing.T) {
	tests := []struct {
		tok       string
		v, vt, vn int
	}{
		{"7", 6, -1, -1},
		{"7/3", 6, 2, -1},
		{"7//5", 6, -1, 4},
		{"7/3/5", 6, 2, 4},
		{"7/", 6, -1, -1},
	}
	for _, test := range tests {
		v, vt, vn, ok := parseFaceVertex(test.tok)
		assert.True(t, ok, test.tok)
		assert.Equal(t, test.v, v, test.tok)
		assert.Equal(t, test.vt, vt, test.tok)
		assert.Equal(t, test.vn, vn, test.tok)
	}
	_, _, _, ok := parseFaceVertex("x/1/2")
	assert.False(t, ok)
}

func TestReadAttributes(t *testing.T) {
	content := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`
	path := writeTemp(t, "attr.obj", content)
	m, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumTexCoords())
	assert.Equal(t, 1, m.NumNormals())
	assert.Equal(t, []uint32{0, 1, 2}, m.FaceTexCoordIndices)
	assert.Equal(t, []uint32{0, 0, 0}, m.FaceNormalIndices)
}

// TestWriteFaceForms checks that the face-vertex form is gated uniformly by
// which attribute arrays are present.
func TestWriteFaceForms(t *testing.T) {
	base := meshio.Mesh{
		Vertices:          []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
		FaceSizes:         []uint32{3},
		FaceVertexIndices: []uint32{0, 1, 2},
	}
	norms := []float64{0, 0, 1}
	texs := []float64{0, 0, 1, 0, 0, 1}
	idx := []uint32{0, 0, 0}
	tidx := []uint32{0, 1, 2}

	tests := []struct {
		name string
		mod  func(m *meshio.Mesh)
		want string
	}{
		{"plain", func(m *meshio.Mesh) {}, "f 1 2 3"},
		{"normals", func(m *meshio.Mesh) {
			m.Normals, m.FaceNormalIndices = norms, idx
		}, "f 1//1 2//1 3//1"},
		{"texcoords", func(m *meshio.Mesh) {
			m.TexCoords, m.FaceTexCoordIndices = texs, tidx
		}, "f 1/1 2/2 3/3"},
		{"both", func(m *meshio.Mesh) {
			m.Normals, m.FaceNormalIndices = norms, idx
			m.TexCoords, m.FaceTexCoordIndices = texs, tidx
		}, "f 1/1/1 2/2/1 3/3/1"},
	}
	for _, test := range tests {
		m := base
		test.mod(&m)
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, &m))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Equal(t, test.want, lines[len(lines)-1], test.name)
	}
}

// TestRoundTrip writes and re-reads a mesh with mixed-arity faces.
func TestRoundTrip(t *testing.T) {
	m := &meshio.Mesh{
		Vertices: []float64{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
			0.5, 0.5, 1,
		},
		FaceSizes:         []uint32{4, 3, 5},
		FaceVertexIndices: []uint32{0, 1, 2, 3, 0, 1, 4, 0, 1, 2, 3, 4},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m))
	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, m.Vertices, got.Vertices)
	assert.Equal(t, m.FaceSizes, got.FaceSizes)
	assert.Equal(t, m.FaceVertexIndices, got.FaceVertexIndices)
}

// A face line with no vertex tokens is skipped entirely: it must not show up
// as a zero-size entry in FaceSizes.
func TestBareFaceLine(t *testing.T) {
	path := writeTemp(t, "bare.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf\nf 1 2 3\n")
	m, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3}, m.FaceSizes)
	assert.Equal(t, []uint32{0, 1, 2}, m.FaceVertexIndices)
}

func TestBadVertexLine(t *testing.T) {
	path := writeTemp(t, "bad.obj", "v 0 0\nv 1 2 3\nf 1 1 1\n")
	m, err := Read(path)
	require.NoError(t, err)
	// both v lines are counted; the malformed one is skipped, leaving the
	// trailing slot zeroed
	assert.Equal(t, 2, m.NumVertices())
	assert.Equal(t, []float64{1, 2, 3, 0, 0, 0}, m.Vertices)
}
