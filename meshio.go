// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshio reads and writes polygon meshes in the OBJ, OFF, STL and
// PLY file formats. Each format lives in its own subpackage and registers
// itself here by file extension; importing a format package (typically as a
// blank import) makes it available to ReadFile and WriteFile.
//
// The interchange type is Mesh: flat arrays of vertex positions and optional
// per-vertex attributes, plus per-face vertex counts and parallel index
// streams supporting polygons of arbitrary arity.
package meshio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mesh is the in-memory form of a polygon mesh, shared by all formats.
// Coordinate arrays are flat: Vertices and Normals hold x,y,z triples,
// TexCoords holds u,v pairs. FaceVertexIndices is the concatenation of
// every face's vertex indices, partitioned by FaceSizes; the texcoord and
// normal index streams, when non-nil, run parallel to it entry for entry.
// All indices are 0-based regardless of the file format's own convention.
type Mesh struct {

	// Vertices are the vertex positions, as x,y,z triples.
	Vertices []float64

	// Normals are the normal vectors, as x,y,z triples.
	// Nil when the source file supplied none. For STL there is
	// one normal per triangle, not per vertex.
	Normals []float64

	// TexCoords are the texture coordinates, as u,v pairs.
	// Nil when the source file supplied none.
	TexCoords []float64

	// FaceSizes gives the number of vertices in each face, always >= 3.
	FaceSizes []uint32

	// FaceVertexIndices indexes Vertices, flat across all faces.
	// Its length is the sum of FaceSizes.
	FaceVertexIndices []uint32

	// FaceTexCoordIndices indexes TexCoords, parallel to FaceVertexIndices.
	// Nil when no texture coordinates are present.
	FaceTexCoordIndices []uint32

	// FaceNormalIndices indexes Normals, parallel to FaceVertexIndices.
	// Nil when no normals are present.
	FaceNormalIndices []uint32

	// EdgeVertexIndices are optional explicit edges, as a,b index pairs.
	// Only the OFF writer consumes these.
	EdgeVertexIndices []uint32
}

// NumVertices returns the number of vertex positions.
func (m *Mesh) NumVertices() int { return len(m.Vertices) / 3 }

// NumNormals returns the number of normal vectors.
func (m *Mesh) NumNormals() int { return len(m.Normals) / 3 }

// NumTexCoords returns the number of texture coordinates.
func (m *Mesh) NumTexCoords() int { return len(m.TexCoords) / 2 }

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int { return len(m.FaceSizes) }

// NumEdges returns the number of explicit edges.
func (m *Mesh) NumEdges() int { return len(m.EdgeVertexIndices) / 2 }

// NumFaceIndices returns the total number of face-vertex references,
// i.e., the sum of FaceSizes.
func (m *Mesh) NumFaceIndices() int { return len(m.FaceVertexIndices) }

// HasNormals reports whether the mesh carries normals.
func (m *Mesh) HasNormals() bool { return len(m.Normals) > 0 }

// HasTexCoords reports whether the mesh carries texture coordinates.
func (m *Mesh) HasTexCoords() bool { return len(m.TexCoords) > 0 }

// FaceOffsets returns, for each face, the offset of its first entry in
// FaceVertexIndices. The returned slice has NumFaces elements.
func (m *Mesh) FaceOffsets() []int {
	offs := make([]int, len(m.FaceSizes))
	off := 0
	for i, sz := range m.FaceSizes {
		offs[i] = off
		off += int(sz)
	}
	return offs
}

// Face returns the vertex indices of face i as a sub-slice of
// FaceVertexIndices. It does not copy.
func (m *Mesh) Face(i int) []uint32 {
	off := 0
	for f := 0; f < i; f++ {
		off += int(m.FaceSizes[f])
	}
	return m.FaceVertexIndices[off : off+int(m.FaceSizes[i])]
}

// Vertex returns the position of vertex i as x, y, z.
func (m *Mesh) Vertex(i int) (x, y, z float64) {
	return m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]
}

// Release drops every array, returning the mesh to its empty state.
// Readers allocate fresh arrays on every call, so this is only needed to
// make the backing memory collectable while the Mesh itself stays live.
func (m *Mesh) Release() {
	m.Vertices = nil
	m.Normals = nil
	m.TexCoords = nil
	m.FaceSizes = nil
	m.FaceVertexIndices = nil
	m.FaceTexCoordIndices = nil
	m.FaceNormalIndices = nil
	m.EdgeVertexIndices = nil
}

// Format reads and writes one mesh file format. Implementations live in the
// format subpackages and are registered via RegisterFormat, keyed by the
// extensions they return.
type Format interface {

	// Name returns the short name of the format, e.g. "obj".
	Name() string

	// Exts returns the file extensions handled, with leading dot,
	// e.g. [".obj"].
	Exts() []string

	// Read reads the mesh file at the given path.
	Read(path string) (*Mesh, error)

	// Write writes the mesh to the given path.
	Write(path string, m *Mesh) error
}

// Formats is the registry of available formats, keyed by lowercase file
// extension (with leading dot). Format packages add themselves in init.
var Formats = map[string]Format{}

// RegisterFormat registers the format under each of its extensions.
func RegisterFormat(f Format) {
	for _, ext := range f.Exts() {
		Formats[ext] = f
	}
}

// FormatFor returns the registered format for the given file path,
// based on its extension.
func FormatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := Formats[ext]
	if !ok {
		return nil, fmt.Errorf("meshio: extension %q not found in Formats list for file %q (missing format package import?)", ext, path)
	}
	return f, nil
}

// ReadFile reads the mesh file at the given path, using the format
// registered for its extension.
func ReadFile(path string) (*Mesh, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return f.Read(path)
}

// WriteFile writes the mesh to the given path, using the format registered
// for its extension.
func WriteFile(path string, m *Mesh) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	return f.Write(path, m)
}
