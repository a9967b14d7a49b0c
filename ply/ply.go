// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ply reads and writes polygon meshes in the ASCII PLY format
// (*.ply), delegating the element/property file mechanics to the plyfile
// package. Two element kinds are handled: vertex, with float x,y,z
// properties, and face, with a variable-length vertex_indices list prefixed
// by a uchar count. Normals and texture coordinates are not part of this
// declared property set and are ignored in both directions.
package ply

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cogentcore/meshio"
	"github.com/cogentcore/meshio/plyfile"
)

func init() {
	meshio.RegisterFormat(Format{})
}

// Format implements [meshio.Format] for PLY files.
type Format struct{}

func (Format) Name() string { return "ply" }

func (Format) Exts() []string { return []string{".ply"} }

func (Format) Read(path string) (*meshio.Mesh, error) { return Read(path) }

func (Format) Write(path string, m *meshio.Mesh) error { return Write(path, m) }

// Read reads the PLY file at the given path. Face vertex indices outside
// the vertex range are clamped to 0 with a warning rather than failing
// the read. Elements other than vertex and face are skipped.
func Read(path string) (*meshio.Mesh, error) {
	pf, err := plyfile.OpenForReading(path)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer pf.Close()

	m := &meshio.Mesh{}
	// range checking uses the declared vertex count, which is known from the
	// header regardless of where the vertex element falls in the file
	nVerts := 0
	if ve := pf.Element("vertex"); ve != nil {
		nVerts = ve.Count
	}
	for _, name := range pf.ElementNames() {
		el := pf.Element(name)
		switch name {
		case "vertex":
			if el.Count > 0 {
				m.Vertices = make([]float64, el.Count*3)
			}
			for j := 0; j < el.Count; j++ {
				rec, err := pf.GetElement("vertex")
				if err != nil {
					return nil, wrapErr(err)
				}
				m.Vertices[j*3+0], _ = rec["x"].(float64)
				m.Vertices[j*3+1], _ = rec["y"].(float64)
				m.Vertices[j*3+2], _ = rec["z"].(float64)
			}
		case "face":
			if el.Count == 0 {
				continue
			}
			// first pass over the records: collect sizes and the total
			// index count so the flat array can be allocated exactly
			m.FaceSizes = make([]uint32, el.Count)
			faces := make([][]int, el.Count)
			nIndices := 0
			for j := 0; j < el.Count; j++ {
				rec, err := pf.GetElement("face")
				if err != nil {
					return nil, wrapErr(err)
				}
				verts, _ := rec["vertex_indices"].([]int)
				faces[j] = verts
				m.FaceSizes[j] = uint32(len(verts))
				nIndices += len(verts)
			}
			// second pass: flatten each face's index list
			m.FaceVertexIndices = make([]uint32, nIndices)
			base := 0
			for j, verts := range faces {
				for k, idx := range verts {
					if idx < 0 || idx >= nVerts {
						slog.Warn("ply: face " + strconv.Itoa(j) + ": vertex index " + strconv.Itoa(idx) + " out of range, clamping to 0")
						idx = 0
					}
					m.FaceVertexIndices[base+k] = uint32(idx)
				}
				base += len(verts)
			}
		}
	}
	return m, nil
}

// wrapErr adds the shared format sentinel to plyfile format errors, so that
// callers can test any reader's errors with errors.Is(err, meshio.ErrFormat).
func wrapErr(err error) error {
	if errors.Is(err, plyfile.ErrFormat) {
		return fmt.Errorf("%w: %w", meshio.ErrFormat, err)
	}
	return err
}

// Write writes the mesh to the given path as ASCII PLY, narrowing vertex
// positions to single precision per the declared float property type.
func Write(path string, m *meshio.Mesh) error {
	pw, err := plyfile.OpenForWriting(path, []string{"vertex", "face"})
	if err != nil {
		return err
	}

	pw.ElementCount("vertex", m.NumVertices())
	pw.DescribeProperty("vertex", plyfile.Property{Name: "x", Type: plyfile.Float})
	pw.DescribeProperty("vertex", plyfile.Property{Name: "y", Type: plyfile.Float})
	pw.DescribeProperty("vertex", plyfile.Property{Name: "z", Type: plyfile.Float})

	pw.ElementCount("face", m.NumFaces())
	pw.DescribeProperty("face", plyfile.Property{Name: "vertex_indices", Type: plyfile.Int, IsList: true, CountType: plyfile.UChar})

	pw.PutComment("author: meshio")
	pw.PutObjInfo("generated by github.com/cogentcore/meshio")

	if err := pw.HeaderComplete(); err != nil {
		pw.Close()
		return err
	}

	pw.PutElementSetup("vertex")
	for i := 0; i < m.NumVertices(); i++ {
		rec := plyfile.Record{
			"x": float64(float32(m.Vertices[i*3+0])),
			"y": float64(float32(m.Vertices[i*3+1])),
			"z": float64(float32(m.Vertices[i*3+2])),
		}
		if err := pw.PutElement(rec); err != nil {
			pw.Close()
			return err
		}
	}

	pw.PutElementSetup("face")
	var scratch []int // reused across faces, resized to each face's count
	base := 0
	for _, sz := range m.FaceSizes {
		n := int(sz)
		if cap(scratch) < n {
			scratch = make([]int, n)
		}
		scratch = scratch[:n]
		for j := 0; j < n; j++ {
			scratch[j] = int(m.FaceVertexIndices[base+j])
		}
		base += n
		if err := pw.PutElement(plyfile.Record{"vertex_indices": scratch}); err != nil {
			pw.Close()
			return err
		}
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("ply: %w", err)
	}
	return nil
}
