// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obj reads and writes the Wavefront OBJ text format (*.obj).
// Only the geometry commands are recognized: v, vn, vt and f; everything
// else (objects, groups, materials, smoothing) is skipped with a debug
// note. Faces may have any number of vertices >= 3, and each face vertex
// may carry independent texture-coordinate and normal indices in the
// v, v/vt, v//vn and v/vt/vn forms.
// Basic format info: https://en.wikipedia.org/wiki/Wavefront_.obj_file
package obj

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cogentcore/meshio"
	"github.com/cogentcore/meshio/linescan"
)

func init() {
	meshio.RegisterFormat(Format{})
}

// Format implements [meshio.Format] for OBJ files.
type Format struct{}

func (Format) Name() string { return "obj" }

func (Format) Exts() []string { return []string{".obj"} }

func (Format) Read(path string) (*meshio.Mesh, error) { return Read(path) }

func (Format) Write(path string, m *meshio.Mesh) error { return Write(path, m) }

// Read reads the OBJ file at the given path.
// An empty file is not an error: it yields an empty mesh.
func Read(path string) (*meshio.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// counts is the result of the survey pass: how much of everything the file
// holds, so the fill pass can allocate each array exactly once.
type counts struct {
	vertices    int
	normals     int
	texCoords   int
	faces       int
	faceIndices int
}

// Decode reads an OBJ mesh from rs. The reader must be seekable because
// decoding is two passes: a survey pass counting elements, then a fill pass
// populating pre-sized arrays.
func Decode(rs io.ReadSeeker) (*meshio.Mesh, error) {
	sc := linescan.NewScanner(rs)
	var ct counts
	for sc.ScanMeaningful() {
		fields := strings.Fields(sc.Text())
		switch fields[0] {
		case "v":
			ct.vertices++
		case "vn":
			ct.normals++
		case "vt":
			ct.texCoords++
		case "f":
			if len(fields) < 2 {
				slog.Warn("obj: line " + strconv.Itoa(sc.Line()) + ": face with no vertices, skipping")
				break
			}
			ct.faces++
			ct.faceIndices += len(fields) - 1
		default:
			slog.Debug("obj: line " + strconv.Itoa(sc.Line()) + ": command not supported: " + fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}

	m := &meshio.Mesh{}
	if ct.vertices > 0 {
		m.Vertices = make([]float64, ct.vertices*3)
	}
	if ct.normals > 0 {
		m.Normals = make([]float64, ct.normals*3)
	}
	if ct.texCoords > 0 {
		m.TexCoords = make([]float64, ct.texCoords*2)
	}
	if ct.faces > 0 {
		m.FaceSizes = make([]uint32, ct.faces)
	}
	if ct.faceIndices > 0 {
		m.FaceVertexIndices = make([]uint32, ct.faceIndices)
		if ct.texCoords > 0 {
			m.FaceTexCoordIndices = make([]uint32, ct.faceIndices)
		}
		if ct.normals > 0 {
			m.FaceNormalIndices = make([]uint32, ct.faceIndices)
		}
	}

	if err := sc.Rewind(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}

	var vi, ni, ti, fi, fii int
	for sc.ScanMeaningful() {
		fields := strings.Fields(sc.Text())
		switch fields[0] {
		case "v":
			if parseFloats(fields[1:], m.Vertices[vi*3:vi*3+3]) {
				vi++
			} else {
				slog.Warn("obj: line " + strconv.Itoa(sc.Line()) + ": failed to parse vertex " + strconv.Itoa(vi))
			}
		case "vn":
			if parseFloats(fields[1:], m.Normals[ni*3:ni*3+3]) {
				ni++
			} else {
				slog.Warn("obj: line " + strconv.Itoa(sc.Line()) + ": failed to parse normal " + strconv.Itoa(ni))
			}
		case "vt":
			if parseFloats(fields[1:], m.TexCoords[ti*2:ti*2+2]) {
				ti++
			} else {
				slog.Warn("obj: line " + strconv.Itoa(sc.Line()) + ": failed to parse texcoord " + strconv.Itoa(ti))
			}
		case "f":
			if len(fields) < 2 { // already warned about in the survey pass
				break
			}
			m.FaceSizes[fi] = uint32(len(fields) - 1)
			for _, tok := range fields[1:] {
				v, vt, vn, ok := parseFaceVertex(tok)
				if !ok {
					slog.Warn("obj: line " + strconv.Itoa(sc.Line()) + ": failed to parse face vertex " + strconv.Quote(tok))
					continue
				}
				m.FaceVertexIndices[fii] = uint32(v)
				if vt >= 0 && m.FaceTexCoordIndices != nil {
					m.FaceTexCoordIndices[fii] = uint32(vt)
				}
				if vn >= 0 && m.FaceNormalIndices != nil {
					m.FaceNormalIndices[fii] = uint32(vn)
				}
				fii++
			}
			fi++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	return m, nil
}

// parseFloats parses len(dst) numbers from the leading fields into dst.
// It reports false, leaving dst untouched, when fewer fields are present
// or any of them fails to parse.
func parseFloats(fields []string, dst []float64) bool {
	if len(fields) < len(dst) {
		return false
	}
	for i := range dst {
		val, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return false
		}
		dst[i] = val
	}
	return true
}

// parseFaceVertex splits one face token into its up-to-three slash-separated
// indices, converting from the file's 1-based convention to 0-based.
// Absent texcoord and normal sub-fields ("1", "1//3", "1/2") come back as -1.
func parseFaceVertex(tok string) (v, vt, vn int, ok bool) {
	vt, vn = -1, -1
	sub := strings.Split(tok, "/")
	val, err := strconv.Atoi(sub[0])
	if err != nil {
		return 0, -1, -1, false
	}
	v = val - 1
	if len(sub) > 1 && sub[1] != "" {
		if val, err = strconv.Atoi(sub[1]); err == nil && val != 0 {
			vt = val - 1
		}
	}
	if len(sub) > 2 && sub[2] != "" {
		if val, err = strconv.Atoi(sub[2]); err == nil && val != 0 {
			vn = val - 1
		}
	}
	return v, vt, vn, true
}

// Write writes the mesh to the given path in OBJ format.
func Write(path string, m *meshio.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("obj: %w", err)
	}
	if err := Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the mesh to w in OBJ format. Floats are written with 6
// decimal places. The face-vertex form (v, v/vt, v//vn or v/vt/vn) is
// uniform across the file, determined by which attribute arrays the mesh
// carries.
func Encode(w io.Writer, m *meshio.Mesh) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < m.NumVertices(); i++ {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2])
	}
	for i := 0; i < m.NumNormals(); i++ {
		fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2])
	}
	for i := 0; i < m.NumTexCoords(); i++ {
		fmt.Fprintf(bw, "vt %.6f %.6f\n", m.TexCoords[i*2], m.TexCoords[i*2+1])
	}
	hasN, hasT := m.HasNormals(), m.HasTexCoords()
	base := 0
	for _, sz := range m.FaceSizes {
		bw.WriteString("f")
		for j := 0; j < int(sz); j++ {
			vi := m.FaceVertexIndices[base+j] + 1
			switch {
			case hasN && hasT:
				fmt.Fprintf(bw, " %d/%d/%d", vi, m.FaceTexCoordIndices[base+j]+1, m.FaceNormalIndices[base+j]+1)
			case hasN:
				fmt.Fprintf(bw, " %d//%d", vi, m.FaceNormalIndices[base+j]+1)
			case hasT:
				fmt.Fprintf(bw, " %d/%d", vi, m.FaceTexCoordIndices[base+j]+1)
			default:
				fmt.Fprintf(bw, " %d", vi)
			}
		}
		bw.WriteString("\n")
		base += int(sz)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("obj: %w", err)
	}
	return nil
}
