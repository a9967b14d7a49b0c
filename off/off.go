// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package off reads and writes the Object File Format (*.off): an OFF
// header line, a vertex/face/edge counts line, the vertex coordinates and
// then one line per face holding the face size followed by its 0-based
// vertex indices. Blank lines and # comments may appear anywhere.
package off

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

// Format implements [meshio.Format] for OFF files.
type Format struct{}

func (Format) Name() string { return "off" }

func (Format) Exts() []string { return []string{".off"} }

func (Format) Read(path string) (*meshio.Mesh, error) { return Read(path) }

func (Format) Write(path string, m *meshio.Mesh) error { return Write(path, m) }

// Read reads the OFF file at the given path.
func Read(path string) (*meshio.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("off: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads an OFF mesh from rs. The face section is parsed in two
// passes: the first collects face sizes and the total index count, then the
// scanner seeks back to the remembered start of the section and the second
// pass fills the exactly-sized index array. A missing or malformed header,
// a truncated section or a face with fewer than 3 vertices yield an error
// wrapping [meshio.ErrFormat]; an out-of-range vertex index is only warned
// about and stored as-is.
func Decode(rs io.ReadSeeker) (*meshio.Mesh, error) {
	sc := linescan.NewScanner(rs)
	if !sc.ScanMeaningful() {
		return nil, fmt.Errorf("off: %w: header not found", meshio.ErrFormat)
	}
	if !strings.Contains(sc.Text(), "OFF") {
		return nil, fmt.Errorf("off: %w: unrecognized header %q", meshio.ErrFormat, sc.Text())
	}
	if !sc.ScanMeaningful() {
		return nil, fmt.Errorf("off: %w: element counts not found", meshio.ErrFormat)
	}
	fields := strings.Fields(sc.Text())
	if len(fields) < 2 {
		return nil, fmt.Errorf("off: %w: malformed element counts %q", meshio.ErrFormat, sc.Text())
	}
	nVerts, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("off: %w: malformed vertex count %q", meshio.ErrFormat, fields[0])
	}
	nFaces, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("off: %w: malformed face count %q", meshio.ErrFormat, fields[1])
	}
	// the edge count is accepted for format compliance but otherwise unused

	m := &meshio.Mesh{}
	if nVerts > 0 {
		m.Vertices = make([]float64, nVerts*3)
	}
	if nFaces > 0 {
		m.FaceSizes = make([]uint32, nFaces)
	}

	for i := 0; i < nVerts; i++ {
		if !sc.ScanMeaningful() {
			return nil, fmt.Errorf("off: %w: vertex %d not found", meshio.ErrFormat, i)
		}
		if !parseFloats(strings.Fields(sc.Text()), m.Vertices[i*3:i*3+3]) {
			slog.Warn("off: line " + strconv.Itoa(sc.Line()) + ": failed to parse vertex " + strconv.Itoa(i))
		}
	}

	facesStart := sc.Offset()
	nIndices := 0
	for i := 0; i < nFaces; i++ {
		if !sc.ScanMeaningful() {
			return nil, fmt.Errorf("off: %w: face %d not found", meshio.ErrFormat, i)
		}
		sz, err := strconv.Atoi(strings.Fields(sc.Text())[0])
		if err != nil || sz < 3 {
			return nil, fmt.Errorf("off: %w: line %d: invalid face vertex count %q", meshio.ErrFormat, sc.Line(), sc.Text())
		}
		m.FaceSizes[i] = uint32(sz)
		nIndices += sz
	}

	if nIndices > 0 {
		m.FaceVertexIndices = make([]uint32, nIndices)
	}
	if err := sc.SeekTo(facesStart); err != nil {
		return nil, fmt.Errorf("off: %w", err)
	}

	base := 0
	for i := 0; i < nFaces; i++ {
		if !sc.ScanMeaningful() {
			return nil, fmt.Errorf("off: %w: face %d not found", meshio.ErrFormat, i)
		}
		fields := strings.Fields(sc.Text())
		sz := int(m.FaceSizes[i])
		if len(fields) < 1+sz {
			return nil, fmt.Errorf("off: %w: face %d has %d indices, need %d", meshio.ErrFormat, i, len(fields)-1, sz)
		}
		for j := 0; j < sz; j++ {
			idx, err := strconv.Atoi(fields[1+j])
			if err != nil {
				slog.Warn("off: face " + strconv.Itoa(i) + ": failed to parse index " + strconv.Quote(fields[1+j]))
				continue
			}
			if idx < 0 || idx >= nVerts {
				slog.Warn("off: face " + strconv.Itoa(i) + ": vertex index " + strconv.Itoa(idx) + " out of range")
			}
			m.FaceVertexIndices[base+j] = uint32(idx)
		}
		base += sz
	}
	return m, nil
}

// parseFloats parses len(dst) numbers from the leading fields into dst,
// reporting false when too few are present or any fails to parse.
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

// Write writes the mesh to the given path in OFF format.
func Write(path string, m *meshio.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("off: %w", err)
	}
	if err := Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the mesh to w in OFF format. When FaceSizes is nil, every
// face is treated as a triangle. Edges are written only when the mesh
// carries EdgeVertexIndices.
func Encode(w io.Writer, m *meshio.Mesh) error {
	bw := bufio.NewWriter(w)
	nFaces := m.NumFaces()
	if m.FaceSizes == nil {
		nFaces = m.NumFaceIndices() / 3
	}
	fmt.Fprintf(bw, "OFF\n%d %d %d\n", m.NumVertices(), nFaces, m.NumEdges())
	for i := 0; i < m.NumVertices(); i++ {
		fmt.Fprintf(bw, "%f %f %f\n", m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2])
	}
	base := 0
	for i := 0; i < nFaces; i++ {
		sz := 3
		if m.FaceSizes != nil {
			sz = int(m.FaceSizes[i])
		}
		fmt.Fprintf(bw, "%d", sz)
		for j := 0; j < sz; j++ {
			fmt.Fprintf(bw, " %d", m.FaceVertexIndices[base+j])
		}
		bw.WriteString("\n")
		base += sz
	}
	for i := 0; i < m.NumEdges(); i++ {
		fmt.Fprintf(bw, "%d %d\n", m.EdgeVertexIndices[i*2], m.EdgeVertexIndices[i*2+1])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("off: %w", err)
	}
	return nil
}
