// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stl reads and writes the stereolithography format (*.stl), in
// both its binary and ASCII encodings. STL stores only disjoint triangles:
// the decoded mesh has no face-size array, its vertex count is always a
// multiple of 3, and it carries one normal per triangle rather than per
// vertex.
//
// Which encoding a file uses is sniffed from its first 5 bytes: the ASCII
// literal "solid" selects the ASCII path, anything else the binary path.
// A binary file that happens to begin with those bytes is misdetected;
// that is a known ambiguity of the format itself, accepted here as in
// every other STL reader.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/cogentcore/meshio"
	"github.com/cogentcore/meshio/linescan"
)

func init() {
	meshio.RegisterFormat(Format{})
}

// Format implements [meshio.Format] for STL files. Read auto-detects the
// encoding; Write emits ASCII (use WriteBinary for the binary form).
type Format struct{}

func (Format) Name() string { return "stl" }

func (Format) Exts() []string { return []string{".stl"} }

func (Format) Read(path string) (*meshio.Mesh, error) { return Read(path) }

func (Format) Write(path string, m *meshio.Mesh) error { return Write(path, m) }

// asciiMagic is the byte prefix that selects the ASCII decoding path.
var asciiMagic = []byte("solid")

// IsASCII sniffs the encoding of an STL file from its first bytes:
// true when they start with the literal "solid". Callers must tolerate the
// false positive of a binary file whose header begins with those bytes.
func IsASCII(prefix []byte) bool {
	return bytes.HasPrefix(prefix, asciiMagic)
}

// Read reads the STL file at the given path, auto-detecting the encoding.
func Read(path string) (*meshio.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads an STL mesh from rs, auto-detecting the encoding from the
// first 5 bytes.
func Decode(rs io.ReadSeeker) (*meshio.Mesh, error) {
	prefix := make([]byte, len(asciiMagic))
	n, err := io.ReadFull(rs, prefix)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("stl: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	if IsASCII(prefix[:n]) {
		return decodeASCII(rs)
	}
	return decodeBinary(rs)
}

// binaryHeader is the fixed-size header of a binary STL file.
type binaryHeader struct {
	Comment [80]byte
	Count   uint32 // number of triangles
}

// 12 floats (normal + 3 vertices) plus the attribute word.
const triangleRecordSize = 4*3*4 + 2

// decodeBinary reads the little-endian binary encoding: an 80-byte header,
// a uint32 triangle count, then one 50-byte record per triangle. The
// trailing attribute word of each record is ignored, with a debug note
// when nonzero. Coordinates are widened from float32 to float64.
func decodeBinary(r io.Reader) (*meshio.Mesh, error) {
	var hdr binaryHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("stl: %w: truncated binary header", meshio.ErrFormat)
	}
	nTris := int(hdr.Count)
	m := &meshio.Mesh{}
	if nTris > 0 {
		m.Vertices = make([]float64, nTris*3*3)
		m.Normals = make([]float64, nTris*3)
	}
	rec := make([]byte, triangleRecordSize)
	for i := 0; i < nTris; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, fmt.Errorf("stl: %w: truncated triangle %d of %d", meshio.ErrFormat, i, nTris)
		}
		putVec3(m.Normals[i*3:], getVec3(rec))
		for v := 0; v < 3; v++ {
			putVec3(m.Vertices[(i*3+v)*3:], getVec3(rec[12+v*12:]))
		}
		if attr := binary.LittleEndian.Uint16(rec[48:]); attr != 0 {
			slog.Debug("stl: triangle " + strconv.Itoa(i) + ": nonzero attribute word " + strconv.Itoa(int(attr)))
		}
	}
	return m, nil
}

// getVec3 decodes three consecutive little-endian float32 values.
func getVec3(b []byte) math32.Vector3 {
	return math32.Vec3(
		math.Float32frombits(binary.LittleEndian.Uint32(b)),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])))
}

// putVec3 widens a float32 vector into a float64 x,y,z destination.
func putVec3(dst []float64, v math32.Vector3) {
	dst[0] = float64(v.X)
	dst[1] = float64(v.Y)
	dst[2] = float64(v.Z)
}

// ASCII STL commands, in the order they must be tested: "facet normal" and
// the end* keywords would otherwise match as bare "solid"/"vertex"/"loop".
const (
	cmdSolid = iota
	cmdFacetNormal
	cmdOuterLoop
	cmdVertex
	cmdEndLoop
	cmdEndFacet
	cmdEndSolid
	cmdUnknown
)

// classify identifies the command on an ASCII STL line by substring search.
func classify(line string) int {
	switch {
	case strings.Contains(line, "solid") && !strings.Contains(line, "endsolid"):
		return cmdSolid
	case strings.Contains(line, "facet normal"):
		return cmdFacetNormal
	case strings.Contains(line, "outer loop"):
		return cmdOuterLoop
	case strings.Contains(line, "endloop"):
		return cmdEndLoop
	case strings.Contains(line, "endfacet"):
		return cmdEndFacet
	case strings.Contains(line, "endsolid"):
		return cmdEndSolid
	case strings.Contains(line, "vertex"):
		return cmdVertex
	default:
		return cmdUnknown
	}
}

// decodeASCII reads the ASCII encoding in two passes: the first counts
// facet normal and vertex commands so the arrays can be allocated exactly,
// the second fills them in file order. A vertex count that is not three
// times the facet count is only warned about.
func decodeASCII(rs io.ReadSeeker) (*meshio.Mesh, error) {
	sc := linescan.NewScanner(rs)
	nVerts, nNorms := 0, 0
	for sc.ScanMeaningful() {
		switch classify(sc.Text()) {
		case cmdFacetNormal:
			nNorms++
		case cmdVertex:
			nVerts++
		case cmdUnknown:
			slog.Debug("stl: line " + strconv.Itoa(sc.Line()) + ": skipping unrecognized command " + strconv.Quote(sc.Text()))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	if nVerts != nNorms*3 {
		slog.Warn("stl: " + strconv.Itoa(nVerts) + " vertices for " + strconv.Itoa(nNorms) + " facets, expected 3 per facet")
	}

	m := &meshio.Mesh{}
	if nVerts > 0 {
		m.Vertices = make([]float64, nVerts*3)
	}
	if nNorms > 0 {
		m.Normals = make([]float64, nNorms*3)
	}
	if err := sc.Rewind(); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}

	vi, ni := 0, 0
	for sc.ScanMeaningful() {
		fields := strings.Fields(sc.Text())
		switch classify(sc.Text()) {
		case cmdFacetNormal:
			if !parseFloats(fields[2:], m.Normals[ni*3:ni*3+3]) {
				slog.Warn("stl: line " + strconv.Itoa(sc.Line()) + ": failed to parse facet normal " + strconv.Itoa(ni))
			}
			ni++
		case cmdVertex:
			if !parseFloats(fields[1:], m.Vertices[vi*3:vi*3+3]) {
				slog.Warn("stl: line " + strconv.Itoa(sc.Line()) + ": failed to parse vertex " + strconv.Itoa(vi))
			}
			vi++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
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

// Write writes the mesh to the given path in ASCII STL format.
func Write(path string, m *meshio.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	if err := Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the mesh to w in ASCII STL format, one facet per vertex
// triple with the triangle's normal looked up at index j/3. A vertex count
// not divisible by 3 is warned about and the partial trailing triangle is
// still attempted.
func Encode(w io.Writer, m *meshio.Mesh) error {
	nv := m.NumVertices()
	if nv%3 != 0 {
		slog.Warn("stl: vertex count " + strconv.Itoa(nv) + " is not a multiple of 3")
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("solid Unnamed\n")
	for j := 0; j < nv; j++ {
		if j%3 == 0 {
			n := j / 3
			var x, y, z float64
			if n < m.NumNormals() {
				x, y, z = m.Normals[n*3], m.Normals[n*3+1], m.Normals[n*3+2]
			}
			fmt.Fprintf(bw, "facet normal %f %f %f\n", x, y, z)
			bw.WriteString("outer loop\n")
		}
		fmt.Fprintf(bw, "vertex %f %f %f\n", m.Vertices[j*3], m.Vertices[j*3+1], m.Vertices[j*3+2])
		if (j+1)%3 == 0 {
			bw.WriteString("endloop\nendfacet\n")
		}
	}
	bw.WriteString("endsolid\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	return nil
}

// WriteBinary writes the mesh to the given path in binary STL format.
func WriteBinary(path string, m *meshio.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	if err := EncodeBinary(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeBinary writes the mesh to w in binary STL format, narrowing
// coordinates to float32. Any trailing vertices beyond the last complete
// triangle are dropped with a warning.
func EncodeBinary(w io.Writer, m *meshio.Mesh) error {
	nv := m.NumVertices()
	if nv%3 != 0 {
		slog.Warn("stl: vertex count " + strconv.Itoa(nv) + " is not a multiple of 3; dropping partial triangle")
	}
	nTris := nv / 3
	var hdr binaryHeader
	copy(hdr.Comment[:], "binary STL written by meshio")
	hdr.Count = uint32(nTris)
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	rec := make([]byte, triangleRecordSize)
	for i := 0; i < nTris; i++ {
		var n math32.Vector3
		if i < m.NumNormals() {
			n = math32.Vec3(float32(m.Normals[i*3]), float32(m.Normals[i*3+1]), float32(m.Normals[i*3+2]))
		}
		putRecVec3(rec, n)
		for v := 0; v < 3; v++ {
			j := (i*3 + v) * 3
			putRecVec3(rec[12+v*12:], math32.Vec3(float32(m.Vertices[j]), float32(m.Vertices[j+1]), float32(m.Vertices[j+2])))
		}
		binary.LittleEndian.PutUint16(rec[48:], 0)
		if _, err := bw.Write(rec); err != nil {
			return fmt.Errorf("stl: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	return nil
}

// putRecVec3 encodes a vector as three little-endian float32 values.
func putRecVec3(b []byte, v math32.Vector3) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}
