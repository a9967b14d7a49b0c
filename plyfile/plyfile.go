// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plyfile implements the PLY polygon file format at the element and
// property level, with the open / describe / get-element / put-element call
// shape of the classic libply (Greg Turk's PLY library): a header declares
// named elements, each with a count and a list of scalar or variable-length
// list properties, and the body carries the element records in declaration
// order. Only the ASCII encoding is supported.
//
// Higher-level mesh semantics (which elements to ask for, what their
// properties mean) belong to the callers, such as the ply mesh package.
package plyfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrFormat indicates a malformed PLY header or body.
var ErrFormat = errors.New("invalid ply file")

// Type is a PLY scalar data type as named in file headers.
type Type int

const (
	Invalid Type = iota
	Char
	UChar
	Short
	UShort
	Int
	UInt
	Float
	Double
)

var typeNames = map[Type]string{
	Char:   "char",
	UChar:  "uchar",
	Short:  "short",
	UShort: "ushort",
	Int:    "int",
	UInt:   "uint",
	Float:  "float",
	Double: "double",
}

func (t Type) String() string { return typeNames[t] }

// IsFloat reports whether the type holds floating-point values.
func (t Type) IsFloat() bool { return t == Float || t == Double }

func typeFromName(name string) Type {
	for t, n := range typeNames {
		if n == name {
			return t
		}
	}
	return Invalid
}

// Property describes one property of an element: either a scalar of the
// given Type, or, when IsList is set, a variable-length list of Type values
// prefixed by a count of CountType.
type Property struct {
	Name      string
	Type      Type
	IsList    bool
	CountType Type
}

// Element describes one element kind: its name, how many records the file
// holds, and the properties of each record in declaration order.
type Element struct {
	Name  string
	Count int
	Props []Property
}

// Record is one element instance. Scalar properties are float64 values;
// list properties of an integer type are []int and float lists []float64.
type Record map[string]any

// File is a PLY file open for reading. Element records must be consumed in
// the file's declaration order, one GetElement call per record.
type File struct {
	f        *os.File
	sc       *bufio.Scanner
	Version  string
	elems    []*Element
	comments []string
	objInfo  []string
	cur      int // index into elems of the element being read
	curLeft  int // unread records of the current element
}

// OpenForReading opens the PLY file at the given path and parses its
// header, leaving the file positioned at the first element record.
func OpenForReading(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("plyfile: %w", err)
	}
	pf := &File{f: f, sc: bufio.NewScanner(f)}
	if err := pf.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	if len(pf.elems) > 0 {
		pf.curLeft = pf.elems[0].Count
	}
	return pf, nil
}

func (pf *File) readHeader() error {
	if !pf.scanLine() || pf.sc.Text() != "ply" {
		return fmt.Errorf("plyfile: %w: missing ply magic", ErrFormat)
	}
	var cur *Element
	for pf.scanLine() {
		fields := strings.Fields(pf.sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 3 || fields[1] != "ascii" {
				return fmt.Errorf("plyfile: %w: only ascii format is supported, got %q", ErrFormat, pf.sc.Text())
			}
			pf.Version = fields[2]
		case "comment":
			pf.comments = append(pf.comments, strings.TrimSpace(strings.TrimPrefix(pf.sc.Text(), "comment")))
		case "obj_info":
			pf.objInfo = append(pf.objInfo, strings.TrimSpace(strings.TrimPrefix(pf.sc.Text(), "obj_info")))
		case "element":
			if len(fields) < 3 {
				return fmt.Errorf("plyfile: %w: malformed element line %q", ErrFormat, pf.sc.Text())
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				return fmt.Errorf("plyfile: %w: malformed element count %q", ErrFormat, fields[2])
			}
			cur = &Element{Name: fields[1], Count: count}
			pf.elems = append(pf.elems, cur)
		case "property":
			if cur == nil || len(fields) < 3 {
				return fmt.Errorf("plyfile: %w: malformed property line %q", ErrFormat, pf.sc.Text())
			}
			var prop Property
			if fields[1] == "list" {
				if len(fields) < 5 {
					return fmt.Errorf("plyfile: %w: malformed list property %q", ErrFormat, pf.sc.Text())
				}
				prop = Property{Name: fields[4], Type: typeFromName(fields[3]), IsList: true, CountType: typeFromName(fields[2])}
			} else {
				prop = Property{Name: fields[2], Type: typeFromName(fields[1])}
			}
			if prop.Type == Invalid || (prop.IsList && prop.CountType == Invalid) {
				return fmt.Errorf("plyfile: %w: unknown property type in %q", ErrFormat, pf.sc.Text())
			}
			cur.Props = append(cur.Props, prop)
		case "end_header":
			return nil
		default:
			return fmt.Errorf("plyfile: %w: unknown header keyword %q", ErrFormat, fields[0])
		}
	}
	return fmt.Errorf("plyfile: %w: end_header not found", ErrFormat)
}

func (pf *File) scanLine() bool { return pf.sc.Scan() }

// ElementNames returns the element names in file declaration order.
func (pf *File) ElementNames() []string {
	names := make([]string, len(pf.elems))
	for i, el := range pf.elems {
		names[i] = el.Name
	}
	return names
}

// Element returns the description of the named element, or nil.
func (pf *File) Element(name string) *Element {
	for _, el := range pf.elems {
		if el.Name == name {
			return el
		}
	}
	return nil
}

// Comments returns the header comments.
func (pf *File) Comments() []string { return pf.comments }

// ObjInfo returns the header obj_info entries.
func (pf *File) ObjInfo() []string { return pf.objInfo }

// GetElement reads the next record of the named element, which must be the
// element whose records are next in the file; records of earlier elements
// that were not fully consumed are skipped.
func (pf *File) GetElement(name string) (Record, error) {
	for pf.cur < len(pf.elems) && pf.elems[pf.cur].Name != name {
		for ; pf.curLeft > 0; pf.curLeft-- {
			if !pf.scanLine() {
				return nil, fmt.Errorf("plyfile: %w: truncated element %s", ErrFormat, pf.elems[pf.cur].Name)
			}
		}
		pf.advance()
	}
	if pf.cur >= len(pf.elems) {
		return nil, fmt.Errorf("plyfile: %w: no element %q", ErrFormat, name)
	}
	el := pf.elems[pf.cur]
	if pf.curLeft == 0 {
		return nil, fmt.Errorf("plyfile: %w: all %d records of element %q already read", ErrFormat, el.Count, name)
	}
	if !pf.scanLine() {
		if err := pf.sc.Err(); err != nil {
			return nil, fmt.Errorf("plyfile: %w", err)
		}
		return nil, fmt.Errorf("plyfile: %w: truncated element %q", ErrFormat, name)
	}
	pf.curLeft--
	if pf.curLeft == 0 {
		pf.advance()
	}
	return parseRecord(el, strings.Fields(pf.sc.Text()))
}

func (pf *File) advance() {
	pf.cur++
	if pf.cur < len(pf.elems) {
		pf.curLeft = pf.elems[pf.cur].Count
	}
}

// parseRecord decodes one ASCII body line against the element's properties.
func parseRecord(el *Element, fields []string) (Record, error) {
	rec := make(Record, len(el.Props))
	pos := 0
	next := func() (string, error) {
		if pos >= len(fields) {
			return "", fmt.Errorf("plyfile: %w: element %q record has only %d values", ErrFormat, el.Name, len(fields))
		}
		f := fields[pos]
		pos++
		return f, nil
	}
	for _, prop := range el.Props {
		if !prop.IsList {
			f, err := next()
			if err != nil {
				return nil, err
			}
			val, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("plyfile: %w: bad %s value %q", ErrFormat, prop.Name, f)
			}
			rec[prop.Name] = val
			continue
		}
		f, err := next()
		if err != nil {
			return nil, err
		}
		count, err := strconv.Atoi(f)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("plyfile: %w: bad %s list count %q", ErrFormat, prop.Name, f)
		}
		if prop.Type.IsFloat() {
			list := make([]float64, count)
			for i := range list {
				if f, err = next(); err != nil {
					return nil, err
				}
				if list[i], err = strconv.ParseFloat(f, 64); err != nil {
					return nil, fmt.Errorf("plyfile: %w: bad %s list value %q", ErrFormat, prop.Name, f)
				}
			}
			rec[prop.Name] = list
		} else {
			list := make([]int, count)
			for i := range list {
				if f, err = next(); err != nil {
					return nil, err
				}
				if list[i], err = strconv.Atoi(f); err != nil {
					return nil, fmt.Errorf("plyfile: %w: bad %s list value %q", ErrFormat, prop.Name, f)
				}
			}
			rec[prop.Name] = list
		}
	}
	return rec, nil
}

// Close closes the underlying file.
func (pf *File) Close() error { return pf.f.Close() }
