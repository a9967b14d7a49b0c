// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plyfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// Writer is a PLY file open for writing. The call sequence follows libply:
// OpenForWriting with the element names, then ElementCount and
// DescribeProperty for each element (plus any PutComment / PutObjInfo),
// then HeaderComplete, then for each element in order PutElementSetup
// followed by one PutElement per record, and finally Close.
type Writer struct {
	f          *os.File
	w          *bufio.Writer
	elems      []*Element
	comments   []string
	objInfo    []string
	headerDone bool
	cur        *Element
}

// OpenForWriting creates the PLY file at the given path with the given
// element names, in the order their records will be written.
func OpenForWriting(path string, elemNames []string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("plyfile: %w", err)
	}
	pw := &Writer{f: f, w: bufio.NewWriter(f)}
	for _, name := range elemNames {
		pw.elems = append(pw.elems, &Element{Name: name})
	}
	return pw, nil
}

func (pw *Writer) element(name string) *Element {
	for _, el := range pw.elems {
		if el.Name == name {
			return el
		}
	}
	return nil
}

// ElementCount sets how many records of the named element will be written.
func (pw *Writer) ElementCount(name string, count int) {
	if el := pw.element(name); el != nil {
		el.Count = count
	}
}

// DescribeProperty appends a property to the named element's record layout.
func (pw *Writer) DescribeProperty(name string, prop Property) {
	if el := pw.element(name); el != nil {
		el.Props = append(el.Props, prop)
	}
}

// PutComment adds a comment line to the header.
func (pw *Writer) PutComment(comment string) {
	pw.comments = append(pw.comments, comment)
}

// PutObjInfo adds an obj_info line to the header.
func (pw *Writer) PutObjInfo(info string) {
	pw.objInfo = append(pw.objInfo, info)
}

// HeaderComplete writes the header; the element and property descriptions
// must not change afterwards.
func (pw *Writer) HeaderComplete() error {
	pw.w.WriteString("ply\nformat ascii 1.0\n")
	for _, c := range pw.comments {
		fmt.Fprintf(pw.w, "comment %s\n", c)
	}
	for _, oi := range pw.objInfo {
		fmt.Fprintf(pw.w, "obj_info %s\n", oi)
	}
	for _, el := range pw.elems {
		fmt.Fprintf(pw.w, "element %s %d\n", el.Name, el.Count)
		for _, prop := range el.Props {
			if prop.IsList {
				fmt.Fprintf(pw.w, "property list %s %s %s\n", prop.CountType, prop.Type, prop.Name)
			} else {
				fmt.Fprintf(pw.w, "property %s %s\n", prop.Type, prop.Name)
			}
		}
	}
	pw.w.WriteString("end_header\n")
	pw.headerDone = true
	return pw.w.Flush()
}

// PutElementSetup selects the element whose records subsequent PutElement
// calls write.
func (pw *Writer) PutElementSetup(name string) {
	pw.cur = pw.element(name)
}

// PutElement writes one record of the current element. Scalar property
// values must be float64, integer list values []int and float list values
// []float64, matching what GetElement produces.
func (pw *Writer) PutElement(rec Record) error {
	if !pw.headerDone || pw.cur == nil {
		return fmt.Errorf("plyfile: PutElement before HeaderComplete/PutElementSetup")
	}
	sep := ""
	for _, prop := range pw.cur.Props {
		val, ok := rec[prop.Name]
		if !ok {
			return fmt.Errorf("plyfile: record missing property %q of element %q", prop.Name, pw.cur.Name)
		}
		if !prop.IsList {
			v, ok := val.(float64)
			if !ok {
				return fmt.Errorf("plyfile: property %q: want float64, got %T", prop.Name, val)
			}
			pw.w.WriteString(sep + formatScalar(v, prop.Type))
			sep = " "
			continue
		}
		switch list := val.(type) {
		case []int:
			pw.w.WriteString(sep + strconv.Itoa(len(list)))
			for _, v := range list {
				pw.w.WriteString(" " + strconv.Itoa(v))
			}
		case []float64:
			pw.w.WriteString(sep + strconv.Itoa(len(list)))
			for _, v := range list {
				pw.w.WriteString(" " + formatScalar(v, prop.Type))
			}
		default:
			return fmt.Errorf("plyfile: list property %q: want []int or []float64, got %T", prop.Name, val)
		}
		sep = " "
	}
	pw.w.WriteByte('\n')
	return nil
}

// formatScalar renders a value per its declared type: integer types without
// a fraction, float types at their own precision.
func formatScalar(v float64, t Type) string {
	switch t {
	case Float:
		return strconv.FormatFloat(v, 'g', -1, 32)
	case Double:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return strconv.FormatInt(int64(v), 10)
	}
}

// Close flushes and closes the file.
func (pw *Writer) Close() error {
	if err := pw.w.Flush(); err != nil {
		pw.f.Close()
		return fmt.Errorf("plyfile: %w", err)
	}
	return pw.f.Close()
}
