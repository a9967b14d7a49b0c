// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linescan reads text files one logical line at a time, tracking
// byte offsets so that multi-pass parsers can checkpoint a position and
// re-read from it. Lines are trimmed of surrounding blanks and line endings
// (both LF and CRLF), and a "meaningful" scan mode skips blank lines and
// # comments, which is the shared convention of the mesh text formats.
package linescan

import (
	"bufio"
	"io"
	"strings"
)

// blanks are the characters trimmed from both ends of every line.
const blanks = "\r\n\t "

// Scanner reads logical lines from a seekable reader.
// The zero value is not usable; use NewScanner.
type Scanner struct {
	rs   io.ReadSeeker
	buf  *bufio.Reader
	text string
	line int   // 1-based number of the line last returned by Scan
	off  int64 // byte offset of the first unread line
	err  error
	eof  bool
}

// NewScanner returns a Scanner reading from the start of rs.
func NewScanner(rs io.ReadSeeker) *Scanner {
	return &Scanner{rs: rs, buf: bufio.NewReader(rs)}
}

// Scan advances to the next line, returning false at end of input or on a
// read error (see Err). The line is available from Text.
func (sc *Scanner) Scan() bool {
	if sc.err != nil || sc.eof {
		return false
	}
	raw, err := sc.buf.ReadString('\n')
	if err != nil && err != io.EOF {
		sc.err = err
		return false
	}
	if err == io.EOF {
		sc.eof = true
		if raw == "" {
			return false
		}
	}
	sc.off += int64(len(raw))
	sc.text = strings.Trim(raw, blanks)
	sc.line++
	return true
}

// ScanMeaningful advances to the next line that is neither blank nor a
// # comment, returning false when none remains.
func (sc *Scanner) ScanMeaningful() bool {
	for sc.Scan() {
		if sc.text != "" && sc.text[0] != '#' {
			return true
		}
	}
	return false
}

// Text returns the current line, trimmed of surrounding blanks.
func (sc *Scanner) Text() string { return sc.text }

// Line returns the 1-based line number of the current line.
func (sc *Scanner) Line() int { return sc.line }

// Offset returns the byte offset of the first unread line, suitable as a
// checkpoint for SeekTo. The line number is not preserved across a seek.
func (sc *Scanner) Offset() int64 { return sc.off }

// SeekTo repositions the scanner at the given byte offset, as previously
// obtained from Offset.
func (sc *Scanner) SeekTo(off int64) error {
	if _, err := sc.rs.Seek(off, io.SeekStart); err != nil {
		sc.err = err
		return err
	}
	sc.buf.Reset(sc.rs)
	sc.off = off
	sc.eof = false
	sc.err = nil
	sc.text = ""
	return nil
}

// Rewind repositions the scanner at the start of the input and resets the
// line number, for parsers that survey the file before filling.
func (sc *Scanner) Rewind() error {
	if err := sc.SeekTo(0); err != nil {
		return err
	}
	sc.line = 0
	return nil
}

// Err returns the first read or seek error encountered, excluding io.EOF.
func (sc *Scanner) Err() error { return sc.err }
