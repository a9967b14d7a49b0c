// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command meshconv reports the contents of polygon mesh files and converts
// between the OBJ, OFF, STL and PLY formats.
package main

import (
	"fmt"

	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/cli"
	"github.com/cogentcore/meshio"
	_ "github.com/cogentcore/meshio/obj"
	_ "github.com/cogentcore/meshio/off"
	_ "github.com/cogentcore/meshio/ply"
	_ "github.com/cogentcore/meshio/stl"
)

// Config is the configuration information for the meshconv cli.
type Config struct {

	// Input is the mesh file to read (.obj, .off, .stl or .ply).
	Input string `posarg:"0"`

	// Output is the mesh file to write; the target format is chosen
	// by its extension.
	Output string `cmd:"convert" posarg:"1"`
}

func main() {
	opts := cli.DefaultOptions("meshconv", "Meshconv reports the contents of polygon mesh files and converts between the OBJ, OFF, STL and PLY formats.")
	cli.Run(opts, &Config{}, Info, Convert)
}

// Info reads the given mesh file and prints its element counts.
func Info(c *Config) error { //cli:cmd -root
	m, err := meshio.ReadFile(c.Input)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n", c.Input)
	fmt.Printf("\t%d vertices\n", m.NumVertices())
	fmt.Printf("\t%d normals\n", m.NumNormals())
	fmt.Printf("\t%d texture coordinates\n", m.NumTexCoords())
	fmt.Printf("\t%d faces\n", m.NumFaces())
	fmt.Printf("\t%d face indices\n", m.NumFaceIndices())
	return nil
}

// Convert reads the input mesh file and writes it back out to the output
// file, in the format given by the output file's extension.
func Convert(c *Config) error {
	m, err := meshio.ReadFile(c.Input)
	if err != nil {
		return err
	}
	logx.PrintfDebug("%s: %d vertices, %d faces -> %s\n", c.Input, m.NumVertices(), m.NumFaces(), c.Output)
	return meshio.WriteFile(c.Output, m)
}
