// n3meshinfo is a CLI utility for inspecting Knight Online N3 mesh files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/n3mesh-editor/internal/logger"
	"github.com/Faultbox/n3mesh-editor/pkg/formats"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := logger.Init("warn", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(os.Stdout, os.Args[1], os.Args[2:]); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(w io.Writer, command string, args []string) error {
	switch command {
	case "info":
		return cmdInfo(w, args)
	case "bounds":
		return cmdBounds(w, args)
	case "check":
		return cmdCheck(w, args)
	case "dump":
		return cmdDump(w, args)
	case "help", "-h", "--help":
		printUsage(w)
		return nil
	default:
		fmt.Fprintf(w, "Unknown command: %s\n", command)
		printUsage(w)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `n3meshinfo - Knight Online N3 mesh utility

Usage:
  n3meshinfo <command> [options]

Commands:
  info <file>                     Show header, vertex format and counts
  bounds [-recompute] <file>      Show bounding box and sphere
  check <file>                    Validate indices and vertex format
  dump [-n count] <file>          Print the first vertices

Supported files: .n3mesh, .n3vmesh

Examples:
  n3meshinfo info item_sword.n3mesh
  n3meshinfo bounds -recompute item_sword.n3mesh
  n3meshinfo dump -n 4 zone.n3vmesh`)
}

// meshFile is a parsed file of either supported format.
type meshFile struct {
	path string
	n3   *formats.N3Mesh
	n3v  *formats.N3VMesh
}

func openMesh(path string) (*meshFile, error) {
	f := &meshFile{path: path}
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case formats.ExtN3Mesh:
		f.n3, err = formats.LoadN3Mesh(path)
	case formats.ExtN3VMesh:
		f.n3v, err = formats.LoadN3VMesh(path)
	default:
		return nil, fmt.Errorf("%s: unrecognized extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func (f *meshFile) vertices() ([]formats.VertexColor, error) {
	if f.n3v != nil {
		return f.n3v.Vertices, nil
	}
	return f.n3.ColorVertices()
}

func (f *meshFile) checkIndices() error {
	if f.n3v != nil {
		return f.n3v.CheckIndices()
	}
	return f.n3.CheckIndices()
}

func singleFile(fs *flag.FlagSet, args []string) (*meshFile, error) {
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(fs.Output(), "Usage: n3meshinfo %s [options] <file>\n", fs.Name())
		return nil, errUsage
	}
	return openMesh(fs.Arg(0))
}

func cmdInfo(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(w)
	f, err := singleFile(fs, args)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File:         %s\n", f.path)
	if f.n3v != nil {
		fmt.Fprintf(w, "Type:         collision mesh\n")
		fmt.Fprintf(w, "Vertices:     %d\n", f.n3v.VertexCount())
		fmt.Fprintf(w, "Indices:      %d\n", f.n3v.IndexCount())
		fmt.Fprintf(w, "Triangles:    %d\n", f.n3v.IndexCount()/3)
		return nil
	}

	m := f.n3
	fmt.Fprintf(w, "Type:         N3 mesh\n")
	fmt.Fprintf(w, "Version:      %g\n", m.Version)
	fmt.Fprintf(w, "FVF:          %s\n", m.FVF)
	fmt.Fprintf(w, "Stride:       %d bytes\n", m.Stride())
	fmt.Fprintf(w, "Vertices:     %d\n", m.VertexCount)
	fmt.Fprintf(w, "Indices:      %d\n", m.IndexCount())
	fmt.Fprintf(w, "Faces:        %d\n", m.FaceCount)
	if m.FVF != formats.FVFXYZColor {
		fmt.Fprintf(w, "Renderable:   no (only %s is supported)\n", formats.FVFXYZColor)
	} else {
		fmt.Fprintf(w, "Renderable:   yes\n")
	}
	return nil
}

func cmdBounds(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("bounds", flag.ContinueOnError)
	fs.SetOutput(w)
	recompute := fs.Bool("recompute", false, "derive bounds from vertex positions")
	f, err := singleFile(fs, args)
	if err != nil {
		return err
	}

	var b formats.Bounds
	switch {
	case *recompute && f.n3 != nil:
		if b, err = f.n3.RecomputeBounds(); err != nil {
			return err
		}
	case f.n3 != nil:
		b = formats.Bounds{Min: f.n3.Min, Max: f.n3.Max, Center: f.n3.Center(), Radius: f.n3.Radius}
	default:
		// Collision bounds are always derived; the stored sphere is reported as is.
		b = formats.Bounds{Min: f.n3v.Min, Max: f.n3v.Max, Center: f.n3v.Center, Radius: f.n3v.Radius}
	}

	fmt.Fprintf(w, "Min:          %s\n", vec(b.Min))
	fmt.Fprintf(w, "Max:          %s\n", vec(b.Max))
	fmt.Fprintf(w, "Center:       %s\n", vec(b.Center))
	fmt.Fprintf(w, "Radius:       %.4f\n", b.Radius)
	return nil
}

func cmdCheck(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(w)
	f, err := singleFile(fs, args)
	if err != nil {
		return err
	}

	var problems []error
	if err := f.checkIndices(); err != nil {
		problems = append(problems, err)
	}
	if _, err := f.vertices(); err != nil {
		problems = append(problems, err)
	}
	if f.n3 != nil && f.n3.VertexCount == 0 {
		problems = append(problems, formats.ErrEmptyMesh)
	}

	if len(problems) == 0 {
		fmt.Fprintf(w, "%s: OK\n", f.path)
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(w, "%s: %v\n", f.path, p)
	}
	return errors.Join(problems...)
}

func cmdDump(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(w)
	limit := fs.Int("n", 10, "number of vertices to print (0 for all)")
	f, err := singleFile(fs, args)
	if err != nil {
		return err
	}

	verts, err := f.vertices()
	if err != nil {
		return err
	}
	n := len(verts)
	if *limit > 0 && *limit < n {
		n = *limit
	}
	for i, v := range verts[:n] {
		fmt.Fprintf(w, "%6d  %s  #%08X\n", i, vec(v.Pos), v.Color)
	}
	if n < len(verts) {
		fmt.Fprintf(w, "... %d more\n", len(verts)-n)
	}
	return nil
}

func vec(v [3]float32) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v[0], v[1], v[2])
}
