// terraintool is a CLI utility for inspecting and building terrain files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Faultbox/panzer3d/internal/engine/terrain"
	"github.com/Faultbox/panzer3d/pkg/formats"
	"github.com/Faultbox/panzer3d/pkg/math"
)

// errUsage marks a bad command line; main prints the usage text for it.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v
", err)
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		}
		os.Exit(1)
	}
}

// run executes one terraintool command, writing its report to out.
func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "info":
		return cmdInfo(rest, out)
	case "query", "q":
		return cmdQuery(rest, out)
	case "convert":
		return cmdConvert(rest, out)
	case "flat":
		return cmdFlat(rest, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `terraintool - height field utility

Usage:
  terraintool <command> [options]

Commands:
  info <file>                          Show grid size, bounds and height range
  query <file> <x> <z>                 Print height and normal at a world position
  convert <image> <out.hfd>            Convert a grayscale heightmap to HFD
  flat <out.hfd> <cols> <rows> <h>     Write a flat height field

Files may be .hfd or any png, jpeg, gif or bmp heightmap.
Image options: -scale (height per level), -cell (node spacing)

Examples:
  terraintool info hills.hfd
  terraintool query hills.hfd 12.5 -3
  terraintool convert -scale 0.05 -cell 2 hills.png hills.hfd
  terraintool flat arena.hfd 64 64 0`)
}

// newFlagSet returns a flag set whose parse errors come back to run.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// imageFlags registers the options shared by commands reading images.
func imageFlags(fs *flag.FlagSet) (scale, cell *float64) {
	scale = fs.Float64("scale", 0.03, "Height per luminance level")
	cell = fs.Float64("cell", 1, "Distance between grid nodes")
	return scale, cell
}

func load(path string, scale, cell float64) (*terrain.HeightField, error) {
	return terrain.Load(terrain.LoadOptions{
		Path:        path,
		CellSize:    float32(cell),
		HeightScale: float32(scale),
	})
}

func parseFloat(name, s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errUsage, name, s)
	}
	return float32(v), nil
}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errUsage, name, s)
	}
	return v, nil
}

// parseArgs parses flags and requires at least n positional arguments.
func parseArgs(fs *flag.FlagSet, args []string, n int, usage string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	if fs.NArg() < n {
		return fmt.Errorf("%w: terraintool %s", errUsage, usage)
	}
	return nil
}

func cmdInfo(args []string, out io.Writer) error {
	fs := newFlagSet("info")
	scale, cell := imageFlags(fs)
	if err := parseArgs(fs, args, 1, "info <file>"); err != nil {
		return err
	}

	hf, err := load(fs.Arg(0), *scale, *cell)
	if err != nil {
		return err
	}
	b := hf.Bounds()
	lo, hi := hf.HeightRange()

	fmt.Fprintf(out, "File:      %s\n", fs.Arg(0))
	fmt.Fprintf(out, "Grid:      %d x %d nodes\n", hf.Columns(), hf.Rows())
	fmt.Fprintf(out, "Cell size: %g\n", hf.CellSize())
	fmt.Fprintf(out, "Bounds:    X [%g, %g]  Z [%g, %g]\n", b.Min.X, b.Max.X, b.Min.Y, b.Max.Y)
	fmt.Fprintf(out, "Heights:   [%g, %g]\n", lo, hi)
	return nil
}

func cmdQuery(args []string, out io.Writer) error {
	fs := newFlagSet("query")
	scale, cell := imageFlags(fs)
	if err := parseArgs(fs, args, 3, "query <file> <x> <z>"); err != nil {
		return err
	}

	x, err := parseFloat("x", fs.Arg(1))
	if err != nil {
		return err
	}
	z, err := parseFloat("z", fs.Arg(2))
	if err != nil {
		return err
	}
	hf, err := load(fs.Arg(0), *scale, *cell)
	if err != nil {
		return err
	}

	pos := math.Vec3{X: x, Z: z}
	h, err := hf.HeightAt(pos)
	if err != nil {
		return err
	}
	n, err := hf.NormalAt(pos)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Height: %g\n", h)
	fmt.Fprintf(out, "Normal: (%.4f, %.4f, %.4f)\n", n.X, n.Y, n.Z)
	return nil
}

func cmdConvert(args []string, out io.Writer) error {
	fs := newFlagSet("convert")
	scale, cell := imageFlags(fs)
	if err := parseArgs(fs, args, 2, "convert [-scale s] [-cell c] <image> <out.hfd>"); err != nil {
		return err
	}

	hm, err := formats.DecodeHeightmapFile(fs.Arg(0))
	if err != nil {
		return err
	}

	// Build the field first so a bad grid never reaches disk.
	hf, err := terrain.FromHeightmap(hm, float32(*scale), float32(*cell))
	if err != nil {
		return err
	}
	return write(out, fs.Arg(1), hf)
}

func cmdFlat(args []string, out io.Writer) error {
	fs := newFlagSet("flat")
	cell := fs.Float64("cell", 1, "Distance between grid nodes")
	if err := parseArgs(fs, args, 4, "flat [-cell c] <out.hfd> <cols> <rows> <height>"); err != nil {
		return err
	}

	cols, err := parseInt("cols", fs.Arg(1))
	if err != nil {
		return err
	}
	rows, err := parseInt("rows", fs.Arg(2))
	if err != nil {
		return err
	}
	height, err := parseFloat("height", fs.Arg(3))
	if err != nil {
		return err
	}

	hf, err := terrain.Load(terrain.LoadOptions{
		CellSize:   float32(*cell),
		Columns:    cols,
		Rows:       rows,
		FlatHeight: height,
	})
	if err != nil {
		return err
	}
	return write(out, fs.Arg(0), hf)
}

func write(out io.Writer, path string, hf *terrain.HeightField) error {
	if err := terrain.ToHFD(hf).WriteFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(out, "Wrote: %s (%d x %d)\n", path, hf.Columns(), hf.Rows())
	return nil
}
