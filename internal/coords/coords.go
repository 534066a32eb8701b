// Package coords reads and writes particle coordinate files and generates
// starting lattices.
//
// A coordinate file holds one particle per line as "label x y z". Lines with
// any other number of fields are skipped, which lets headers and comments
// share the file.
package coords

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/mcsim/internal/vec"
)

var (
	ErrParse   = errors.New("coords: malformed coordinate")
	ErrCount   = errors.New("coords: particle count must be positive")
	ErrBoxSize = errors.New("coords: box length must be positive and finite")
)

// Read parses coordinates from r. A 4-field line whose x, y or z does not
// parse as a float is an error naming the 1-based line number.
func Read(r io.Reader) ([]vec.Vec3, error) {
	sc := bufio.NewScanner(r)
	ps := make([]vec.Vec3, 0)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) != 4 {
			continue
		}
		var xyz [3]float64
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q", ErrParse, line, f)
			}
			xyz[i] = v
		}
		ps = append(ps, vec.New(xyz[0], xyz[1], xyz[2]))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("coords: read: %w", err)
	}
	return ps, nil
}

func ReadFile(path string) ([]vec.Vec3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ps, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

// Lattice places n particles on a simple cubic lattice filling a box of side
// l. Each axis has floor(cbrt(n))+1 sites spaced l/k apart, and sites are
// taken in x-major order until n are placed.
func Lattice(n int, l float64) ([]vec.Vec3, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrCount, n)
	}
	if !(l > 0) || math.IsInf(l, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrBoxSize, l)
	}

	k := int(math.Cbrt(float64(n))) + 1
	spacing := l / float64(k)

	ps := make([]vec.Vec3, 0, n)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			for m := 0; m < k; m++ {
				ps = append(ps, vec.New(float64(i)*spacing, float64(j)*spacing, float64(m)*spacing))
				if len(ps) == n {
					return ps, nil
				}
			}
		}
	}
	return ps, nil
}

// Write emits one "index x y z" line per particle in a form Read accepts.
func Write(w io.Writer, ps []vec.Vec3) error {
	bw := bufio.NewWriter(w)
	for i, p := range ps {
		if _, err := fmt.Fprintf(bw, "%d %s %s %s\n", i, ftoa(p.X), ftoa(p.Y), ftoa(p.Z)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func WriteFile(path string, ps []vec.Vec3) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, ps); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
