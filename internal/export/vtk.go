package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/domain/geo"
)

const vtkHeader = "# vtk DataFile Version 1.0\n" +
	"2D Unstructured Grid of Linear Triangles\n" +
	"ASCII\n\n" +
	"DATASET POLYDATA\n"

func writeVTK(dir string, scene Scene) ([]string, error) {
	var written []string
	for _, s := range scene.Suburbs {
		if s.Catchment != nil {
			p := filepath.Join(dir, fileName(s.Name)+"_catchment.vtk")
			if err := writeFile(p, func(w io.Writer) error { return polygonVTK(w, s.Catchment) }); err != nil {
				return written, err
			}
			written = append(written, p)
		}
		p := filepath.Join(dir, fileName(s.Name)+"_high_voltage.vtk")
		if err := writeFile(p, func(w io.Writer) error { return linesVTK(w, s.Lines) }); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	for _, r := range AddressRadii {
		ring, err := Circle(scene.Address, r, CircleSamples)
		if err != nil {
			return written, fmt.Errorf("address ring %vm: %w", r, err)
		}
		p := filepath.Join(dir, fmt.Sprintf("address_%dm.vtk", int(r)))
		if err := writeFile(p, func(w io.Writer) error { return polygonVTK(w, ring) }); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

// polygonVTK writes a closed polygon as a single POLYGONS cell that repeats its first vertex.
func polygonVTK(w io.Writer, pg *geo.Polygon) error {
	vertices := pg.Vertices()
	bw := bufio.NewWriter(w)
	bw.WriteString(vtkHeader)
	writePoints(bw, vertices)
	bw.WriteString("\n")
	fmt.Fprintf(bw, "POLYGONS 1 %d\n", len(vertices)+2)
	fmt.Fprintf(bw, "%d  ", len(vertices)+1)
	for i := range vertices {
		fmt.Fprintf(bw, "%d  ", i)
	}
	bw.WriteString("0\n")
	return bw.Flush()
}

// linesVTK writes every power line as one LINES cell over a shared point list.
func linesVTK(w io.Writer, lines []domain.PowerLine) error {
	all := make([][]geo.Point, len(lines))
	total := 0
	for i, l := range lines {
		all[i] = l.Path.Vertices()
		total += len(all[i])
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(vtkHeader)
	fmt.Fprintf(bw, "POINTS %d float\n", total)
	for _, vs := range all {
		writeCoords(bw, vs)
	}
	bw.WriteString("\n")
	fmt.Fprintf(bw, "LINES %d %d\n", len(all), total+len(all))
	offset := 0
	for _, vs := range all {
		fmt.Fprintf(bw, "%d  ", len(vs))
		for range vs {
			fmt.Fprintf(bw, "%d  ", offset)
			offset++
		}
		bw.WriteString("\n")
	}
	bw.WriteString("\n")
	return bw.Flush()
}

func writePoints(bw *bufio.Writer, vertices []geo.Point) {
	fmt.Fprintf(bw, "POINTS %d float\n", len(vertices))
	writeCoords(bw, vertices)
}

func writeCoords(bw *bufio.Writer, vertices []geo.Point) {
	for _, p := range vertices {
		bw.WriteString(formatFloat(p.X))
		bw.WriteString("  ")
		bw.WriteString(formatFloat(p.Y))
		bw.WriteString("  0.0\n")
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
