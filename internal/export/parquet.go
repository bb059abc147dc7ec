package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// ParquetFile is the name of the vertex table.
const ParquetFile = "vertices.parquet"

// Shapes recorded in the vertex table.
const (
	ShapeCatchment = "catchment"
	ShapeLine      = "power_line"
	ShapeAddress   = "address"
)

// VertexRow is one vertex of one exported shape.
type VertexRow struct {
	Suburb    string  `parquet:"suburb"`
	Shape     string  `parquet:"shape"`
	ShapeID   string  `parquet:"shape_id"`
	VoltageKV int32   `parquet:"voltage_kv"`
	Seq       int32   `parquet:"seq"`
	X         float64 `parquet:"x"`
	Y         float64 `parquet:"y"`
}

// VertexRows flattens a scene into table rows, suburbs first, then the address.
func VertexRows(scene Scene) []VertexRow {
	var rows []VertexRow
	for _, s := range scene.Suburbs {
		if s.Catchment != nil {
			for i, p := range s.Catchment.Vertices() {
				rows = append(rows, VertexRow{
					Suburb: s.Name, Shape: ShapeCatchment, ShapeID: s.Name,
					Seq: int32(i), X: p.X, Y: p.Y,
				})
			}
		}
		for _, l := range s.Lines {
			for i, p := range l.Path.Vertices() {
				rows = append(rows, VertexRow{
					Suburb: s.Name, Shape: ShapeLine, ShapeID: l.ID, VoltageKV: int32(l.VoltageKV),
					Seq: int32(i), X: p.X, Y: p.Y,
				})
			}
		}
	}
	rows = append(rows, VertexRow{Shape: ShapeAddress, ShapeID: ShapeAddress, X: scene.Address.X, Y: scene.Address.Y})
	return rows
}

func writeParquet(dir string, scene Scene) ([]string, error) {
	p := filepath.Join(dir, ParquetFile)
	f, err := os.Create(filepath.Clean(p))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", p, err)
	}

	w := parquet.NewGenericWriter[VertexRow](f)
	if _, err := w.Write(VertexRows(scene)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write %s: %w", p, err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("flush %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", p, err)
	}
	return []string{p}, nil
}
