package proximity

import (
	"github.com/kailas-cloud/gridprox/internal/export"
)

// SceneExporter writes the query scene to a directory.
type SceneExporter interface {
	Export(dir string, scene export.Scene) ([]string, error)
}
