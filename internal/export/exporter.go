package export

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Supported formats.
const (
	FormatVTK     = "vtk"
	FormatGeoJSON = "geojson"
	FormatParquet = "parquet"
)

type writer func(dir string, scene Scene) ([]string, error)

// Exporter writes scenes in the configured formats.
type Exporter struct {
	formats []string
	writers map[string]writer
	logger  *zap.Logger
}

// New creates an exporter for the given formats.
func New(formats []string, logger *zap.Logger) (*Exporter, error) {
	writers := map[string]writer{
		FormatVTK:     writeVTK,
		FormatGeoJSON: writeGeoJSON,
		FormatParquet: writeParquet,
	}
	for _, f := range formats {
		if _, ok := writers[f]; !ok {
			return nil, fmt.Errorf("unknown export format %q", f)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{formats: formats, writers: writers, logger: logger}, nil
}

// Export writes scene into dir, creating it if needed, and returns the written paths.
func (e *Exporter) Export(dir string, scene Scene) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	var written []string
	for _, f := range e.formats {
		paths, err := e.writers[f](dir, scene)
		if err != nil {
			return written, fmt.Errorf("export %s: %w", f, err)
		}
		e.logger.Debug("Scene exported", zap.String("format", f), zap.Strings("files", paths))
		written = append(written, paths...)
	}
	return written, nil
}
