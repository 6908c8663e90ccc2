// Package export serializes decoded simulation results for consumption
// outside this program.
package export

import (
	"fmt"
	"io"

	"gospectre/nutmeg"
)

// Exporter writes a set of plots in one output format.
type Exporter interface {
	Export(plots nutmeg.Plots, w io.Writer) error
	Format() string
}

// ByFormat returns the exporter for a format identifier.
func ByFormat(format string) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSVExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	case "yaml":
		return NewYAMLExporter(), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// Formats lists the supported format identifiers.
func Formats() []string {
	return []string{"csv", "json", "yaml"}
}
