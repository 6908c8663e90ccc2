package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gospectre/nutmeg"
)

// CSVExporter writes plots in long form, one value per row, so plots
// with different trace sets share one table.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Format returns the format identifier.
func (e *CSVExporter) Format() string {
	return "csv"
}

// Export writes a plot,trace,unit,point,value row per sample.
func (e *CSVExporter) Export(plots nutmeg.Plots, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"plot", "trace", "unit", "point", "value"}); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	for _, p := range plots {
		for _, tr := range p.Traces {
			if tr.IsComplex() {
				for i, v := range tr.Complex {
					if err := cw.Write([]string{
						p.Name, tr.Name, tr.Unit, strconv.Itoa(i),
						strconv.FormatComplex(v, 'g', -1, 128),
					}); err != nil {
						return fmt.Errorf("write csv export: %w", err)
					}
				}
				continue
			}
			for i, v := range tr.Real {
				if err := cw.Write([]string{
					p.Name, tr.Name, tr.Unit, strconv.Itoa(i),
					strconv.FormatFloat(v, 'g', -1, 64),
				}); err != nil {
					return fmt.Errorf("write csv export: %w", err)
				}
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	return nil
}
