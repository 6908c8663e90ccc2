package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"gospectre/nutmeg"
)

// YAMLExporter writes plots as a YAML document.
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter.
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Format returns the format identifier.
func (e *YAMLExporter) Format() string {
	return "yaml"
}

type yamlTrace struct {
	Name    string       `yaml:"name"`
	Unit    string       `yaml:"unit,omitempty"`
	Real    []float64    `yaml:"real,omitempty"`
	Complex [][2]float64 `yaml:"complex,omitempty"`
}

type yamlPlot struct {
	Name   string      `yaml:"name"`
	Title  string      `yaml:"title,omitempty"`
	Date   string      `yaml:"date,omitempty"`
	Flags  string      `yaml:"flags,omitempty"`
	Points int         `yaml:"points"`
	Traces []yamlTrace `yaml:"traces"`
}

// Export writes every plot, complex samples as [re, im] pairs.
func (e *YAMLExporter) Export(plots nutmeg.Plots, w io.Writer) error {
	out := make([]yamlPlot, len(plots))
	for i, p := range plots {
		out[i] = yamlPlot{
			Name:   p.Name,
			Title:  p.Title,
			Date:   p.Date,
			Flags:  p.Flags,
			Points: p.Points,
			Traces: make([]yamlTrace, len(p.Traces)),
		}
		for j, tr := range p.Traces {
			yt := yamlTrace{Name: tr.Name, Unit: tr.Unit}
			if tr.IsComplex() {
				yt.Complex = make([][2]float64, len(tr.Complex))
				for k, v := range tr.Complex {
					yt.Complex[k] = [2]float64{real(v), imag(v)}
				}
			} else {
				yt.Real = tr.Real
			}
			out[i].Traces[j] = yt
		}
	}

	enc := yaml.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		enc.Close()
		return fmt.Errorf("encode yaml export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml export: %w", err)
	}
	return nil
}
