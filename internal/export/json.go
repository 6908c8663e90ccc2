package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gospectre/nutmeg"
)

// JSONExporter writes plots as an indented JSON document.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Format returns the format identifier.
func (e *JSONExporter) Format() string {
	return "json"
}

type jsonTrace struct {
	Name    string       `json:"name"`
	Unit    string       `json:"unit,omitempty"`
	Real    []float64    `json:"real,omitempty"`
	Complex [][2]float64 `json:"complex,omitempty"`
}

type jsonPlot struct {
	Name   string      `json:"name"`
	Title  string      `json:"title,omitempty"`
	Date   string      `json:"date,omitempty"`
	Flags  string      `json:"flags,omitempty"`
	Points int         `json:"points"`
	Traces []jsonTrace `json:"traces"`
}

// Export writes every plot, complex samples as [re, im] pairs.
func (e *JSONExporter) Export(plots nutmeg.Plots, w io.Writer) error {
	out := make([]jsonPlot, len(plots))
	for i, p := range plots {
		out[i] = jsonPlot{
			Name:   p.Name,
			Title:  p.Title,
			Date:   p.Date,
			Flags:  p.Flags,
			Points: p.Points,
			Traces: make([]jsonTrace, len(p.Traces)),
		}
		for j, tr := range p.Traces {
			jt := jsonTrace{Name: tr.Name, Unit: tr.Unit}
			if tr.IsComplex() {
				jt.Complex = make([][2]float64, len(tr.Complex))
				for k, v := range tr.Complex {
					jt.Complex[k] = [2]float64{real(v), imag(v)}
				}
			} else {
				jt.Real = tr.Real
			}
			out[i].Traces[j] = jt
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}
