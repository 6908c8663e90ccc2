// Package nutmeg decodes the raw result files Spectre writes when invoked
// with -format nutbin.
//
// A raw file is a sequence of plots, one per executed analysis. Each plot
// starts with an ASCII header (Title, Date, Plotname, Flags, variable and
// point counts, a variable table) followed by the sample data, either as
// big-endian float64 in a Binary section or as ASCII columns in a Values
// section. Complex plots store two doubles per sample.
//
// Because the simulator appends a plot to the same file after every run,
// ReadAt accepts a byte offset and reports the offset past the last
// complete plot, letting a long-lived session load only what the latest
// run produced.
package nutmeg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Trace is one named signal of a plot.
type Trace struct {
	Name    string
	Unit    string
	Real    []float64
	Complex []complex128
}

// IsComplex reports whether the trace carries complex samples.
func (t *Trace) IsComplex() bool { return t.Complex != nil }

// Plot holds the result of one analysis: traces sharing a point count.
type Plot struct {
	Title  string
	Date   string
	Name   string
	Flags  string
	Points int
	Traces []Trace
}

// Trace returns the named trace of the plot.
func (p *Plot) Trace(name string) (*Trace, bool) {
	for i := range p.Traces {
		if p.Traces[i].Name == name {
			return &p.Traces[i], true
		}
	}
	return nil, false
}

// Plots is the ordered list of plots decoded from one read.
type Plots []*Plot

// Plot returns the first plot with the given name.
func (ps Plots) Plot(name string) (*Plot, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Names returns the plot names in file order.
func (ps Plots) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// Read decodes every plot in a raw file.
func Read(path string) (Plots, error) {
	plots, _, err := ReadAt(path, 0)
	return plots, err
}

// ReadAt decodes the plots starting at a byte offset and returns the
// offset just past the last complete plot.
func ReadAt(path string, offset int64) (Plots, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, offset, err
	}
	if offset < 0 || offset > int64(len(data)) {
		return nil, offset, fmt.Errorf("%s: offset %d out of range", path, offset)
	}

	d := &decoder{data: data, pos: int(offset)}
	var plots Plots
	for {
		p, err := d.plot()
		if err != nil {
			return nil, offset, fmt.Errorf("%s: %w", path, err)
		}
		if p == nil {
			break
		}
		plots = append(plots, p)
	}
	return plots, int64(d.pos), nil
}

type decoder struct {
	data []byte
	pos  int
}

// line consumes the next text line, without its terminator.
func (d *decoder) line() (string, bool) {
	if d.pos >= len(d.data) {
		return "", false
	}
	rest := d.data[d.pos:]
	end := bytes.IndexByte(rest, '\n')
	if end < 0 {
		d.pos = len(d.data)
		return strings.TrimRight(string(rest), "\r"), true
	}
	d.pos += end + 1
	return strings.TrimRight(string(rest[:end]), "\r"), true
}

// plot decodes one plot section, or returns nil at a clean end of file.
func (d *decoder) plot() (*Plot, error) {
	p := &Plot{Points: -1}
	nvars := -1
	sawHeader := false

	for {
		start := d.pos
		line, ok := d.line()
		if !ok {
			if sawHeader {
				return nil, fmt.Errorf("truncated plot header")
			}
			return nil, nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, rest, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("unrecognized line %q at byte %d", line, start)
		}
		rest = strings.TrimSpace(rest)

		switch key {
		case "Title":
			p.Title = rest
		case "Date":
			p.Date = rest
		case "Plotname":
			p.Name = rest
		case "Flags":
			p.Flags = rest
		case "No. Variables":
			n, err := strconv.Atoi(rest)
			if err != nil {
				return nil, fmt.Errorf("variable count %q: %w", rest, err)
			}
			nvars = n
		case "No. Points":
			n, err := strconv.Atoi(rest)
			if err != nil {
				return nil, fmt.Errorf("point count %q: %w", rest, err)
			}
			p.Points = n
		case "Variables":
			if nvars < 0 || p.Points < 0 || p.Name == "" {
				return nil, fmt.Errorf("variable table before counts in plot header")
			}
			if err := d.variables(p, nvars, rest); err != nil {
				return nil, err
			}
			return p, d.samples(p)
		default:
			// Writers add informational keys (Command, Options);
			// skip anything that still looks like a header.
		}
		sawHeader = true
	}
}

// variables reads the nvars-entry variable table. Some writers put the
// first entry on the Variables: line itself.
func (d *decoder) variables(p *Plot, nvars int, first string) error {
	lines := make([]string, 0, nvars)
	if strings.TrimSpace(first) != "" {
		lines = append(lines, first)
	}
	for len(lines) < nvars {
		line, ok := d.line()
		if !ok {
			return fmt.Errorf("plot %q: truncated variable table", p.Name)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	p.Traces = make([]Trace, nvars)
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return fmt.Errorf("plot %q: malformed variable line %q", p.Name, line)
		}
		p.Traces[i] = Trace{Name: fields[1], Unit: fields[2]}
	}
	return nil
}

func (d *decoder) samples(p *Plot) error {
	line, ok := d.line()
	if !ok {
		return fmt.Errorf("plot %q: missing data section", p.Name)
	}
	switch strings.TrimSpace(line) {
	case "Binary:":
		return d.binarySamples(p)
	case "Values:":
		return d.asciiSamples(p)
	}
	return fmt.Errorf("plot %q: unrecognized data section %q", p.Name, line)
}

func (p *Plot) complex() bool {
	return strings.Contains(strings.ToLower(p.Flags), "complex")
}

func (d *decoder) binarySamples(p *Plot) error {
	width := 8
	if p.complex() {
		width = 16
	}
	need := p.Points * len(p.Traces) * width
	if d.pos+need > len(d.data) {
		return fmt.Errorf("plot %q: binary data truncated, want %d bytes, have %d",
			p.Name, need, len(d.data)-d.pos)
	}

	raw := d.data[d.pos : d.pos+need]
	d.pos += need

	for j := range p.Traces {
		if p.complex() {
			p.Traces[j].Complex = make([]complex128, p.Points)
		} else {
			p.Traces[j].Real = make([]float64, p.Points)
		}
	}

	at := func(k int) float64 {
		return math.Float64frombits(binary.BigEndian.Uint64(raw[k*8:]))
	}
	for i := 0; i < p.Points; i++ {
		for j := range p.Traces {
			k := i*len(p.Traces) + j
			if p.complex() {
				p.Traces[j].Complex[i] = complex(at(2*k), at(2*k+1))
			} else {
				p.Traces[j].Real[i] = at(k)
			}
		}
	}
	return nil
}

func (d *decoder) asciiSamples(p *Plot) error {
	for j := range p.Traces {
		if p.complex() {
			p.Traces[j].Complex = make([]complex128, p.Points)
		} else {
			p.Traces[j].Real = make([]float64, p.Points)
		}
	}

	var tokens []string
	next := func() (string, error) {
		for len(tokens) == 0 {
			line, ok := d.line()
			if !ok {
				return "", fmt.Errorf("plot %q: ascii data truncated", p.Name)
			}
			tokens = strings.Fields(line)
		}
		tok := tokens[0]
		tokens = tokens[1:]
		return tok, nil
	}

	for i := 0; i < p.Points; i++ {
		idx, err := next()
		if err != nil {
			return err
		}
		if _, err := strconv.Atoi(idx); err != nil {
			return fmt.Errorf("plot %q: point index %q: %w", p.Name, idx, err)
		}
		for j := range p.Traces {
			tok, err := next()
			if err != nil {
				return err
			}
			if p.complex() {
				re, im, found := strings.Cut(tok, ",")
				if !found {
					return fmt.Errorf("plot %q: complex sample %q", p.Name, tok)
				}
				r, err := strconv.ParseFloat(re, 64)
				if err != nil {
					return fmt.Errorf("plot %q: sample %q: %w", p.Name, tok, err)
				}
				m, err := strconv.ParseFloat(im, 64)
				if err != nil {
					return fmt.Errorf("plot %q: sample %q: %w", p.Name, tok, err)
				}
				p.Traces[j].Complex[i] = complex(r, m)
			} else {
				v, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return fmt.Errorf("plot %q: sample %q: %w", p.Name, tok, err)
				}
				p.Traces[j].Real[i] = v
			}
		}
	}
	return nil
}
