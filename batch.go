package gospectre

import (
	"fmt"
	"os"

	"gospectre/nutmeg"
)

// Simulate runs a netlist start to finish in one call: launch in batch
// mode, wait for the simulator to exit, load the results.
func Simulate(netlist string, opts ...Option) (nutmeg.Plots, error) {
	s, err := StartBatch(netlist, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Stop()
	return s.RunAll()
}

// SimulateNetlist runs netlist source held in memory: it is written to a
// temp file, simulated, and the file removed again.
func SimulateNetlist(source string, opts ...Option) (nutmeg.Plots, error) {
	path, err := NetlistToTemp(source)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)
	return Simulate(path, opts...)
}

// NetlistToTemp writes netlist source to a fresh temp file and returns
// its path. The caller owns the file.
func NetlistToTemp(source string) (string, error) {
	f, err := os.CreateTemp("", "netlist_*.scs")
	if err != nil {
		return "", fmt.Errorf("netlist temp file: %w", err)
	}
	if _, err := f.WriteString(source); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write netlist: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write netlist: %w", err)
	}
	return f.Name(), nil
}
