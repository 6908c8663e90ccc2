package gospectre

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestNetlistToTemp(t *testing.T) {
	source := "// rc lowpass\nR1 (in out) resistor r=1k\nC1 (out 0) capacitor c=1n\n"
	path, err := NetlistToTemp(source)
	if err != nil {
		t.Fatalf("NetlistToTemp() error: %v", err)
	}
	defer os.Remove(path)

	if !strings.HasSuffix(path, ".scs") {
		t.Errorf("temp netlist %q does not end in .scs", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp netlist: %v", err)
	}
	if string(data) != source {
		t.Errorf("temp netlist content = %q, want %q", data, source)
	}
}

func TestSimulateBadNetlist(t *testing.T) {
	cfg := writeTestConfig(t, "sh")

	_, err := Simulate("does-not-exist.scs", WithConfigPath(cfg))
	if err == nil {
		t.Fatal("Simulate() with missing netlist: no error")
	}
	var launch *LaunchError
	if !errors.As(err, &launch) {
		t.Errorf("Simulate() error = %v, want LaunchError", err)
	}
}
