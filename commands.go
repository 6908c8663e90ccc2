package gospectre

import (
	"errors"
	"fmt"
	"io/fs"

	"gospectre/internal/repl"
	"gospectre/nutmeg"
	"gospectre/scl"
)

// Analysis is one analysis declared in the netlist.
type Analysis struct {
	Name string
	Type string
}

// Instance is one component instance of the circuit.
type Instance struct {
	Name   string
	Master string
}

// run sends one command to the interactive loop and returns the response
// block with the echo and prompt stripped.
func (s *Session) run(op, command string) (string, error) {
	if !s.interactive {
		return "", &SessionNotInteractiveError{Op: op}
	}
	// An unbalanced expression never completes: the simulator keeps
	// reading lines waiting for the missing parenthesis.
	if !scl.Balanced(command) {
		return "", &ParseError{
			Command: command,
			Err:     errors.New("unbalanced parentheses"),
		}
	}
	out, err := s.repl.Run(command)
	if err != nil {
		if errors.Is(err, repl.ErrTimeout) {
			return "", &TimeoutError{Command: command, Elapsed: s.timeout}
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// runOK dispatches a mutation and checks its sentinel.
func (s *Session) runOK(op, command, kind, name string) error {
	out, err := s.run(op, command)
	if err != nil {
		return err
	}
	switch scl.ResultVerdict(out) {
	case scl.VerdictOK:
		return nil
	case scl.VerdictFail:
		return &UnknownEntityError{Kind: kind, Name: name, Command: command}
	}
	return &ParseError{
		Command: command,
		Output:  out,
		Err:     errors.New("missing result sentinel"),
	}
}

// attributes dispatches an attribute listing and parses it.
func (s *Session) attributes(op, command, kind, name string) (scl.Attributes, error) {
	out, err := s.run(op, command)
	if err != nil {
		return nil, err
	}
	if scl.ResultVerdict(out) == scl.VerdictFail {
		return nil, &UnknownEntityError{Kind: kind, Name: name, Command: command}
	}
	attrs, err := scl.ParseAttributes(out)
	if err != nil {
		return nil, &ParseError{Command: command, Output: out, Err: err}
	}
	return attrs, nil
}

// Analyses lists the analyses declared in the netlist.
func (s *Session) Analyses() ([]Analysis, error) {
	out, err := s.run("list analyses", scl.ListAnalysis())
	if err != nil {
		return nil, err
	}
	var analyses []Analysis
	for _, p := range scl.ParsePairs(out) {
		analyses = append(analyses, Analysis{Name: p.Name, Type: p.Value})
	}
	return analyses, nil
}

// Instances lists the component instances of the circuit.
func (s *Session) Instances() ([]Instance, error) {
	out, err := s.run("list instances", scl.ListInstance())
	if err != nil {
		return nil, err
	}
	var instances []Instance
	for _, p := range scl.ParsePairs(out) {
		instances = append(instances, Instance{Name: p.Name, Master: p.Value})
	}
	return instances, nil
}

// Nets lists the circuit's net names.
func (s *Session) Nets() ([]string, error) {
	out, err := s.run("list nets", scl.ListNet())
	if err != nil {
		return nil, err
	}
	return scl.ParseQuoted(out), nil
}

// AnalysisParameters lists the parameter names of one analysis.
func (s *Session) AnalysisParameters(analysis string) ([]string, error) {
	command := scl.ListAnalysisParameters(analysis)
	out, err := s.run("list analysis parameters", command)
	if err != nil {
		return nil, err
	}
	if scl.ResultVerdict(out) == scl.VerdictFail {
		return nil, &UnknownEntityError{Kind: "analysis", Name: analysis, Command: command}
	}
	return scl.ParseNames(out), nil
}

// InstanceParameters lists the parameter names of one instance.
func (s *Session) InstanceParameters(instance string) ([]string, error) {
	command := scl.ListInstanceParameters(instance)
	out, err := s.run("list instance parameters", command)
	if err != nil {
		return nil, err
	}
	if scl.ResultVerdict(out) == scl.VerdictFail {
		return nil, &UnknownEntityError{Kind: "instance", Name: instance, Command: command}
	}
	return scl.ParseNames(out), nil
}

// AnalysisParameter reads the attributes of one analysis parameter.
func (s *Session) AnalysisParameter(analysis, parameter string) (scl.Attributes, error) {
	return s.attributes("get analysis parameter",
		scl.AnalysisAttributes(analysis, parameter), "parameter", parameter)
}

// CircuitParameter reads the attributes of one top-level netlist parameter.
func (s *Session) CircuitParameter(parameter string) (scl.Attributes, error) {
	return s.attributes("get circuit parameter",
		scl.CircuitAttributes(parameter), "parameter", parameter)
}

// InstanceParameter reads the attributes of one instance parameter.
func (s *Session) InstanceParameter(instance, parameter string) (scl.Attributes, error) {
	return s.attributes("get instance parameter",
		scl.InstanceAttributes(instance, parameter), "parameter", parameter)
}

// SetAnalysisParameter assigns an attribute of an analysis parameter.
func (s *Session) SetAnalysisParameter(analysis, parameter, attribute, value string) error {
	return s.runOK("set analysis parameter",
		scl.SetAnalysisAttribute(analysis, parameter, attribute, value),
		"parameter", parameter)
}

// SetCircuitParameter assigns an attribute of a netlist parameter.
func (s *Session) SetCircuitParameter(parameter, attribute, value string) error {
	return s.runOK("set circuit parameter",
		scl.SetCircuitAttribute(parameter, attribute, value),
		"parameter", parameter)
}

// SetInstanceParameter assigns an attribute of an instance parameter.
func (s *Session) SetInstanceParameter(instance, parameter, attribute, value string) error {
	return s.runOK("set instance parameter",
		scl.SetInstanceAttribute(instance, parameter, attribute, value),
		"parameter", parameter)
}

// Parameter reads the numeric value of one netlist parameter.
func (s *Session) Parameter(name string) (float64, error) {
	command := scl.GetCircuitValue(name)
	out, err := s.run("get parameter", command)
	if err != nil {
		return 0, err
	}
	if scl.ResultVerdict(out) == scl.VerdictFail {
		return 0, &UnknownEntityError{Kind: "parameter", Name: name, Command: command}
	}
	v, err := scl.ParseValue(scl.LastLine(out))
	if err != nil {
		return 0, &ParseError{Command: command, Output: out, Err: err}
	}
	return v, nil
}

// Parameters reads several netlist parameters in one call.
func (s *Session) Parameters(names []string) (map[string]float64, error) {
	values := make(map[string]float64, len(names))
	for _, name := range names {
		v, err := s.Parameter(name)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return values, nil
}

// SetParameter assigns the numeric value of one netlist parameter.
func (s *Session) SetParameter(name string, value float64) error {
	return s.runOK("set parameter", scl.SetCircuitValue(name, value), "parameter", name)
}

// SetParameters assigns several netlist parameters, stopping at the first
// failure.
func (s *Session) SetParameters(params map[string]float64) error {
	for name, value := range params {
		if err := s.SetParameter(name, value); err != nil {
			return err
		}
	}
	return nil
}

// CreateAnalysis declares a new analysis of the given type. The name must
// be fresh and the type one the simulator knows.
func (s *Session) CreateAnalysis(name, typ string) error {
	return s.runOK("create analysis", scl.CreateAnalysis(name, typ), "analysis type", typ)
}

// RunAll runs every analysis and returns the plots this run added to the
// raw file. Repeated calls return only new results: the session tracks
// its read offset.
//
// On a batch session RunAll waits for the simulator to exit and loads the
// whole raw file.
func (s *Session) RunAll() (nutmeg.Plots, error) {
	if s.interactive {
		if _, err := s.run("run all", scl.RunAll()); err != nil {
			return nil, err
		}
	} else {
		if err := s.proc.Wait(); err != nil {
			return nil, s.exitError(err)
		}
	}

	plots, next, err := nutmeg.ReadAt(s.rawPath, s.offset)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ResultNotFoundError{Path: s.rawPath}
		}
		return nil, fmt.Errorf("read results: %w", err)
	}
	if len(plots) == 0 {
		return nil, &ResultNotFoundError{Path: s.rawPath}
	}
	s.offset = next
	return plots, nil
}

// RunAnalysis runs one named analysis and returns every plot in the raw
// file. It does not advance the session's read offset: a later RunAll
// still sees whatever this run wrote.
func (s *Session) RunAnalysis(name string) (nutmeg.Plots, error) {
	command := scl.RunAnalysis(name)
	out, err := s.run("run analysis", command)
	if err != nil {
		return nil, err
	}
	if scl.ResultVerdict(out) == scl.VerdictFail {
		return nil, &UnknownEntityError{Kind: "analysis", Name: name, Command: command}
	}

	plots, err := nutmeg.Read(s.rawPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ResultNotFoundError{Path: s.rawPath, Analysis: name}
		}
		return nil, fmt.Errorf("read results: %w", err)
	}
	if len(plots) == 0 {
		return nil, &ResultNotFoundError{Path: s.rawPath, Analysis: name}
	}
	return plots, nil
}

// Command sends a raw SCL expression and returns the simulator's response
// verbatim. It is the escape hatch for operations this package has no
// method for.
func (s *Session) Command(cmd string) (string, error) {
	return s.run("command", cmd)
}
