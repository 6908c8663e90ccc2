package scl

import (
	"fmt"
	"strings"
)

// ListAnalysis lists the analyses declared in the loaded netlist.
func ListAnalysis() string { return "(sclListAnalysis)" }

// ListInstance lists the component instances of the circuit.
func ListInstance() string { return "(sclListInstance)" }

// ListNet lists the circuit's nets.
func ListNet() string { return "(sclListNet)" }

// ListAnalysisParameters lists the parameter names of one analysis.
func ListAnalysisParameters(analysis string) string {
	return fmt.Sprintf(`(sclListParameter (sclGetAnalysis "%s"))`, analysis)
}

// ListInstanceParameters lists the parameter names of one instance.
func ListInstanceParameters(instance string) string {
	return fmt.Sprintf(`(sclListParameter (sclGetInstance "%s"))`, instance)
}

// AnalysisAttributes lists the attributes of an analysis parameter.
func AnalysisAttributes(analysis, parameter string) string {
	return fmt.Sprintf(`(sclListAttribute (sclGetParameter (sclGetAnalysis "%s") "%s"))`,
		analysis, parameter)
}

// InstanceAttributes lists the attributes of an instance parameter.
func InstanceAttributes(instance, parameter string) string {
	return fmt.Sprintf(`(sclListAttribute (sclGetParameter (sclGetInstance "%s") "%s"))`,
		instance, parameter)
}

// CircuitAttributes lists the attributes of a top-level netlist parameter.
func CircuitAttributes(parameter string) string {
	return fmt.Sprintf(`(sclListAttribute (sclGetParameter (sclGetCircuit "") "%s"))`,
		parameter)
}

// GetCircuitValue reads the value attribute of a netlist parameter.
func GetCircuitValue(parameter string) string {
	return fmt.Sprintf(`(sclGetAttribute (sclGetParameter (sclGetCircuit "") "%s") "value")`,
		parameter)
}

// SetCircuitValue assigns a numeric value to a netlist parameter.
func SetCircuitValue(parameter string, value float64) string {
	return fmt.Sprintf(`(sclSetAttribute (sclGetParameter (sclGetCircuit "") "%s") "value" %s)`,
		parameter, FormatValue(value))
}

// SetCircuitAttribute assigns an attribute of a netlist parameter.
func SetCircuitAttribute(parameter, attribute, value string) string {
	return fmt.Sprintf(`(sclSetAttribute (sclGetParameter (sclGetCircuit "") "%s") "%s" "%s")`,
		parameter, attribute, value)
}

// SetAnalysisAttribute assigns an attribute of an analysis parameter.
func SetAnalysisAttribute(analysis, parameter, attribute, value string) string {
	return fmt.Sprintf(`(sclSetAttribute (sclGetParameter (sclGetAnalysis "%s") "%s") "%s" "%s")`,
		analysis, parameter, attribute, value)
}

// SetInstanceAttribute assigns an attribute of an instance parameter.
func SetInstanceAttribute(instance, parameter, attribute, value string) string {
	return fmt.Sprintf(`(sclSetAttribute (sclGetParameter (sclGetInstance "%s") "%s") "%s" "%s")`,
		instance, parameter, attribute, value)
}

// CreateAnalysis declares a new analysis of the given type under the given
// name.
func CreateAnalysis(name, typ string) string {
	return fmt.Sprintf(`(sclCreateAnalysis "%s" "%s")`, name, typ)
}

// RunAll runs every analysis in the netlist.
func RunAll() string { return `(sclRun "all")` }

// RunAnalysis runs one named analysis.
func RunAnalysis(name string) string {
	return fmt.Sprintf(`(sclRunAnalysis (sclGetAnalysis "%s"))`, name)
}

// Quit asks the simulator to exit its interactive loop.
func Quit() string { return "(sclQuit)" }

// Balanced reports whether every opening parenthesis in the expression is
// closed. The simulator does not reject unbalanced input, it waits for the
// rest of it, so an unbalanced command must never be sent.
func Balanced(command string) bool {
	return strings.Count(command, "(") == strings.Count(command, ")")
}
