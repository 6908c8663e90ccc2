// Package gospectre drives the Cadence Spectre circuit simulator as a
// subprocess: it launches spectre over a netlist, talks to its
// interactive SCL loop, and loads the raw results it writes.
//
// # Lifecycle
//
// Start launches an interactive session and blocks until the simulator
// prints its first prompt. The session owns the process; Stop asks it to
// quit and kills it if it refuses. StartBatch launches a non-interactive
// run that exits on its own, and StartRemote runs the simulator on an
// SSH host, assuming netlist and results live on a shared filesystem.
//
//	s, err := gospectre.Start("rc.scs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Stop()
//
// # Commands
//
// Dispatch methods wrap the SCL expressions the simulator understands:
// listing analyses, instances and nets, reading and writing parameters,
// creating analyses. Numeric values pass through engineering notation in
// both directions, so a parameter printed as 10u comes back as 1e-05.
// Command sends a raw expression for anything without a method.
//
//	if err := s.SetParameter("wcm", 15e-6); err != nil {
//		log.Fatal(err)
//	}
//
// # Results
//
// RunAll runs every analysis and returns the plots added since the last
// read, decoded from the simulator's nutmeg raw file. RunAnalysis runs
// one analysis and returns the file's full contents. Each plot carries
// named traces of real or complex points; see the nutmeg package.
//
//	plots, err := s.RunAll()
//	if err != nil {
//		log.Fatal(err)
//	}
//	tran, _ := plots.Plot("tran1")
//	out, _ := tran.Trace("v(out)")
//
// Sessions are not safe for concurrent use. Pool runs one session per
// netlist and fans commands out across them.
package gospectre
