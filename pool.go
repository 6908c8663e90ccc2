package gospectre

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"gospectre/nutmeg"
)

// Pool drives several sessions in parallel, one per netlist. Fan-out
// methods take and return slices indexed like the sessions; inputs whose
// length does not match the pool are rejected before anything is sent.
type Pool struct {
	sessions []*Session
}

// StartPool launches one interactive session per netlist. Launches run
// concurrently, capped at the machine's CPU count. If any launch fails,
// the sessions that did start are stopped and the first error returned.
func StartPool(netlists []string, opts ...Option) (*Pool, error) {
	sessions := make([]*Session, len(netlists))
	var g errgroup.Group
	g.SetLimit(poolSize(len(netlists)))
	for i, netlist := range netlists {
		g.Go(func() error {
			s, err := Start(netlist, opts...)
			if err != nil {
				return err
			}
			sessions[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, s := range sessions {
			if s != nil {
				s.Stop()
			}
		}
		return nil, err
	}
	return &Pool{sessions: sessions}, nil
}

// StartN launches n sessions over the same netlist, for parameter sweeps
// that vary only session state.
func StartN(netlist string, n int, opts ...Option) (*Pool, error) {
	if n < 1 {
		return nil, fmt.Errorf("pool size %d, want at least 1", n)
	}
	netlists := make([]string, n)
	for i := range netlists {
		netlists[i] = netlist
	}
	return StartPool(netlists, opts...)
}

// Sessions returns the pool's sessions in launch order.
func (p *Pool) Sessions() []*Session { return p.sessions }

// Size returns the number of sessions in the pool.
func (p *Pool) Size() int { return len(p.sessions) }

func (p *Pool) group() (*errgroup.Group, int) {
	var g errgroup.Group
	g.SetLimit(poolSize(len(p.sessions)))
	return &g, len(p.sessions)
}

// RunAll runs every analysis on every session and returns one result set
// per session, in session order.
func (p *Pool) RunAll() ([]nutmeg.Plots, error) {
	g, n := p.group()
	results := make([]nutmeg.Plots, n)
	for i, s := range p.sessions {
		g.Go(func() error {
			plots, err := s.RunAll()
			if err != nil {
				return err
			}
			results[i] = plots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Analyses lists the declared analyses of every session.
func (p *Pool) Analyses() ([][]Analysis, error) {
	g, n := p.group()
	results := make([][]Analysis, n)
	for i, s := range p.sessions {
		g.Go(func() error {
			analyses, err := s.Analyses()
			if err != nil {
				return err
			}
			results[i] = analyses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunAnalysis runs one named analysis per session, names[i] on session i.
func (p *Pool) RunAnalysis(names []string) ([]nutmeg.Plots, error) {
	g, n := p.group()
	if len(names) != n {
		return nil, fmt.Errorf("%d analysis names for %d sessions", len(names), n)
	}
	results := make([]nutmeg.Plots, n)
	for i, s := range p.sessions {
		g.Go(func() error {
			plots, err := s.RunAnalysis(names[i])
			if err != nil {
				return err
			}
			results[i] = plots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SetParameters assigns params[i] on session i.
func (p *Pool) SetParameters(params []map[string]float64) error {
	g, n := p.group()
	if len(params) != n {
		return fmt.Errorf("%d parameter sets for %d sessions", len(params), n)
	}
	for i, s := range p.sessions {
		g.Go(func() error {
			return s.SetParameters(params[i])
		})
	}
	return g.Wait()
}

// Parameters reads names[i] from session i.
func (p *Pool) Parameters(names [][]string) ([]map[string]float64, error) {
	g, n := p.group()
	if len(names) != n {
		return nil, fmt.Errorf("%d name sets for %d sessions", len(names), n)
	}
	results := make([]map[string]float64, n)
	for i, s := range p.sessions {
		g.Go(func() error {
			values, err := s.Parameters(names[i])
			if err != nil {
				return err
			}
			results[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stop stops every session. All sessions are stopped even when some
// fail; the first error is returned.
func (p *Pool) Stop() error {
	g, _ := p.group()
	for _, s := range p.sessions {
		g.Go(s.Stop)
	}
	return g.Wait()
}

// SimulateAll batch-simulates several netlists concurrently and returns
// one result set per netlist, in input order.
func SimulateAll(netlists []string, opts ...Option) ([]nutmeg.Plots, error) {
	var g errgroup.Group
	g.SetLimit(poolSize(len(netlists)))
	results := make([]nutmeg.Plots, len(netlists))
	for i, netlist := range netlists {
		g.Go(func() error {
			plots, err := Simulate(netlist, opts...)
			if err != nil {
				return err
			}
			results[i] = plots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// poolSize caps concurrent simulator work at the CPU count.
func poolSize(n int) int {
	if c := runtime.NumCPU(); n > c {
		return c
	}
	return n
}
