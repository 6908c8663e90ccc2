package gospectre

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"gospectre/internal/repl"
	"gospectre/scl"
)

// fakeSpectre is an in-memory stand-in for the simulator's interactive
// loop. It echoes each command, answers from seeded circuit state and
// prints the prompt, over an io.Pipe wired up as the repl transport.
type fakeSpectre struct {
	pr *io.PipeReader
	pw *io.PipeWriter

	mu    sync.Mutex
	alive bool
	sent  []string

	analyses       []scl.Pair
	instances      []scl.Pair
	nets           []string
	params         map[string]string
	analysisParams map[string][]scl.Pair
	instanceParams map[string][]scl.Pair
	attrBlocks     map[string]string

	// hangOn suppresses the response of any command containing it, so
	// the prompt never comes back.
	hangOn string

	rawPath string
	runs    int
	onRun   func(run int)

	done     chan struct{}
	shutOnce sync.Once
}

func newFakeSpectre() *fakeSpectre {
	pr, pw := io.Pipe()
	return &fakeSpectre{
		pr:    pr,
		pw:    pw,
		alive: true,
		done:  make(chan struct{}),
		analyses: []scl.Pair{
			{Name: "tran1", Value: "tran"},
		},
		instances: []scl.Pair{
			{Name: "M1", Value: "nmos"},
			{Name: "R1", Value: "resistor"},
		},
		nets: []string{"0", "in", "out"},
		params: map[string]string{
			"wcm": "10u",
			"vdd": "1.8",
		},
		analysisParams: map[string][]scl.Pair{
			"tran1": {
				{Name: "stop", Value: "1u"},
				{Name: "errpreset", Value: "moderate"},
			},
		},
		instanceParams: map[string][]scl.Pair{
			"M1": {
				{Name: "w", Value: "1u"},
				{Name: "l", Value: "100n"},
			},
		},
		attrBlocks: map[string]string{
			"circuit:wcm":              `(("value" 1e-05) ("min" 1e-06) ("max" 0.0001) ("units" "m"))`,
			"analysis:tran1:errpreset": `(("value" "moderate"))`,
			"instance:M1:w":            `(("value" 1e-06) ("units" "m"))`,
		},
	}
}

func (f *fakeSpectre) Read(p []byte) (int, error) { return f.pr.Read(p) }

func (f *fakeSpectre) Write(p []byte) (int, error) {
	cmd := strings.TrimSuffix(string(p), "\n")

	f.mu.Lock()
	f.sent = append(f.sent, cmd)
	f.mu.Unlock()

	if f.hangOn != "" && strings.Contains(cmd, f.hangOn) {
		go f.pw.Write([]byte(cmd + "\r\n"))
		return len(p), nil
	}
	if cmd == scl.Quit() {
		f.shutdown()
		return len(p), nil
	}

	body := f.respond(cmd)
	go f.pw.Write([]byte(cmd + "\r\n" + body + "\r\n> "))
	return len(p), nil
}

var (
	reAnalysisParams = regexp.MustCompile(`^\(sclListParameter \(sclGetAnalysis "([^"]+)"\)\)$`)
	reInstanceParams = regexp.MustCompile(`^\(sclListParameter \(sclGetInstance "([^"]+)"\)\)$`)
	reAnalysisAttrs  = regexp.MustCompile(`^\(sclListAttribute \(sclGetParameter \(sclGetAnalysis "([^"]+)"\) "([^"]+)"\)\)$`)
	reInstanceAttrs  = regexp.MustCompile(`^\(sclListAttribute \(sclGetParameter \(sclGetInstance "([^"]+)"\) "([^"]+)"\)\)$`)
	reCircuitAttrs   = regexp.MustCompile(`^\(sclListAttribute \(sclGetParameter \(sclGetCircuit ""\) "([^"]+)"\)\)$`)
	reGetValue       = regexp.MustCompile(`^\(sclGetAttribute \(sclGetParameter \(sclGetCircuit ""\) "([^"]+)"\) "value"\)$`)
	reSetValue       = regexp.MustCompile(`^\(sclSetAttribute \(sclGetParameter \(sclGetCircuit ""\) "([^"]+)"\) "value" ([^)"]+)\)$`)
	reSetAttr        = regexp.MustCompile(`^\(sclSetAttribute \(sclGetParameter \(sclGet(Analysis|Instance|Circuit) "([^"]*)"\) "([^"]+)"\) "([^"]+)" "([^"]*)"\)$`)
	reCreate         = regexp.MustCompile(`^\(sclCreateAnalysis "([^"]+)" "([^"]+)"\)$`)
	reRunAnalysis    = regexp.MustCompile(`^\(sclRunAnalysis \(sclGetAnalysis "([^"]+)"\)\)$`)
)

var analysisTypes = map[string]bool{
	"tran": true, "ac": true, "dc": true, "noise": true, "sp": true,
}

func (f *fakeSpectre) respond(cmd string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch cmd {
	case scl.ListAnalysis():
		return pairsBlock(f.analyses)
	case scl.ListInstance():
		return pairsBlock(f.instances)
	case scl.ListNet():
		if len(f.nets) == 0 {
			return "nil"
		}
		return `("` + strings.Join(f.nets, `" "`) + `")`
	case scl.RunAll():
		f.runs++
		if f.onRun != nil {
			f.onRun(f.runs)
		}
		return "t"
	}

	if m := reAnalysisParams.FindStringSubmatch(cmd); m != nil {
		if ps, ok := f.analysisParams[m[1]]; ok {
			return pairsBlock(ps)
		}
		return "nil"
	}
	if m := reInstanceParams.FindStringSubmatch(cmd); m != nil {
		if ps, ok := f.instanceParams[m[1]]; ok {
			return pairsBlock(ps)
		}
		return "nil"
	}
	if m := reAnalysisAttrs.FindStringSubmatch(cmd); m != nil {
		return f.attrBlock("analysis:" + m[1] + ":" + m[2])
	}
	if m := reInstanceAttrs.FindStringSubmatch(cmd); m != nil {
		return f.attrBlock("instance:" + m[1] + ":" + m[2])
	}
	if m := reCircuitAttrs.FindStringSubmatch(cmd); m != nil {
		return f.attrBlock("circuit:" + m[1])
	}
	if m := reGetValue.FindStringSubmatch(cmd); m != nil {
		if v, ok := f.params[m[1]]; ok {
			return v
		}
		return "nil"
	}
	if m := reSetValue.FindStringSubmatch(cmd); m != nil {
		if _, ok := f.params[m[1]]; !ok {
			return "nil"
		}
		f.params[m[1]] = m[2]
		return "t"
	}
	if m := reSetAttr.FindStringSubmatch(cmd); m != nil {
		key := strings.ToLower(m[1]) + ":" + m[2] + ":" + m[3]
		if m[1] == "Circuit" {
			key = "circuit:" + m[3]
		}
		if _, ok := f.attrBlocks[key]; !ok {
			return "nil"
		}
		f.attrBlocks[key] = fmt.Sprintf(`(("%s" "%s"))`, m[4], m[5])
		return "t"
	}
	if m := reCreate.FindStringSubmatch(cmd); m != nil {
		name, typ := m[1], m[2]
		if !analysisTypes[typ] {
			return "nil"
		}
		for _, a := range f.analyses {
			if a.Name == name {
				return "nil"
			}
		}
		f.analyses = append(f.analyses, scl.Pair{Name: name, Value: typ})
		f.analysisParams[name] = []scl.Pair{{Name: "annotate", Value: "sweep"}}
		return "t"
	}
	if m := reRunAnalysis.FindStringSubmatch(cmd); m != nil {
		if _, ok := f.analysisParams[m[1]]; !ok {
			return "nil"
		}
		f.runs++
		if f.onRun != nil {
			f.onRun(f.runs)
		}
		return "t"
	}
	return "nil"
}

func (f *fakeSpectre) attrBlock(key string) string {
	if b, ok := f.attrBlocks[key]; ok {
		return b
	}
	return "nil"
}

func pairsBlock(pairs []scl.Pair) string {
	if len(pairs) == 0 {
		return "nil"
	}
	elems := make([]string, len(pairs))
	for i, p := range pairs {
		elems[i] = fmt.Sprintf(`("%s" "%s")`, p.Name, p.Value)
	}
	return "(" + strings.Join(elems, " ") + ")"
}

func (f *fakeSpectre) shutdown() {
	f.shutOnce.Do(func() {
		f.mu.Lock()
		f.alive = false
		f.mu.Unlock()
		close(f.done)
		f.pw.Close()
	})
}

func (f *fakeSpectre) Alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive
}

func (f *fakeSpectre) Wait() error {
	<-f.done
	return nil
}

func (f *fakeSpectre) Kill() error {
	f.shutdown()
	return nil
}

func (f *fakeSpectre) Close() error {
	f.shutdown()
	return f.pr.Close()
}

// sentCommands snapshots what the fake has received so far.
func (f *fakeSpectre) sentCommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestSession wires a session directly onto a fake transport,
// skipping process launch.
func newTestSession(t *testing.T, sim *fakeSpectre) *Session {
	t.Helper()
	return newTestSessionTimeout(t, sim, 2*time.Second)
}

func newTestSessionTimeout(t *testing.T, sim *fakeSpectre, timeout time.Duration) *Session {
	t.Helper()
	log := discardLogger()
	s := &Session{
		netlist:     "test.scs",
		rawPath:     sim.rawPath,
		interactive: true,
		proc:        sim,
		repl:        repl.New(sim, promptPattern, timeout, log),
		timeout:     timeout,
		quit:        200 * time.Millisecond,
		log:         log,
	}
	t.Cleanup(func() { s.Stop() })
	return s
}

// appendTestPlot appends one real binary plot with a time and a v(out)
// trace, three points each.
func appendTestPlot(t *testing.T, path, name string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open raw file: %v", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "Title: fake circuit\n")
	fmt.Fprintf(f, "Date: Thu Aug 21 12:00:00 2025\n")
	fmt.Fprintf(f, "Plotname: %s\n", name)
	fmt.Fprintf(f, "Flags: real\n")
	fmt.Fprintf(f, "No. Variables: 2\n")
	fmt.Fprintf(f, "No. Points: 3\n")
	fmt.Fprintf(f, "Variables:\n")
	fmt.Fprintf(f, "\t0\ttime\ts\n")
	fmt.Fprintf(f, "\t1\tv(out)\tV\n")
	fmt.Fprintf(f, "Binary:\n")
	for i := 0; i < 3; i++ {
		for _, v := range []float64{float64(i) * 1e-9, float64(i) * 0.6} {
			var raw [8]byte
			binary.BigEndian.PutUint64(raw[:], math.Float64bits(v))
			if _, err := f.Write(raw[:]); err != nil {
				t.Fatalf("write raw samples: %v", err)
			}
		}
	}
}
