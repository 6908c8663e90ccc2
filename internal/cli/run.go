package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gospectre"
	"gospectre/internal/export"
	"gospectre/nutmeg"
	"gospectre/scl"
)

func newRunCmd() *cobra.Command {
	var (
		format   string
		output   string
		includes []string
		rawPath  string
		aps      string
		preset   string
		sets     []string
		analysis string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run <netlist>",
		Short: "Simulate a netlist and export its results",
		Long: `Run simulates a netlist and prints its results.

Plain runs use the simulator's batch mode. Setting parameters or picking
one analysis needs the interactive command loop, so --set and --analysis
switch to an interactive session.

Parameter values accept engineering suffixes: --set wcm=10u sets 1e-05.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var exporter export.Exporter
			if format != "summary" {
				var err error
				if exporter, err = export.ByFormat(format); err != nil {
					return err
				}
			}

			opts, err := sessionOptions(cmd)
			if err != nil {
				return err
			}
			if len(includes) > 0 {
				opts = append(opts, gospectre.WithIncludes(includes...))
			}
			if rawPath != "" {
				opts = append(opts, gospectre.WithRawPath(rawPath))
			}
			if aps != "" {
				opts = append(opts, gospectre.WithAPS(aps))
			}
			if preset != "" {
				opts = append(opts, gospectre.WithXPreset(preset))
			}
			if timeout > 0 {
				opts = append(opts, gospectre.WithTimeout(timeout))
			}

			plots, err := runPlots(args[0], sets, analysis, opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if exporter == nil {
				return summarize(plots, w)
			}
			return exporter.Export(plots, w)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "summary", "output format: summary, csv, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write results to a file instead of stdout")
	cmd.Flags().StringSliceVarP(&includes, "include", "I", nil, "netlist include directory (repeatable)")
	cmd.Flags().StringVar(&rawPath, "raw", "", "raw results file path (default: temp file)")
	cmd.Flags().StringVar(&aps, "aps", "", "accelerated parallel simulation: liberal, moderate or conservative")
	cmd.Flags().StringVar(&preset, "preset", "", "performance preset: cx, ax, mx, lx or vx")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "parameter to set before running, as name=value (repeatable)")
	cmd.Flags().StringVar(&analysis, "analysis", "", "run one named analysis instead of all")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-command timeout for interactive runs")
	return cmd
}

// runPlots picks batch or interactive execution.
func runPlots(netlist string, sets []string, analysis string, opts []gospectre.Option) (nutmeg.Plots, error) {
	if len(sets) == 0 && analysis == "" {
		return gospectre.Simulate(netlist, opts...)
	}

	params, err := parseSets(sets)
	if err != nil {
		return nil, err
	}

	s, err := gospectre.Start(netlist, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Stop()

	if len(params) > 0 {
		if err := s.SetParameters(params); err != nil {
			return nil, err
		}
	}
	if analysis != "" {
		return s.RunAnalysis(analysis)
	}
	return s.RunAll()
}

// parseSets converts name=value pairs, accepting engineering suffixes.
func parseSets(sets []string) (map[string]float64, error) {
	params := make(map[string]float64, len(sets))
	for _, kv := range sets {
		name, raw, found := strings.Cut(kv, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid --set %q, want name=value", kv)
		}
		v, err := scl.ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", kv, err)
		}
		params[name] = v
	}
	return params, nil
}

// summarize prints one line per trace.
func summarize(plots nutmeg.Plots, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "PLOT\tTRACE\tUNIT\tPOINTS")
	for _, p := range plots {
		for _, tr := range p.Traces {
			n := len(tr.Real)
			if tr.IsComplex() {
				n = len(tr.Complex)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.Name, tr.Name, tr.Unit, n)
		}
	}
	return tw.Flush()
}
