package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gospectre"
	"gospectre/scl"
)

func newParamCmd() *cobra.Command {
	var attributes bool
	cmd := &cobra.Command{
		Use:   "param <netlist> <name>...",
		Short: "Read netlist parameters",
		Long: `Param prints the current value of each named top-level netlist
parameter, or its full attribute set with --attributes.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := sessionOptions(cmd)
			if err != nil {
				return err
			}

			s, err := gospectre.Start(args[0], opts...)
			if err != nil {
				return err
			}
			defer s.StopRemoveRaw()

			w := cmd.OutOrStdout()
			for _, name := range args[1:] {
				if !attributes {
					v, err := s.Parameter(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s = %s\n", name, scl.FormatValue(v))
					continue
				}

				attrs, err := s.CircuitParameter(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s:\n", name)
				for _, a := range attrs {
					switch a.Kind {
					case scl.KindChoice, scl.KindUnits:
						fmt.Fprintf(w, "  %s = %s\n", a.Kind, a.Str)
					default:
						fmt.Fprintf(w, "  %s = %s\n", a.Kind, scl.FormatValue(a.Num))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&attributes, "attributes", false, "print each parameter's full attribute set")
	return cmd
}
