package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gospectre"
)

func newListCmd() *cobra.Command {
	var analyses, instances, nets bool
	cmd := &cobra.Command{
		Use:   "list <netlist>",
		Short: "List the analyses, instances and nets of a netlist",
		Args:  cobra.ExactArgs(1),
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

			all := !analyses && !instances && !nets
			w := cmd.OutOrStdout()

			if analyses || all {
				as, err := s.Analyses()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "Analyses:")
				for _, a := range as {
					fmt.Fprintf(w, "  %-24s %s\n", a.Name, a.Type)
				}
			}
			if instances || all {
				is, err := s.Instances()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "Instances:")
				for _, i := range is {
					fmt.Fprintf(w, "  %-24s %s\n", i.Name, i.Master)
				}
			}
			if nets || all {
				ns, err := s.Nets()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "Nets:")
				fmt.Fprintf(w, "  %s\n", strings.Join(ns, " "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&analyses, "analyses", false, "list analyses only")
	cmd.Flags().BoolVar(&instances, "instances", false, "list instances only")
	cmd.Flags().BoolVar(&nets, "nets", false, "list nets only")
	return cmd
}
