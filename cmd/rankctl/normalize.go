package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	var (
		in     inputOptions
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Print the normalized dataset of FILE as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := in.service(args[0], 0)
			if err != nil {
				return err
			}
			ds, err := svc.Dataset(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(ds); err != nil {
				return fmt.Errorf("write dataset: %w", err)
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	return cmd
}
