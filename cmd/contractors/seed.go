package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/gartstein/contractors/internal/contractors/catalog"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Validate a seed document and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, err := catalog.DefaultSeed()
			if path != "" {
				seed, err = catalog.LoadSeedFile(path)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "employees\t%d\n", len(seed.Employees))
			fmt.Fprintf(w, "sites\t%d\n", len(seed.Sites))
			fmt.Fprintf(w, "tech systems\t%d\n", len(seed.TechSystems))
			fmt.Fprintf(w, "deactivation reasons\t%d\n", len(seed.DeactivationReasons))
			fmt.Fprintf(w, "contractors\t%d\n", len(seed.Contractors))
			fmt.Fprintf(w, "activities\t%d\n", len(seed.Activities))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "seed document to check (default: built-in seed)")
	return cmd
}
