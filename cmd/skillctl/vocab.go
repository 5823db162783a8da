package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newVocabCmd(root *rootOptions) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Show the skill vocabulary built from the reference dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, comps, err := root.build(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer comps.Close()

			v := comps.Catalog.Vocabulary()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "roles: %d\ntechnical: %d\nsoft: %d\n", comps.Catalog.Len(), len(v.Technical), len(v.Soft))
			if list {
				fmt.Fprintf(out, "\n[technical]\n%s\n", strings.Join(v.Technical, "\n"))
				fmt.Fprintf(out, "\n[soft]\n%s\n", strings.Join(v.Soft, "\n"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "Print every skill")
	return cmd
}
