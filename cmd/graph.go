// Copyright © 2025 The movan authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movelang/movan/graph"
)

// GraphCommand returns the command that prints dependency graphs in
// graphviz format.
func GraphCommand(opts ...Option) *cobra.Command {
	config := &cmdConfig{}
	for _, opt := range opts {
		opt(config)
	}

	var calls bool
	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Print a struct or call dependency graph",
		Long: `Print the struct field-dependency graph of a project in graphviz
dot format, or the function call graph with --calls.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			project, _, err := loadProject(config, root)
			if err != nil {
				return err
			}
			if calls {
				g := graph.NewCallGraph()
				if err := project.RunFullVisitor(g); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), g.Dot())
				return nil
			}
			g := graph.NewStructGraph()
			if err := project.RunFullVisitor(g); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), g.Dot())
			return nil
		},
	}
	cmd.Flags().BoolVar(&calls, "calls", false, "print the call graph instead of the struct graph")
	return cmd
}

func init() {
	rootCmd.AddCommand(GraphCommand())
}
