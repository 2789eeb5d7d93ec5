// Copyright © 2025 The movan authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movelang/movan/specgen"
)

// SpecgenCommand returns the command that generates spec block skeletons.
func SpecgenCommand(opts ...Option) *cobra.Command {
	config := &cmdConfig{}
	for _, opt := range opts {
		opt(config)
	}

	cmd := &cobra.Command{
		Use:   "specgen <file> <module>",
		Short: "Generate a specification skeleton for a module",
		Long: `Generate a spec module skeleton covering the functions and
structs of the named module: one aborts_if stanza per function and one
data invariant stanza per struct.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, path, err := singleFileProject(config, args[0])
			if err != nil {
				return err
			}
			gen := specgen.New()
			if err := project.RunVisitorForFile(gen, path, false); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), gen.Generate(args[1]))
			return nil
		},
	}
	return cmd
}

func init() {
	rootCmd.AddCommand(SpecgenCommand())
}
