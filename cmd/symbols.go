// Copyright © 2025 The movan authors

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/movelang/movan/sema"
)

// SymbolsCommand returns the command that lists the symbols a file defines.
func SymbolsCommand(opts ...Option) *cobra.Command {
	config := &cmdConfig{}
	for _, opt := range opts {
		opt(config)
	}

	cmd := &cobra.Command{
		Use:   "symbols <file>",
		Short: "List the modules, structs, functions, and constants of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, path, err := singleFileProject(config, args[0])
			if err != nil {
				return err
			}
			printer := &symbolPrinter{out: cmd.OutOrStdout(), project: project}
			return project.RunVisitorForFile(printer, path, false)
		},
	}
	return cmd
}

// symbolPrinter lists declarations from the shallow traversal phases.
type symbolPrinter struct {
	out     io.Writer
	project *sema.Project
}

func (p *symbolPrinter) HandleItemOrAccess(_ *sema.Project, _ *sema.ProjectContext, ev sema.ItemOrAccess) {
	var kind string
	switch x := ev.(type) {
	case *sema.ItemModuleName:
		kind = "module"
	case *sema.ItemStruct:
		kind = "struct"
	case *sema.ItemFun:
		kind = "fun"
		if x.IsSpec {
			kind = "spec fun"
		}
	case *sema.ItemConst:
		kind = "const"
	default:
		return
	}
	it := ev.(sema.Item)
	line := "?"
	if rng, ok := p.project.ConvertLocRange(it.DefLoc()); ok {
		line = fmt.Sprintf("%d", rng.LineStart+1)
	}
	fmt.Fprintf(p.out, "%s\t%s\t%s\n", line, kind, it.String())
}

func (p *symbolPrinter) Finished() bool { return false }

func init() {
	rootCmd.AddCommand(SymbolsCommand())
}
