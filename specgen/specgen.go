// Copyright © 2025 The movan authors

// Package specgen generates specification block skeletons for the
// functions and structs of a module, from the shallow traversal phases.
package specgen

import (
	"fmt"
	"strings"

	"github.com/movelang/movan/sema"
)

// Generator collects function and struct items and renders spec skeletons.
type Generator struct {
	funs    []*sema.ItemFun
	structs []*sema.ItemStruct
}

// New returns an empty generator.
func New() *Generator { return &Generator{} }

func (g *Generator) HandleItemOrAccess(_ *sema.Project, _ *sema.ProjectContext, ev sema.ItemOrAccess) {
	switch x := ev.(type) {
	case *sema.ItemFun:
		if !x.IsSpec && !x.IsTest.IsTest() {
			g.funs = append(g.funs, x)
		}
	case *sema.ItemStruct:
		if !x.IsTest {
			g.structs = append(g.structs, x)
		}
	}
}

func (g *Generator) Finished() bool { return false }

// Generate renders one spec module skeleton: an aborts_if stanza per
// function and a data invariant stanza per struct.
func (g *Generator) Generate(moduleName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "spec %s {\n", moduleName)
	sb.WriteString("    spec module {\n        pragma verify = true;\n        pragma aborts_if_is_strict;\n    }\n")
	for _, f := range g.funs {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "    spec %s", f.Name.Value)
		if len(f.TypeParameters) > 0 {
			sb.WriteString("<")
			for i, tp := range f.TypeParameters {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(tp.Name.Value)
			}
			sb.WriteString(">")
		}
		sb.WriteString("(")
		for i, p := range f.Parameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", p.Var.Value, p.Ty)
		}
		sb.WriteString(")")
		if f.Ret != nil && f.Ret.String() != "()" {
			fmt.Fprintf(&sb, ": %s", f.Ret)
		}
		sb.WriteString(" {\n        aborts_if false;\n    }\n")
	}
	for _, s := range g.structs {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "    spec %s {\n        invariant true;\n    }\n", s.Name.Value)
	}
	sb.WriteString("}\n")
	return sb.String()
}
