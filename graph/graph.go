// Copyright © 2025 The movan authors

// Package graph extracts dependency graphs from the event stream: struct
// field dependencies from the shallow phases and caller/callee edges from
// the body pass.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
)

// Node identifies a struct in the dependency graph.
type Node struct {
	Module sema.ModuleKey
	Name   string
}

func (n Node) String() string {
	return n.Module.String() + "::" + n.Name
}

// StructGraph collects struct-to-struct field edges. It needs no bodies:
// everything comes from the registration phases, which makes it cheap even
// over the whole project.
type StructGraph struct {
	Edges map[Node][]Node
}

// NewStructGraph returns an empty collector.
func NewStructGraph() *StructGraph {
	return &StructGraph{Edges: make(map[Node][]Node)}
}

func (g *StructGraph) HandleItemOrAccess(_ *sema.Project, _ *sema.ProjectContext, ev sema.ItemOrAccess) {
	st, ok := ev.(*sema.ItemStruct)
	if !ok {
		return
	}
	from := Node{Module: sema.ModuleKey{Addr: st.Addr, Name: st.ModuleName}, Name: st.Name.Value}
	if _, seen := g.Edges[from]; !seen {
		g.Edges[from] = nil
	}
	for _, f := range st.Fields {
		g.addFieldEdges(from, f.Ty)
	}
}

func (g *StructGraph) addFieldEdges(from Node, ty sema.ResolvedType) {
	switch t := ty.(type) {
	case *sema.TypeStruct:
		to := Node{Module: sema.ModuleKey{Addr: t.Ref.Addr, Name: t.Ref.ModuleName}, Name: t.Ref.Name.Value}
		for _, existing := range g.Edges[from] {
			if existing == to {
				return
			}
		}
		g.Edges[from] = append(g.Edges[from], to)
		for _, a := range t.TypeArgs {
			g.addFieldEdges(from, a)
		}
	case *sema.TypeVec:
		g.addFieldEdges(from, t.Elem)
	case *sema.TypeRef:
		g.addFieldEdges(from, t.Inner)
	case *sema.TypeMultiple:
		for _, x := range t.Types {
			g.addFieldEdges(from, x)
		}
	}
}

func (g *StructGraph) Finished() bool { return false }

// Dot renders the graph in graphviz format with deterministic ordering.
func (g *StructGraph) Dot() string {
	nodes := make([]Node, 0, len(g.Edges))
	for n := range g.Edges {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].String() < nodes[j].String() })

	var sb strings.Builder
	sb.WriteString("digraph structs {\n")
	for _, n := range nodes {
		fmt.Fprintf(&sb, "  %q;\n", n.String())
		for _, to := range g.Edges[n] {
			fmt.Fprintf(&sb, "  %q -> %q;\n", n.String(), to.String())
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// CallGraph collects caller/callee edges through the call-pair capability.
// It visits every body.
type CallGraph struct {
	Edges map[sema.FunID][]sema.FunID
}

// NewCallGraph returns an empty collector.
func NewCallGraph() *CallGraph {
	return &CallGraph{Edges: make(map[sema.FunID][]sema.FunID)}
}

func (g *CallGraph) HandleItemOrAccess(_ *sema.Project, _ *sema.ProjectContext, _ sema.ItemOrAccess) {
}

func (g *CallGraph) Finished() bool { return false }

func (g *CallGraph) ShouldVisitBody(ast.FileRange) bool { return true }

func (g *CallGraph) HandleCallPair(caller, callee sema.FunID) {
	for _, existing := range g.Edges[caller] {
		if existing == callee {
			return
		}
	}
	g.Edges[caller] = append(g.Edges[caller], callee)
}

// Dot renders the call graph in graphviz format.
func (g *CallGraph) Dot() string {
	callers := make([]sema.FunID, 0, len(g.Edges))
	for c := range g.Edges {
		callers = append(callers, c)
	}
	sort.Slice(callers, func(i, j int) bool {
		return funLabel(callers[i]) < funLabel(callers[j])
	})
	var sb strings.Builder
	sb.WriteString("digraph calls {\n")
	for _, c := range callers {
		for _, callee := range g.Edges[c] {
			fmt.Fprintf(&sb, "  %q -> %q;\n", funLabel(c), funLabel(callee))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

func funLabel(id sema.FunID) string {
	return id.Module.String() + "::" + id.Name
}
