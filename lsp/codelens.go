// Copyright © 2025 The movan authors

package lsp

import (
	"github.com/tliron/glsp"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/movelang/movan/ast"
	"github.com/movelang/movan/sema"
)

// textDocumentCodeLens reports a run-test lens over every test-attributed
// function. The collector needs no bodies, so the pass stays shallow.
func (s *Server) textDocumentCodeLens(_ *glsp.Context, params *protocol.CodeLensParams) ([]protocol.CodeLens, error) {
	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &testLensCollector{}
	if err := s.project.RunVisitorForFile(c, path, false); err != nil {
		return nil, nil
	}

	var out []protocol.CodeLens
	for _, fn := range c.tests {
		rng, ok := s.project.ConvertLocRange(fn.Name.Loc)
		if !ok || rng.Path != path {
			continue
		}
		title := "▶ run test"
		args := []any{fn.Module.String() + "::" + fn.Name.Value}
		out = append(out, protocol.CodeLens{
			Range: rangeToLSP(rng),
			Command: &protocol.Command{
				Title:     title,
				Command:   "movan.runTest",
				Arguments: args,
			},
		})
	}
	return out, nil
}

type testLensCollector struct {
	tests []*sema.ItemFun
}

func (c *testLensCollector) HandleItemOrAccess(_ *sema.Project, _ *sema.ProjectContext, ev sema.ItemOrAccess) {
	if fn, ok := ev.(*sema.ItemFun); ok && fn.IsTest == ast.AttrTestTest {
		c.tests = append(c.tests, fn)
	}
}

func (c *testLensCollector) Finished() bool { return false }
