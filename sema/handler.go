// Copyright © 2025 The movan authors

package sema

import "github.com/movelang/movan/ast"

// Handler receives the traversal's event stream. HandleItemOrAccess is
// called for every definition and use in document order; Finished is
// checked after every event and after every top-level construct, and once
// true the traversal aborts as soon as possible.
//
// Optional capabilities are negotiated through the small interfaces below:
// a handler implements only the ones it needs, and the visitor skips the
// corresponding work otherwise.
type Handler interface {
	HandleItemOrAccess(p *Project, ctx *ProjectContext, ev ItemOrAccess)
	Finished() bool
}

// BodyVisitor is implemented by handlers that need function and spec-block
// bodies visited. ShouldVisitBody filters per body by source range, letting
// a position query restrict the expensive pass to the enclosing function.
// Handlers without this interface stop after the signature-only phases.
type BodyVisitor interface {
	ShouldVisitBody(rng ast.FileRange) bool
}

// TypedExprSink is implemented by handlers that want the inferred type of
// every visited expression.
type TypedExprSink interface {
	HandleExprType(e ast.Exp, ty ResolvedType)
}

// ParamArgSink is implemented by handlers that want call-site parameter
// name and argument expression pairs, for inlay hints.
type ParamArgSink interface {
	HandleParamArgPair(param ast.Name, arg ast.Exp)
}

// CallPairSink is implemented by handlers that want caller and callee
// identity pairs, for call-graph consumers.
type CallPairSink interface {
	HandleCallPair(caller, callee FunID)
}

func wantsBodies(h Handler) (BodyVisitor, bool) {
	bv, ok := h.(BodyVisitor)
	return bv, ok
}
