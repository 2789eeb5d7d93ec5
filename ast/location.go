// Copyright © 2025 The movan authors

// Package ast defines the parsed-source input contract of the analysis
// engine. The parser that produces these values is an external collaborator;
// the engine consumes definitions, expressions and types as opaque input and
// never re-tokenizes source text.
package ast

import "fmt"

// FileHash identifies the content of a source file. Locations carry the
// hash rather than the path so stale locations from an edited file can be
// detected and dropped instead of pointing into the wrong text.
type FileHash string

// EmptyHash is carried by synthetic locations (builtins, dummy items).
const EmptyHash FileHash = ""

// Loc is a byte-offset source span inside one file.
type Loc struct {
	Hash  FileHash
	Start uint32
	End   uint32
}

// UnknownLoc is the zero span used for builtins and unresolved entities.
func UnknownLoc() Loc { return Loc{} }

func (l Loc) IsUnknown() bool {
	return l.Hash == EmptyHash && l.Start == 0 && l.End == 0
}

func (l Loc) String() string {
	return fmt.Sprintf("%s[%d..%d)", string(l.Hash), l.Start, l.End)
}

// FileRange is a Loc translated to path plus line/column coordinates by a
// line-mapping collaborator. Lines and columns are zero based.
type FileRange struct {
	Path      string
	LineStart uint32
	ColStart  uint32
	LineEnd   uint32
	ColEnd    uint32
}

// UnknownRange marks a span whose file is not (or no longer) known.
func UnknownRange() FileRange {
	return FileRange{Path: ""}
}

func (r FileRange) IsUnknown() bool { return r.Path == "" }

// Contains reports whether the zero-based position falls inside the range.
func (r FileRange) Contains(line, col uint32) bool {
	if line < r.LineStart || line > r.LineEnd {
		return false
	}
	if line == r.LineStart && col < r.ColStart {
		return false
	}
	if line == r.LineEnd && col > r.ColEnd {
		return false
	}
	return true
}

func (r FileRange) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", r.Path, r.LineStart+1, r.ColStart+1, r.LineEnd+1, r.ColEnd+1)
}

// ConvertLoc translates byte-offset spans into file ranges. The second
// return is false when the file hash is stale or unknown; callers drop the
// affected event rather than reporting a bogus position.
type ConvertLoc interface {
	ConvertLocRange(loc Loc) (FileRange, bool)
}

// Name is an identifier together with its source span.
type Name struct {
	Loc   Loc
	Value string
}

func (n Name) String() string { return n.Value }
