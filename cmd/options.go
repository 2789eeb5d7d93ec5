// Copyright © 2025 The movan authors

package cmd

import "github.com/movelang/movan/lsp"

// Option configures an exported command factory (LSPCommand, GraphCommand,
// SymbolsCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	parser lsp.Parser
}

// WithParser injects the Move front end the commands parse sources with.
// The parser is an external collaborator; without one the commands report
// an error instead of attempting analysis.
func WithParser(p lsp.Parser) Option {
	return func(c *cmdConfig) { c.parser = p }
}
