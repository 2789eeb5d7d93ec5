// Copyright © 2025 The movan authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	"github.com/movelang/movan/lsp"
)

// LSPCommand returns the command that starts the language server. Exported
// so embedders can mount it with their own parser registered.
func LSPCommand(opts ...Option) *cobra.Command {
	config := &cmdConfig{}
	for _, opt := range opts {
		opt(config)
	}

	var (
		stdio bool
		port  int
	)
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Move language server",
		Long: `Start the Move language server, speaking the Language Server
Protocol over stdio (the default) or a TCP port.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(logVerbosity(), nil)

			addrs, err := loadAddresses(".")
			if err != nil {
				return err
			}
			server := lsp.New(
				lsp.WithParser(config.parser),
				lsp.WithAddresses(addrs),
			)
			if port != 0 && !stdio {
				return server.RunTCP(fmt.Sprintf("localhost:%d", port))
			}
			return server.RunStdio()
		},
	}
	cmd.Flags().BoolVar(&stdio, "stdio", false, "use stdio transport (default)")
	cmd.Flags().IntVar(&port, "port", 0, "listen on a TCP port instead of stdio")
	return cmd
}

// logVerbosity maps the configured log level to a commonlog verbosity.
func logVerbosity() int {
	switch viper.GetString("log-level") {
	case "error":
		return 0
	case "debug":
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
