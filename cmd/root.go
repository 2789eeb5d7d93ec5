// Copyright © 2025 The movan authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "movan",
	Short: "movan is a Move semantic analyzer",
	Long: `movan is a semantic-analysis engine for the Move smart-contract
language. It resolves every identifier and type in a project to its
definition and serves the result to editors and tools.

Getting started:
  movan lsp                    Start the language server (stdio transport)
  movan lsp --port 7998        Start the language server on a TCP port
  movan graph ./sources        Print the struct dependency graph
  movan symbols file.move      List the symbols defined in a file

Named addresses:
  Symbolic addresses (std, sui, ...) resolve through the addresses table
  in movan.yaml at the project root:

    addresses:
      std: "0x1"
      sui: "0x2"

The Move parser is not bundled: embedders register a front end before
invoking these commands.`,
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.movan.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", `log verbosity: "error", "info", or "debug"`)
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".movan")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
