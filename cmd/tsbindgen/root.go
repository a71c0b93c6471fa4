package main

import "github.com/spf13/cobra"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tsbindgen",
	Short: "Ingests TypeScript type declarations into a language-native module tree",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults applied if omitted)")
	rootCmd.AddCommand(ingestCmd)
}
