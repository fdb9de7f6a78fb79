package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "masonry",
	Short: "Masonry assembles web pages from typed content blocks",
	Long:  `Masonry turns block-based site definitions into assembled pages, with interactive wizard and calculator blocks driven by a safe expression language.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the site definition")
}
