package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/masonrylabs/masonry"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of masonry",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("masonry version %s\n", strings.TrimSpace(masonry.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
