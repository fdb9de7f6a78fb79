package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masonrylabs/masonry"
)

var renderCmd = &cobra.Command{
	Use:   "render [route]",
	Short: "Assemble one page and print the document",
	Long:  `Renders the page at the given route (default "/") and writes the assembled HTML to stdout. With --meta, prints the derived page metadata as JSON instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRender(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Bool("meta", false, "Print derived page metadata instead of the document")
}

func runRender(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	metaOnly, _ := cmd.Flags().GetBool("meta")

	route := "/"
	if len(args) > 0 {
		route = args[0]
	}

	eng, err := masonry.New(dir)
	if err != nil {
		return fmt.Errorf("failed to init engine: %w", err)
	}

	res, err := eng.Page(context.Background(), route)
	if err != nil {
		return err
	}

	if metaOnly {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Meta)
	}
	fmt.Println(res.Document)
	return nil
}
