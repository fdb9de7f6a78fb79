package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masonrylabs/masonry"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the site definition for authoring errors",
	Long:  `Walks every page and reports unknown block types, duplicate IDs, malformed conditions, broken branch targets and rejected formulas.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Site is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	if len(args) > 0 {
		dir = args[0]
	}

	eng, err := masonry.New(dir)
	if err != nil {
		return fmt.Errorf("failed to init engine: %w", err)
	}

	issues, err := eng.Validate(context.Background())
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		for _, issue := range issues {
			fmt.Printf("- %s\n", issue)
		}
		return fmt.Errorf("found %d issues", len(issues))
	}
	return nil
}
