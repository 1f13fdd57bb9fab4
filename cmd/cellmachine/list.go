package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available levels",
	Long:  `Shows the builtin levels and any levels found in the levels directory.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	items := menuItems()

	if len(items) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, it := range items {
		maxIDLen = max(maxIDLen, len(it.ID))
		maxTitleLen = max(maxTitleLen, len(it.Title))
	}

	fmt.Printf("  %-*s  %-*s  %-7s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Size", "Source")
	fmt.Printf("  %-*s  %-*s  %-7s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "----", "------")

	for _, it := range items {
		size := fmt.Sprintf("%dx%d", it.Width, it.Height)
		fmt.Printf("  %-*s  %-*s  %-7s  %s\n", maxIDLen, it.ID, maxTitleLen, it.Title, size, it.Source)
	}

	fmt.Println()
	fmt.Println("Run 'cellmachine play <id>' to watch a level.")
	return nil
}
