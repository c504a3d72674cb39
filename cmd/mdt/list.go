package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/mdt/internal/engine"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print providers/consumers with their link status",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.Open(projectPath)
		if err != nil {
			exitCode = 2
			return err
		}
		_, entries, err := eng.List(context.Background())
		if err != nil {
			exitCode = 2
			return err
		}
		for _, e := range entries {
			fmt.Printf("%-10s %-8s %-30s %s\n", e.Kind, e.Status, e.Name, e.File)
		}
		return nil
	},
}
