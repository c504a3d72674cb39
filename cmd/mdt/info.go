package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/mdt/internal/engine"
	"github.com/viant/mdt/internal/format"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print block counts and diagnostics (cache telemetry is not printed)",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.Open(projectPath)
		if err != nil {
			exitCode = 2
			return err
		}
		idx, err := eng.Scan(context.Background())
		if err != nil {
			exitCode = 2
			return err
		}
		fmt.Printf("root: %s\n", idx.Root)
		fmt.Printf("providers: %d  consumers: %d  inlines: %d  templates: %d\n",
			len(idx.Providers), len(idx.Consumers), len(idx.Inlines), len(idx.Templates))
		if len(idx.Diagnostics) > 0 {
			fmt.Println(format.Diagnostics(format.ModeText, idx.Diagnostics))
		}
		return nil
	},
}
