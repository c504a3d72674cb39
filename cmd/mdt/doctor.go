package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/mdt/internal/engine"
	"github.com/viant/mdt/internal/model"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks and exit non-zero on issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.Open(projectPath)
		if err != nil {
			exitCode = 2
			return err
		}
		_, issues, err := eng.Doctor(context.Background())
		if err != nil {
			exitCode = 2
			return err
		}
		for _, i := range issues {
			fmt.Printf("%s: %s\n", i.Severity, i.Message)
			if i.Severity == model.SeverityError {
				exitCode = 1
			}
		}
		if len(issues) == 0 {
			fmt.Println("ok")
		}
		return nil
	},
}
