package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/mdt/internal/engine"
	"github.com/viant/mdt/internal/format"
	"github.com/viant/mdt/internal/render"
)

var (
	checkDiff   bool
	checkFormat string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report consumers whose content has drifted from their provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.Open(projectPath)
		if err != nil {
			exitCode = 2
			return err
		}
		idx, res, err := eng.Check(context.Background())
		if err != nil {
			exitCode = 2
			return err
		}

		mode := format.Mode(checkFormat)
		if len(idx.Diagnostics) > 0 {
			fmt.Println(format.Diagnostics(mode, idx.Diagnostics))
		}
		fmt.Println(format.CheckResult(mode, res))

		if checkDiff {
			for _, s := range res.Stale {
				diff, derr := render.UnifiedDiff(s.File, s.Block, s.Current, s.Expected)
				if derr == nil {
					fmt.Println(diff)
				}
			}
		}

		if !res.OK() {
			exitCode = 1
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkDiff, "diff", false, "print a unified diff for each stale entry")
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format: text, json, github")
}
