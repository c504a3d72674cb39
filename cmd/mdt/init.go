package main

import (
	"github.com/spf13/cobra"

	"github.com/viant/mdt/internal/engine"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .templates/template.t.md if absent",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := engine.Init(projectPath)
		if err != nil {
			exitCode = 2
			return err
		}
		if created {
			log.Infof("created %s/.templates/template.t.md", projectPath)
		} else {
			log.Infof("%s/.templates/template.t.md already exists", projectPath)
		}
		return nil
	},
}
