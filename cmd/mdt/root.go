package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viant/mdt/internal/logging"
)

var (
	projectPath string
	verbose     bool
	log         = logging.New(false)
)

var rootCmd = &cobra.Command{
	Use:   "mdt",
	Short: "Keep duplicated documentation in sync with a single authoritative source",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logging.New(verbose)
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&projectPath, "path", "p", ".", "project root")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(initCmd, checkCmd, updateCmd, listCmd, infoCmd, doctorCmd)
}

func initConfig() {
	viper.SetEnvPrefix("MDT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the root command and returns the process exit code (
// CLI surface: 0 clean, 1 stale/render-error, 2 usage/IO error).
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitCode
}

// exitCode is set by subcommands that need a non-zero, non-error exit (the
// "stale" 1 case); cobra itself only distinguishes "no error" from "error".
var exitCode int
