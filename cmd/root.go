/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cfteams",
	Short: "Codeforces profile aggregation and team leaderboard API",
	Long: `cfteams aggregates public Codeforces profile data behind a
rate-limited, cached client and serves it over a REST API, with
lightweight team grouping and leaderboards on top.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
