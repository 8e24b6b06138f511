/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/cfteams/apiserver/config"
	"github.com/cfteams/apiserver/internal/codeforces"
	"github.com/cfteams/apiserver/internal/services"
	"github.com/spf13/cobra"
)

// profileCmd fetches and prints one aggregated profile, useful for
// poking at the aggregation pipeline without running the server.
var profileCmd = &cobra.Command{
	Use:   "profile <handle>",
	Short: "Fetch and print an aggregated Codeforces profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		client := codeforces.NewClient(codeforces.Config{
			BaseURL:         cfg.Codeforces.BaseURL,
			MinCallInterval: cfg.Codeforces.MinCallInterval,
			CacheTTL:        cfg.Codeforces.CacheTTL,
			SummaryCacheTTL: cfg.Codeforces.SummaryCacheTTL,
			HTTPTimeout:     cfg.Codeforces.HTTPTimeout,
		}, logger)

		profile, err := services.NewProfileService(client, logger).GetUserProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(profile)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
