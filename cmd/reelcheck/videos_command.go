package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "videos",
		Short: "List videos in the configured provider index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireIndex(); err != nil {
				return err
			}
			client, err := ctx.providerClient()
			if err != nil {
				return err
			}
			videos, err := client.ListVideos(cmd.Context(), cfg.Provider.IndexID)
			if err != nil {
				return fmt.Errorf("list videos: %w", err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, videos)
			}
			if len(videos) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Index %s has no videos\n", cfg.Provider.IndexID)
				return nil
			}
			rows := make([][]string, 0, len(videos))
			for _, video := range videos {
				rows = append(rows, []string{
					video.ID,
					video.Metadata.Filename,
					fmt.Sprintf("%.0fs", video.Metadata.Duration),
					video.CreatedAt,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Filename", "Duration", "Created"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}
