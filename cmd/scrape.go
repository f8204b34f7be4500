package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// scrapeCmd represents the scrape command.
var scrapeCmd = newScrapeCmd()

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape PAGE_URL",
		Short: "List the stickers on a LINE shop page",
		Long: `List the stickers found on a LINE sticker shop product page without
downloading or uploading anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			return importer.Scrape(context.Background(), args[0])
		},
	}
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
