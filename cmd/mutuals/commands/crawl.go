package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mutuals/internal/app"
	"go.trai.ch/mutuals/internal/core/domain"
)

func (c *CLI) newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <handle>",
		Short: "Build the mutual-follow graph around an account",
		Long: "Resolve the handle, collect the accounts it mutually follows and connect\n" +
			"every pair of those accounts that follow each other.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var handle string
			if len(args) == 1 {
				handle = args[0]
			}

			configPath, _ := cmd.Flags().GetString("config")
			jsonLogs, _ := cmd.Flags().GetBool("json")
			workers, _ := cmd.Flags().GetInt("workers")
			format, _ := cmd.Flags().GetString("format")
			noPrefetch, _ := cmd.Flags().GetBool("no-prefetch")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")
			output, _ := cmd.Flags().GetString("output")

			return c.app.Crawl(cmd.Context(), handle, app.RunOptions{
				ConfigPath:  configPath,
				Workers:     workers,
				Format:      format,
				NoPrefetch:  noPrefetch,
				JSON:        jsonLogs,
				MetricsFile: metricsFile,
				Output:      output,
			})
		},
	}
	cmd.Flags().Int("workers", 0, "Concurrent profile and prefetch requests (overrides crawl.workers)")
	cmd.Flags().String("format", "", "Output format: "+domain.FormatText+", "+domain.FormatDOT+" or "+domain.FormatJSON)
	cmd.Flags().Bool("no-prefetch", false, "Fetch following lists lazily during edge detection")
	cmd.Flags().String("metrics-file", "", "Write crawl metrics in Prometheus textfile format")
	cmd.Flags().StringP("output", "o", "", "Write the graph to a file instead of stdout")
	return cmd
}
