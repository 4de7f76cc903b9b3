// Package main is the entry point for the analoghub CLI: the HTTP API,
// the queue worker and one-off batch commands.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/analoghub/backend/config"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the analoghub CLI.
var rootCmd = &cobra.Command{
	Use:   "analoghub",
	Short: "Cutting tool catalog search and analog resolution",
	Long: `analoghub indexes manufacturer price lists and analog tables into
Elasticsearch and resolves tools to their analogs from other manufacturers.

Run "serve" for the HTTP API and "worker" for the batch queue; the ingest,
resolve and sweep commands run the same batch jobs in the foreground.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./config.yaml, ./config/config.yaml or /etc/analoghub/config.yaml)")

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

// loadConfig reads the file named by --config, or the default search paths
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.LoadFile(file)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
