package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/analoghub/backend/internal/app"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <in.xlsx> <out.xlsx>",
	Short: "Resolve a sheet of tools to their analogs",
	Long: `resolve reads the Инструмент and Бренд columns of the first sheet and
writes an analog report. Rows matched only by fuzzy search are highlighted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Resolver.ResolveAnalogSheet(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		log.Printf("[RESOLVE] Wrote %s", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
