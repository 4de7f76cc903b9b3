package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/analoghub/backend/internal/app"
	"github.com/analoghub/backend/internal/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load spreadsheets into the search index",
}

var ingestAnalogsCmd = &cobra.Command{
	Use:   "analogs <sheet.xlsx>",
	Short: "Index an analog table",
	Long: `analogs indexes every row of the first sheet as an analog record.
Columns are located by their headers (Инструмент, Бренд, Аналог, Бренд аналога)
unless --columns gives their zero-based offsets.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var layout *domain.AnalogColumns
		if spec, _ := cmd.Flags().GetString("columns"); spec != "" {
			cols, err := parseColumns(spec)
			if err != nil {
				return err
			}
			layout = &cols
		}

		return runBatch(cmd, args[0], ".xlsx", func(ctx context.Context, a *app.App, path string) domain.JobResult {
			return a.Ingestion.IngestAnalogSheet(ctx, path, layout)
		})
	},
}

var ingestMakersCmd = &cobra.Command{
	Use:   "makers <archive.zip>",
	Short: "Index a zip archive of manufacturer price lists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := filepath.Base(args[0])
		return runBatch(cmd, args[0], ".zip", func(ctx context.Context, a *app.App, path string) domain.JobResult {
			return a.Ingestion.IngestManufacturerArchive(ctx, path, name)
		})
	},
}

func init() {
	ingestAnalogsCmd.Flags().String("columns", "", "zero-based offsets of tool, brand, analog and analog brand (e.g. 0,1,2,3)")

	ingestCmd.AddCommand(ingestAnalogsCmd, ingestMakersCmd)
	rootCmd.AddCommand(ingestCmd)
}

// runBatch copies src into scratch storage, since jobs consume their input,
// and runs job on the copy
func runBatch(cmd *cobra.Command, src, ext string, job func(context.Context, *app.App, string) domain.JobResult) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	path, err := a.Storage.Save(f, ext)
	f.Close()
	if err != nil {
		return err
	}

	if result := job(ctx, a, path); result.State != domain.ResultOK {
		return fmt.Errorf("%s: job failed, see log", src)
	}
	return nil
}

// parseColumns reads "tool,brand,analog,analogBrand" offsets
func parseColumns(spec string) (domain.AnalogColumns, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return domain.AnalogColumns{}, fmt.Errorf("--columns needs 4 offsets, got %d", len(parts))
	}

	offsets := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return domain.AnalogColumns{}, fmt.Errorf("--columns: bad offset %q", p)
		}
		offsets[i] = n
	}

	return domain.AnalogColumns{
		Base:               offsets[0],
		BaseManufacturer:   offsets[1],
		Analog:             offsets[2],
		AnalogManufacturer: offsets[3],
	}, nil
}
