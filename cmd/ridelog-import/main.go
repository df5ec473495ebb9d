// Command ridelog-import loads an existing earnings workbook into the
// database. It reads every daily-record and other-expense sheet from the
// configured source and reconciles each row, so re-running it is safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ridelog/internal/config"
	"ridelog/internal/log"
	"ridelog/internal/services"
	"ridelog/internal/source"
	"ridelog/internal/source/gsheets"
	"ridelog/internal/source/xlsx"
	"ridelog/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentImport})
	log.SetDefault(logger)

	cfg := config.Load()

	sourceName := flag.String("source", cfg.ImportSource, "import source: xlsx or gsheets")
	file := flag.String("file", cfg.ImportFile, "workbook path for the xlsx source")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var src source.Source
	switch *sourceName {
	case "xlsx":
		wb, err := xlsx.NewWorkbook(*file)
		if err != nil {
			logger.Error("Failed to open workbook", "error", err, "file", *file)
			os.Exit(1)
		}
		src = wb
	case "gsheets":
		cli, err := gsheets.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		src = cli
	default:
		logger.Error("Unknown import source", "source", *sourceName)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	records := services.NewRecordService(repo, nil, nil)
	importer := services.NewImportService(records)

	report, err := importer.Run(ctx, src)
	if err != nil {
		logger.Error("Import failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Daily records: %d created, %d updated, %d skipped\n",
		report.RecordsCreated, report.RecordsUpdated, report.RecordsSkipped)
	fmt.Printf("Other expenses: %d created, %d updated, %d skipped\n",
		report.ExpensesCreated, report.ExpensesUpdated, report.ExpensesSkipped)
}
