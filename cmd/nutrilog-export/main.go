package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"nutrilog/internal/cli"
	"nutrilog/internal/core"
	"nutrilog/internal/export"
	"nutrilog/internal/journal"
	applog "nutrilog/internal/log"
	gsheet "nutrilog/internal/sheets/google"
	"nutrilog/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentExport)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	inputPath := os.Args[1]

	j, err := journal.Open(inputPath)
	if err != nil {
		logger.Error("Failed to load meal data", applog.FieldError, err, applog.FieldPath, inputPath)
		os.Exit(1)
	}
	records := j.Records()
	logger.Info("Loaded meal data", applog.FieldPath, inputPath, applog.FieldRecords, len(records))

	now := time.Now()
	var targets []export.Target

	args := os.Args[2:]
	i := 0
	for i < len(args) {
		opt := args[i]
		switch opt {
		case "--csv", "--detailed-csv", "--summary-json", "--sqlite", "--all":
			if i+1 >= len(args) {
				fmt.Printf("Option %s requires a value\n", opt)
				os.Exit(1)
			}
			value := args[i+1]
			i += 2
			switch opt {
			case "--csv":
				targets = append(targets, csvTarget(value, records))
			case "--detailed-csv":
				targets = append(targets, detailedCSVTarget(value, records))
			case "--summary-json":
				targets = append(targets, summaryJSONTarget(value, records, now))
			case "--sqlite":
				targets = append(targets, sqliteTarget(value, records))
			case "--all":
				targets = append(targets,
					csvTarget(value+"_summary.csv", records),
					detailedCSVTarget(value+"_detailed.csv", records),
					summaryJSONTarget(value+"_summary.json", records, now),
					sqliteTarget(value+".db", records),
				)
			}
		case "--sheets":
			i++
			targets = append(targets, sheetsTarget(records))
		default:
			fmt.Printf("Unknown option: %s\n", opt)
			os.Exit(1)
		}
	}

	if len(targets) == 0 {
		printUsage()
		os.Exit(1)
	}

	errs := export.RunAll(targets)
	for _, err := range errs {
		logger.Error("Export target failed", applog.FieldError, err)
	}
	if len(errs) > 0 {
		os.Exit(1)
	}
}

func csvTarget(path string, records []core.MealRecord) export.Target {
	return export.Target{Name: "csv", Run: func() error {
		if err := export.SummaryCSVFile(path, records); err != nil {
			return err
		}
		fmt.Printf("Exported summary CSV to %s\n", path)
		return nil
	}}
}

func detailedCSVTarget(path string, records []core.MealRecord) export.Target {
	return export.Target{Name: "detailed-csv", Run: func() error {
		if err := export.DetailedCSVFile(path, records); err != nil {
			return err
		}
		fmt.Printf("Exported detailed CSV to %s\n", path)
		return nil
	}}
}

func summaryJSONTarget(path string, records []core.MealRecord, now time.Time) export.Target {
	return export.Target{Name: "summary-json", Run: func() error {
		if err := export.SummaryJSONFile(path, records, now); err != nil {
			return err
		}
		fmt.Printf("Exported summary JSON to %s\n", path)
		return nil
	}}
}

func sqliteTarget(path string, records []core.MealRecord) export.Target {
	return export.Target{Name: "sqlite", Run: func() error {
		repo, err := storage.NewSQLiteRepository(path)
		if err != nil {
			return &export.DestinationError{Path: path, Err: err}
		}
		defer repo.Close()
		if err := repo.ExportMeals(context.Background(), records); err != nil {
			return &export.DestinationError{Path: path, Err: err}
		}
		fmt.Printf("Exported %d meals to SQLite database %s\n", len(records), path)
		return nil
	}}
}

func sheetsTarget(records []core.MealRecord) export.Target {
	return export.Target{Name: "sheets", Run: func() error {
		ctx := context.Background()
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return err
		}
		n, err := client.ExportMeals(ctx, records)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d meals to Google Sheets\n", n)
		return nil
	}}
}

func printUsage() {
	fmt.Println("Usage: nutrilog-export <input_json> [options]")
	fmt.Println("Options:")
	fmt.Println("  --csv <file>           Export summary to CSV")
	fmt.Println("  --detailed-csv <file>  Export detailed composition to CSV")
	fmt.Println("  --summary-json <file>  Export summary statistics to JSON")
	fmt.Println("  --sqlite <file>        Export to a SQLite database")
	fmt.Println("  --sheets               Export to the configured Google Sheet")
	fmt.Println("  --all <prefix>         Export all file formats with given prefix")
	fmt.Println("Examples:")
	fmt.Println("  nutrilog-export meals.json --csv summary.csv")
	fmt.Println("  nutrilog-export meals.json --all exported_data")
}
