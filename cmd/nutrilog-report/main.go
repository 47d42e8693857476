package main

import (
	"fmt"
	"os"
	"time"

	"nutrilog/internal/cli"
	"nutrilog/internal/export"
	"nutrilog/internal/journal"
	applog "nutrilog/internal/log"
	"nutrilog/internal/report"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentReport)

	if len(os.Args) < 2 {
		fmt.Println("Usage: nutrilog-report <input.json> [output.txt]")
		os.Exit(1)
	}
	inputPath := os.Args[1]

	j, err := journal.Open(inputPath)
	if err != nil {
		logger.Error("Failed to load meal data", applog.FieldError, err, applog.FieldPath, inputPath)
		os.Exit(1)
	}
	logger.Info("Loaded meal data", applog.FieldPath, inputPath, applog.FieldRecords, j.Len())

	doc, err := report.Weekly(j.Records(), time.Now())
	if err != nil {
		logger.Error("Failed to generate report", applog.FieldError, err)
		os.Exit(1)
	}

	if len(os.Args) > 2 {
		outputPath := os.Args[2]
		if err := os.WriteFile(outputPath, []byte(doc), 0o644); err != nil {
			logger.Error("Failed to write report",
				applog.FieldError, &export.DestinationError{Path: outputPath, Err: err})
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputPath)
		return
	}
	fmt.Print(doc)
}
