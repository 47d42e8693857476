package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"nutrilog/internal/cli"
	"nutrilog/internal/config"
	"nutrilog/internal/imgprep"
	applog "nutrilog/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentImgprep)

	if len(os.Args) < 2 {
		printHelp()
		return
	}
	command := strings.ToLower(os.Args[1])
	if command == "help" {
		printHelp()
		return
	}

	cfg := cli.LoadAndValidateConfig(logger)

	maxW, maxH, quality := cfg.ImageMaxWidth, cfg.ImageMaxHeight, cfg.ImageQuality
	var positional []string
	args := os.Args[2:]
	i := 0
	for i < len(args) {
		switch {
		case args[i] == "--max-size" && i+1 < len(args):
			w, h, err := imgprep.ParseMaxSize(args[i+1])
			if err != nil {
				fmt.Println("Invalid max-size format. Use WIDTHxHEIGHT")
				os.Exit(1)
			}
			maxW, maxH = w, h
			i += 2
		case args[i] == "--quality" && i+1 < len(args):
			q, err := strconv.Atoi(args[i+1])
			if err != nil || q < 1 || q > 100 {
				fmt.Println("Invalid quality value")
				os.Exit(1)
			}
			quality = q
			i += 2
		default:
			positional = append(positional, args[i])
			i++
		}
	}

	p := imgprep.New(maxW, maxH, quality)

	switch command {
	case "process":
		runProcess(logger, p, positional)
	case "base64":
		runBase64(logger, p, positional)
	case "batch":
		runBatch(logger, p, cfg, positional)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Run 'nutrilog-imgprep help' for usage information")
		os.Exit(1)
	}
}

func runProcess(logger *applog.Logger, p *imgprep.Preprocessor, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: nutrilog-imgprep process <input> [output]")
		os.Exit(1)
	}
	input := args[0]
	output := imgprep.OutputName(input)
	if len(args) > 1 {
		output = args[1]
	}

	res := processOne(logger, p, input)
	if err := os.WriteFile(output, res.JPEG, 0o644); err != nil {
		logger.Error("Failed to save processed image", applog.FieldError, err, applog.FieldPath, output)
		os.Exit(1)
	}
	fmt.Printf("Saved processed image to %s\n", output)
}

func runBase64(logger *applog.Logger, p *imgprep.Preprocessor, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: nutrilog-imgprep base64 <input> [output]")
		os.Exit(1)
	}
	input := args[0]
	output := imgprep.Base64Name(input)
	if len(args) > 1 {
		output = args[1]
	}

	res := processOne(logger, p, input)
	uri := imgprep.ToBase64(res.JPEG)
	if err := os.WriteFile(output, []byte(uri), 0o644); err != nil {
		logger.Error("Failed to save base64 output", applog.FieldError, err, applog.FieldPath, output)
		os.Exit(1)
	}
	fmt.Printf("Base64 length: %d characters\n", len(uri))
	fmt.Printf("Saved base64 to %s\n", output)
}

func processOne(logger *applog.Logger, p *imgprep.Preprocessor, input string) *imgprep.Result {
	res, err := p.Process(input)
	if err != nil {
		logger.Error("Failed to process image", applog.FieldError, err, applog.FieldPath, input)
		os.Exit(1)
	}
	fmt.Printf("Loaded image: %s\n", input)
	fmt.Printf("  Original size: %dx%d (%s)\n", res.OriginalWidth, res.OriginalHeight, res.SourceFormat)
	if res.Resized {
		fmt.Printf("  Resized to: %dx%d\n", res.Width, res.Height)
	} else {
		fmt.Println("  No resizing needed")
	}
	fmt.Printf("  Optimized size: %.2f KB\n", float64(len(res.JPEG))/1024)
	return res
}

func runBatch(logger *applog.Logger, p *imgprep.Preprocessor, cfg *config.Config, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: nutrilog-imgprep batch <input_dir> <output_dir>")
		os.Exit(1)
	}
	inputDir, outputDir := args[0], args[1]

	res, err := p.Batch(context.Background(), inputDir, outputDir, cfg.BatchWorkers, logger)
	if err != nil {
		logger.Error("Batch processing failed", applog.FieldError, err, applog.FieldPath, inputDir)
		os.Exit(1)
	}
	fmt.Println("Batch processing complete")
	fmt.Printf("  Processed: %d images\n", res.Processed)
	if len(res.Failed) > 0 {
		fmt.Printf("  Failed: %d images (%s)\n", len(res.Failed), strings.Join(res.Failed, ", "))
	}
	fmt.Printf("  Output directory: %s\n", outputDir)
}

func printHelp() {
	fmt.Println(`
Image Preprocessor - Optimize food images for nutrition analysis

Usage:
  nutrilog-imgprep <command> [options]

Commands:
  process <input> [output]
      Process a single image
      Example: nutrilog-imgprep process food.jpg processed.jpg

  base64 <input> [output]
      Convert image to base64 string
      Example: nutrilog-imgprep base64 food.jpg food_b64.txt

  batch <input_dir> <output_dir>
      Batch process all images in a directory
      Example: nutrilog-imgprep batch ./images ./processed

  help
      Show this help message

Options:
  --max-size WIDTHxHEIGHT    Maximum image dimensions (default: 1920x1920)
  --quality QUALITY          JPEG quality 1-100 (default: 85)

Examples:
  nutrilog-imgprep process photo.jpg optimized.jpg
  nutrilog-imgprep base64 photo.jpg --quality 90
  nutrilog-imgprep batch ./raw_images ./optimized_images`)
}
