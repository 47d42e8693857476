package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"nutrilog/internal/amqp"
	"nutrilog/internal/cli"
	"nutrilog/internal/config"
	"nutrilog/internal/core"
	"nutrilog/internal/journal"
	applog "nutrilog/internal/log"
	"nutrilog/internal/report"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

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

	switch command {
	case "add":
		runAdd(logger, cfg, os.Args[2:])
	case "list":
		runList(logger, cfg, os.Args[2:])
	case "today":
		runToday(logger, cfg)
	case "analyze":
		runAnalyze(logger, cfg)
	case "delete-last":
		runDeleteLast(logger, cfg)
	case "interactive":
		runInteractive(logger, cfg)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Run 'nutrilog help' for usage information")
		os.Exit(1)
	}
}

func runAdd(logger *applog.Logger, cfg *config.Config, args []string) {
	var (
		positional []string
		sync       bool
	)
	for _, arg := range args {
		if arg == "--sync" {
			sync = true
			continue
		}
		positional = append(positional, arg)
	}
	if len(positional) < 5 {
		fmt.Println("Usage: nutrilog add <type> <calories> <protein> <carbs> <fat> [notes]")
		os.Exit(1)
	}

	in := journal.AddInput{MealType: positional[0]}
	values := []*float64{&in.Calories, &in.Protein, &in.Carbs, &in.Fat}
	names := []string{"calories", "protein", "carbs", "fat"}
	for i, p := range values {
		v, err := strconv.ParseFloat(positional[i+1], 64)
		if err != nil {
			fmt.Printf("Invalid %s value: %s\n", names[i], positional[i+1])
			os.Exit(1)
		}
		*p = v
	}
	if len(positional) > 5 {
		in.Notes = strings.Join(positional[5:], " ")
	}

	addMeal(logger, cfg, in, sync)
}

func addMeal(logger *applog.Logger, cfg *config.Config, in journal.AddInput, sync bool) {
	j, err := journal.OpenOrCreate(cfg.JournalPath)
	if err != nil {
		logger.Error("Failed to open meal journal", applog.FieldError, err, applog.FieldPath, cfg.JournalPath)
		os.Exit(1)
	}

	record, err := j.Add(in)
	if err != nil {
		logger.Error("Failed to save meal", applog.FieldError, err, applog.FieldPath, cfg.JournalPath)
		os.Exit(1)
	}
	fmt.Printf("Added %s meal: %s kcal, %sg protein, %sg carbs, %sg fat\n",
		in.MealType, num(in.Calories), num(in.Protein), num(in.Carbs), num(in.Fat))
	fmt.Printf("Data saved to %s\n", cfg.JournalPath)

	if !sync {
		return
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()
	if err := client.PublishMealSync(context.Background(), record.ID); err != nil {
		logger.Error("Failed to publish sync message", applog.FieldError, err, applog.FieldMealID, record.ID)
		os.Exit(1)
	}
	logger.Info("Sync message published", applog.FieldMealID, record.ID)
}

func runList(logger *applog.Logger, cfg *config.Config, args []string) {
	days := report.WindowDays
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			fmt.Printf("Invalid days value: %s\n", args[0])
			os.Exit(1)
		}
		days = d
	}

	j, err := journal.OpenOrCreate(cfg.JournalPath)
	if err != nil {
		logger.Error("Failed to open meal journal", applog.FieldError, err, applog.FieldPath, cfg.JournalPath)
		os.Exit(1)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	var recent []core.MealRecord
	for _, m := range j.Records() {
		t, err := m.Consumed()
		if err != nil {
			logger.Warn("Skipping meal with malformed timestamp", applog.FieldMealID, m.ID, applog.FieldError, err)
			continue
		}
		if t.After(cutoff) {
			recent = append(recent, m)
		}
	}

	if len(recent) == 0 {
		fmt.Printf("No meals found in the last %d days\n", days)
		return
	}

	rule := strings.Repeat("=", 80)
	fmt.Printf("\n%s\n", rule)
	fmt.Printf("MEALS - Last %d Days (%d meals)\n", days, len(recent))
	fmt.Printf("%s\n\n", rule)

	for _, m := range recent {
		t, _ := m.Consumed()
		totals := m.Analysis.Totals
		fmt.Println(t.Format("2006-01-02 15:04"))
		fmt.Printf("   Type: %s\n", strings.ToUpper(m.Type()))
		if m.Name != "" {
			fmt.Printf("   Name: %s\n", m.Name)
		}
		fmt.Printf("   Calories: %s kcal\n", num(totals.Calories))
		fmt.Printf("   Macros: P:%sg | C:%sg | F:%sg\n",
			num(totals.Macros.Protein), num(totals.Macros.Carbs), num(totals.Macros.Fat))
		if m.Notes != "" {
			fmt.Printf("   Notes: %s\n", m.Notes)
		}
		fmt.Println()
	}
}

func runToday(logger *applog.Logger, cfg *config.Config) {
	j, err := journal.OpenOrCreate(cfg.JournalPath)
	if err != nil {
		logger.Error("Failed to open meal journal", applog.FieldError, err, applog.FieldPath, cfg.JournalPath)
		os.Exit(1)
	}

	byDay, err := core.GroupByCalendarDay(j.Records())
	if err != nil {
		logger.Error("Meal journal contains a malformed timestamp", applog.FieldError, err)
		os.Exit(1)
	}

	today := time.Now().Format("2006-01-02")
	day := byDay[today]

	rule := strings.Repeat("=", 60)
	fmt.Printf("\n%s\n", rule)
	fmt.Printf("DAILY SUMMARY - %s\n", today)
	fmt.Printf("%s\n", rule)
	fmt.Printf("Total Meals: %d\n", day.Count)
	fmt.Printf("Total Calories: %s kcal\n", num(core.Round2(day.Calories)))
	fmt.Printf("Protein: %sg\n", num(core.Round2(day.Protein)))
	fmt.Printf("Carbs: %sg\n", num(core.Round2(day.Carbs)))
	fmt.Printf("Fat: %sg\n", num(core.Round2(day.Fat)))
	fmt.Printf("%s\n\n", rule)
}

func runAnalyze(logger *applog.Logger, cfg *config.Config) {
	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		logger.Error("Failed to open meal journal", applog.FieldError, err, applog.FieldPath, cfg.JournalPath)
		os.Exit(1)
	}
	out, err := report.Summary(j.Records(), time.Now())
	if err != nil {
		logger.Error("Failed to build analysis summary", applog.FieldError, err)
		os.Exit(1)
	}
	fmt.Print(out)
}

func runDeleteLast(logger *applog.Logger, cfg *config.Config) {
	j, err := journal.OpenOrCreate(cfg.JournalPath)
	if err != nil {
		logger.Error("Failed to open meal journal", applog.FieldError, err, applog.FieldPath, cfg.JournalPath)
		os.Exit(1)
	}
	deleted, err := j.DeleteLast()
	if errors.Is(err, journal.ErrEmpty) {
		fmt.Println("No meals to delete")
		return
	}
	if err != nil {
		logger.Error("Failed to delete meal", applog.FieldError, err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %s meal from %s\n", deleted.Type(), deleted.ConsumedAt)
}

func runInteractive(logger *applog.Logger, cfg *config.Config) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("\n--- Add New Meal ---")

	mealType := strings.ToLower(prompt(reader, "Meal type (breakfast/lunch/dinner/snack): "))
	switch mealType {
	case core.Breakfast, core.Lunch, core.Dinner, core.Snack:
	default:
		mealType = core.Snack
	}

	in := journal.AddInput{MealType: mealType}
	fields := []struct {
		label string
		dst   *float64
	}{
		{"Calories (kcal): ", &in.Calories},
		{"Protein (g) [0]: ", &in.Protein},
		{"Carbs (g) [0]: ", &in.Carbs},
		{"Fat (g) [0]: ", &in.Fat},
	}
	for i, f := range fields {
		raw := prompt(reader, f.label)
		if raw == "" && i > 0 {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fmt.Println("Invalid input. Please enter numbers for nutrition values.")
			os.Exit(1)
		}
		*f.dst = v
	}
	in.Notes = prompt(reader, "Notes (optional): ")

	addMeal(logger, cfg, in, false)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// num renders a float without trailing zeros, so whole values print bare.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printHelp() {
	fmt.Println(`
Meal Tracker CLI - Track your nutrition from command line

Usage:
  nutrilog [command] [options]

Commands:
  add <type> <calories> <protein> <carbs> <fat> [notes]
      Add a new meal; pass --sync to also queue a Google Sheets sync
      Example: nutrilog add breakfast 500 30 50 15 "Oatmeal with eggs"

  list [days]
      List meals from last N days (default: 7)
      Example: nutrilog list 14

  today
      Show today's nutrition summary

  analyze
      Show nutrition analysis across all recorded meals

  delete-last
      Delete the most recent meal

  interactive
      Add meal interactively

  help
      Show this help message

Examples:
  nutrilog add lunch 650 35 60 25 "Chicken with rice"
  nutrilog list 7
  nutrilog today`)
}
