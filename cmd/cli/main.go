package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rootsai/beatscan/pkg/beatscan"
	"github.com/rootsai/beatscan/pkg/logger"
)

// Global flags
var (
	dbPath       string
	tempDir      string
	analysisRate int
)

func init() {
	flag.StringVar(&dbPath, "db", getEnvOrDefault("BEATSCAN_DB_PATH", "beatscan.sqlite3"), "Path to the SQLite database file")
	flag.StringVar(&tempDir, "temp", getEnvOrDefault("BEATSCAN_TEMP_DIR", "/tmp"), "Directory for temporary audio conversion files")
	flag.IntVar(&analysisRate, "rate", 22050, "Canonical analysis sample rate")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func createService() (beatscan.Service, error) {
	return beatscan.NewService(
		beatscan.WithDBPath(dbPath),
		beatscan.WithTempDir(tempDir),
		beatscan.WithAnalysisRate(analysisRate),
	)
}

func main() {
	printBanner()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "analyze":
		handleAnalyze(args)
	case "list":
		handleList(args)
	case "delete":
		handleDelete(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
 _                _
| |__  ___  __ _ | |_ ___ ___ __ _ _ __
| '_ \/ _ \/ _' ||  _(_-</ __/ _' | '_ \
|_.__/\___/\__,_| \__/__/\___\__,_|_| |_|

        Audio BPM Detection CLI
`
	fmt.Println(banner)
}

func printUsage() {
	fmt.Println("Usage: beatscan <command> [flags] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  analyze <audio-file>   Detect the BPM of an audio file")
	fmt.Println("  list                   Show past analyses")
	fmt.Println("  delete <analysis-id>   Remove a stored analysis")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func parseFlags(args []string) []string {
	// Positional args may precede flags; separate them first.
	var positional []string
	var flagArgs []string
	for i := 0; i < len(args); i++ {
		if len(args[i]) > 0 && args[i][0] == '-' {
			flagArgs = args[i:]
			break
		}
		positional = append(positional, args[i])
	}
	flag.CommandLine.Parse(flagArgs)
	return positional
}

func handleAnalyze(args []string) {
	log := logger.GetLogger()

	positional := parseFlags(args)
	if len(positional) != 1 {
		fmt.Println("Usage: beatscan analyze <audio-file>")
		os.Exit(1)
	}
	audioPath := positional[0]

	info, err := os.Stat(audioPath)
	if err != nil {
		log.Fatalf("Cannot read %s: %v", audioPath, err)
	}

	service, err := createService()
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	fmt.Printf("Analyzing %s (%s)...\n", audioPath, humanize.Bytes(uint64(info.Size())))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rec, err := service.AnalyzeFile(ctx, audioPath, info.Name())
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Println()
	fmt.Printf("  BPM:         %.1f\n", rec.BPM)
	fmt.Printf("  Confidence:  %.2f\n", rec.Confidence)
	fmt.Printf("  Sample rate: %d Hz\n", rec.SampleRate)
	fmt.Printf("  Duration:    %.2f s\n", rec.DurationSeconds)
	fmt.Printf("  Analysis ID: %s\n", rec.ID)
}

func handleList(args []string) {
	log := logger.GetLogger()

	parseFlags(args)

	service, err := createService()
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	recs, err := service.ListAnalyses()
	if err != nil {
		log.Fatalf("Failed to list analyses: %v", err)
	}

	if len(recs) == 0 {
		fmt.Println("No analyses recorded yet.")
		return
	}

	fmt.Printf("%-36s  %-30s  %7s  %5s  %s\n", "ID", "FILE", "BPM", "CONF", "WHEN")
	for _, rec := range recs {
		name := rec.Filename
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Printf("%-36s  %-30s  %7.1f  %5.2f  %s\n",
			rec.ID, name, rec.BPM, rec.Confidence, humanize.Time(rec.CreatedAt))
	}
	fmt.Printf("\n%d analyses\n", len(recs))
}

func handleDelete(args []string) {
	log := logger.GetLogger()

	positional := parseFlags(args)
	if len(positional) != 1 {
		fmt.Println("Usage: beatscan delete <analysis-id>")
		os.Exit(1)
	}
	id := positional[0]

	service, err := createService()
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	if err := service.DeleteAnalysis(id); err != nil {
		log.Fatalf("Failed to delete analysis %s: %v", id, err)
	}
	fmt.Printf("Deleted analysis %s\n", id)
}
