package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/rootsai/beatscan/pkg/beatscan"
)

var (
	port           int
	dbPath         string
	tempDir        string
	analysisRate   int
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("BEATSCAN_DB_PATH", "beatscan.sqlite3"), "Path to SQLite database")
	flag.StringVar(&tempDir, "temp", getEnvOrDefault("BEATSCAN_TEMP_DIR", "/tmp"), "Temporary directory")
	flag.IntVar(&analysisRate, "rate", 22050, "Canonical analysis sample rate")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	service, err := beatscan.NewService(
		beatscan.WithDBPath(dbPath),
		beatscan.WithTempDir(tempDir),
		beatscan.WithAnalysisRate(analysisRate),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	config := &ServerConfig{
		Port:           port,
		DBPath:         dbPath,
		TempDir:        tempDir,
		AnalysisRate:   analysisRate,
		AllowedOrigins: origins,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
