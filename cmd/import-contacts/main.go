package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/config"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/database"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/importer"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/logger"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"
)

// Bulk contact import from the command line. Same pipeline as the API
// endpoint, for backfills too large to push through an upload form.
func main() {
	campaignID := flag.Uint("campaign", 0, "campaign ID to import into")
	file := flag.String("file", "", "path to a .csv or .xlsx contact list")
	dryRun := flag.Bool("dry-run", false, "parse and validate without writing")
	flag.Parse()

	if *campaignID == 0 || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	zlog := logger.New(cfg.LogLevel, "console")
	defer zlog.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	var campaign models.Campaign
	if err := db.First(&campaign, *campaignID).Error; err != nil {
		log.Fatalf("Campaign %d not found: %v", *campaignID, err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	rows, err := importer.ParseFile(*file, f)
	if err != nil {
		log.Fatalf("Failed to parse file: %v", err)
	}

	if *dryRun {
		cm, unmapped := importer.AutoMap(rows[0], nil)
		fmt.Printf("Detected columns: %v\n", cm)
		fmt.Printf("Unmapped columns: %v\n", unmapped)
		fmt.Printf("Data rows: %d\n", len(rows)-1)
		return
	}

	result, err := importer.New(db, zlog).Import(&campaign, rows, nil)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
