package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/config"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/database"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/idempotency"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"
)

// Backfills payload hashes for interactions recorded before the idempotency
// check existed. Rows without a stored raw payload get a synthetic hash from
// their own column values so the unique index can be created.
func main() {
	apply := flag.Bool("apply", false, "write changes (default is a dry run)")
	flag.Parse()

	cfg := config.LoadConfig()
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	var interactions []models.Interaction
	if err := db.Where("payload_hash = '' OR payload_hash IS NULL").Find(&interactions).Error; err != nil {
		log.Fatalf("Failed to load interactions: %v", err)
	}

	fmt.Printf("Found %d interactions without a payload hash\n", len(interactions))

	updated := 0
	for _, interaction := range interactions {
		synthetic := fmt.Sprintf("%d|%s|%s|%s|%s",
			interaction.CampaignID, interaction.SourceType,
			interaction.FromNumber, interaction.Transcript,
			interaction.CreatedAt.UTC().Format("2006-01-02T15:04:05"))
		hash := idempotency.HashPayload([]byte(synthetic))

		if *apply {
			if err := db.Model(&models.Interaction{}).
				Where("id = ?", interaction.ID).
				Update("payload_hash", hash).Error; err != nil {
				log.Printf("interaction %d: %v", interaction.ID, err)
				continue
			}
		}
		updated++
	}

	if *apply {
		fmt.Printf("Updated %d interactions\n", updated)
	} else {
		fmt.Printf("Would update %d interactions (run with -apply to write)\n", updated)
	}
}
