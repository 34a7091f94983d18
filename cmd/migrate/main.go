package main

import (
	"log"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
)

// Standalone migration job, for deployments that start the API with
// SKIP_MIGRATIONS=true.
func main() {
	config.ConnectDatabaseWithRetry()

	if err := models.MigrateTable(); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migration completed")
}
