package main

import (
	"context"
	"log"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/workflow"
)

// Replays all surviving documents to re-derive stock quantities and average
// costs. Run against a quiesced database.
func main() {
	config.ConnectDatabaseWithRetry()

	if err := workflow.RebuildStocks(context.Background()); err != nil {
		log.Fatalf("stock rebuild failed: %v", err)
	}
	log.Println("stock rebuild completed")
}
