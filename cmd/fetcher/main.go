package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/levalleyjack/slugtistics/pkg/catalog"
	"github.com/levalleyjack/slugtistics/pkg/messaging"
)

// The fetcher daemon pulls the upstream catalog feed on an interval,
// writes the snapshot where the discovery servers can warm-start from
// it, and announces the update so running servers refetch immediately.

var interval = flag.Duration("interval", time.Hour, "fetch interval")
var once = flag.Bool("once", false, "fetch a single time and exit")
var catalogUrl = os.Getenv("CATALOG_URL")
var dataPath = os.Getenv("DATA_PATH")
var rabbitUrl = os.Getenv("RABBIT_URL")

func main() {
	flag.Parse()
	if catalogUrl == "" {
		log.Fatalf("No catalog url provided")
	}
	if dataPath == "" {
		dataPath = "data"
	}

	var broker *messaging.Broker
	if rabbitUrl != "" {
		var err error
		broker, err = messaging.Connect(rabbitUrl)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ, %v", err)
		}
	}

	fetcher := catalog.NewFetcher(catalogUrl)
	disk := catalog.NewDiskStorage(dataPath)

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		store := catalog.NewStore()
		if err := fetcher.Refresh(ctx, store); err != nil {
			log.Printf("Fetch failed: %v", err)
			return
		}
		if err := disk.SaveSnapshot(store); err != nil {
			log.Printf("Failed to save snapshot: %v", err)
			return
		}
		if broker != nil {
			courses, lastUpdated := store.Snapshot()
			err := broker.AnnounceCatalogUpdate(ctx, messaging.CatalogUpdatedMessage{
				CourseCount:   len(courses),
				LastUpdatedAt: lastUpdated,
			})
			if err != nil {
				log.Printf("Failed to announce catalog update: %v", err)
			}
		}
	}

	run()
	if *once {
		return
	}
	for range time.Tick(*interval) {
		run()
	}
}
