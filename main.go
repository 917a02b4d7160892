package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/levalleyjack/slugtistics/pkg/catalog"
	"github.com/levalleyjack/slugtistics/pkg/common"
	"github.com/levalleyjack/slugtistics/pkg/messaging"
	"github.com/levalleyjack/slugtistics/pkg/server"
	"github.com/levalleyjack/slugtistics/pkg/tracking"
	"github.com/levalleyjack/slugtistics/pkg/uistate"
)

var enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints")
var refreshInterval = flag.Duration("refresh", time.Hour, "catalog refresh interval")
var catalogUrl = os.Getenv("CATALOG_URL")
var dataPath = os.Getenv("DATA_PATH")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var rabbitUrl = os.Getenv("RABBIT_URL")
var listenAddress = ":8080"
var debugAddress = ":8081"

func main() {
	flag.Parse()
	if dataPath == "" {
		dataPath = "data"
	}

	store := catalog.NewStore()
	disk := catalog.NewDiskStorage(dataPath)
	if err := disk.LoadSnapshot(store); err != nil {
		log.Printf("No local catalog snapshot: %v", err)
	} else {
		log.Printf("Loaded %d courses from local snapshot", store.Len())
	}

	var durable *uistate.RedisStore
	if redisUrl != "" {
		durable = uistate.NewRedisStore(redisUrl, redisPassword, 0, "slugtistics")
		if err := durable.Ping(context.Background()); err != nil {
			log.Fatalf("Failed to connect to redis, %v", err)
		}
	} else {
		log.Printf("No redis url provided, ui state is session scoped only")
	}

	var trk tracking.Tracking
	if rabbitUrl != "" {
		rabbitTracking, err := tracking.NewRabbitTracking(rabbitUrl)
		if err != nil {
			log.Printf("Failed to connect tracking to RabbitMQ, %v", err)
		} else {
			trk = rabbitTracking
		}
	}

	sessions := server.NewSessionRegistry(durable)
	ws := server.NewWebServer(store, sessions, trk)
	ws.RefreshRatings()

	fetcher := catalog.NewFetcher(catalogUrl)
	refresh := func() {
		if catalogUrl == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := fetcher.Refresh(ctx, store); err != nil {
			log.Printf("Catalog refresh failed: %v", err)
			return
		}
		ws.RefreshRatings()
		if err := disk.SaveSnapshot(store); err != nil {
			log.Printf("Failed to save catalog snapshot: %v", err)
		}
	}

	go func() {
		refresh()
		for range time.Tick(*refreshInterval) {
			refresh()
		}
	}()

	if rabbitUrl != "" {
		if err := listenForCatalogUpdates(rabbitUrl, refresh); err != nil {
			log.Printf("Failed to listen for catalog updates, %v", err)
		}
	}

	go func() {
		debugMux := http.NewServeMux()
		debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		if *enableProfiling {
			log.Println("Profiling enabled")
			debugMux.HandleFunc("/debug/pprof/", pprof.Index)
			debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		}
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	cfg := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       90 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	srv := common.NewServerWithTimeouts(&http.Server{
		Addr:    listenAddress,
		Handler: ws.CreateHandler(),
	}, cfg)

	common.RunServerWithShutdown(srv, "course discovery server", cfg.Shutdown, cfg.Hook,
		func(ctx context.Context) error {
			sessions.Close()
			return nil
		},
		func(ctx context.Context) error {
			if store.Len() == 0 {
				return nil
			}
			return disk.SaveSnapshot(store)
		},
	)
}

func listenForCatalogUpdates(url string, onUpdate func()) error {
	broker, err := messaging.Connect(url)
	if err != nil {
		return err
	}
	return broker.ListenForCatalogUpdates(func(msg messaging.CatalogUpdatedMessage) {
		log.Printf("Catalog update announced (%d courses), refreshing", msg.CourseCount)
		onUpdate()
	})
}
