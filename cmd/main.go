package main

import (
	"log"
	"os"
	"time"

	"metasearch/api"
	"metasearch/client"
	"metasearch/config"
	"metasearch/engines"

	"go.uber.org/zap"
)

func main() {
	// =========
	// Config
	// =========
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// Response cache
	// =========
	var cache *client.Cache
	if cfg.CachePath != "" {
		cache, err = client.OpenCache(cfg.CachePath, time.Duration(cfg.CacheTTLMinutes)*time.Minute)
		if err != nil {
			logger.Fatal("failed to open response cache", zap.Error(err))
		}
		defer cache.Close()
	}

	// =========
	// HTTP executor
	// =========
	httpClient := client.New(logger, cache, cfg.RequestsPerMinute)

	// =========
	// Engine adapters
	// =========
	adapters := engines.New(logger)

	// =========
	// API server
	// =========
	server := api.NewServer(adapters, httpClient, cfg.QueryConfig(), logger, cfg.Port)
	log.Fatal(server.Start())
}
