// Command rebuild runs the extraction pipeline offline and writes the cache
// artifact, without starting the HTTP server. Useful for cron jobs and for
// pre-warming the cache before a deploy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"procdash/internal/cache"
	"procdash/internal/config"
	"procdash/internal/exporter"
	"procdash/internal/infrastructure"
)

func main() {
	source := flag.String("source", "", "source workbook path (defaults to configured source paths)")
	cacheFile := flag.String("cache", "", "cache artifact path (defaults to configured cache file)")
	csvOut := flag.String("csv", "", "optionally export the extracted orders to this CSV file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if *source != "" {
		cfg.Procurement.SourcePaths = []string{*source}
	}
	if *cacheFile != "" {
		cfg.Procurement.CacheFile = *cacheFile
	}

	manager := cache.NewManager(cfg.Procurement, logger)
	ctx := context.Background()

	state, err := manager.Rebuild(ctx)
	if err != nil {
		logger.Error("Rebuild failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	snap := manager.Snapshot()

	if *csvOut != "" {
		writer := exporter.NewCSVWriter(logger)
		if err := writer.WriteOrdersFile(*csvOut, snap.PurchaseOrders, exporter.WriteOptions{BOMPrefix: true}); err != nil {
			logger.Error("CSV export failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("Rebuild complete",
		slog.String("state", string(state)),
		slog.String("cache_file", cfg.Procurement.CacheFile),
		slog.Int("purchase_orders", len(snap.PurchaseOrders)))

	fmt.Printf("Cache rebuilt: %d purchase orders, %d operating units, total %.2f\n",
		len(snap.PurchaseOrders),
		snap.Metrics.TotalOperatingUnits,
		snap.Metrics.TotalProcurement)
}
