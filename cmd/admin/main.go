package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"cvcrafter/internal/config"
	"cvcrafter/internal/database"
	"cvcrafter/internal/storage"
)

// admin removes old export records and their PDFs.
func main() {
	var (
		olderThan = flag.Duration("older-than", 30*24*time.Hour, "prune exports not updated within this window")
		batch     = flag.Int("batch", 200, "rows handled per query")
		dryRun    = flag.Bool("dry-run", false, "list what would be removed without deleting")
		dbHost    = flag.String("db-host", "", "database host (defaults to DATABASE_HOST)")
		dbPort    = flag.Int("db-port", 0, "database port (defaults to DATABASE_PORT)")
		dbName    = flag.String("db-name", "", "database name (defaults to POSTGRES_DB)")
	)
	flag.Parse()

	if *olderThan <= 0 {
		log.Fatal("--older-than must be positive")
	}
	if *batch <= 0 {
		log.Fatal("--batch must be positive")
	}

	cfg := config.MustLoad()
	if err := cfg.ValidateServices(); err != nil {
		log.Fatalf("validate config: %v", err)
	}
	cfg.Database = overrideDatabase(cfg.Database, *dbHost, *dbPort, *dbName)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}

	ctx := context.Background()
	cutoff := time.Now().Add(-*olderThan)
	removed := 0
	for {
		recs, err := database.ListExportsBefore(ctx, db, cutoff, *batch)
		if err != nil {
			log.Fatalf("list exports: %v", err)
		}
		if len(recs) == 0 {
			break
		}
		for i := range recs {
			rec := &recs[i]
			if *dryRun {
				fmt.Printf("%s\t%s\t%s\t%s\n", rec.PublicID, rec.Profile, rec.Status, rec.UpdatedAt.Format(time.RFC3339))
				continue
			}
			if rec.ObjectKey != "" {
				if err := storageClient.DeleteObject(ctx, rec.ObjectKey); err != nil && !storage.IsNoSuchKey(err) {
					log.Fatalf("delete object %s: %v", rec.ObjectKey, err)
				}
			}
			if err := database.DeleteExport(ctx, db, rec); err != nil {
				log.Fatalf("%v", err)
			}
			removed++
		}
		if *dryRun || len(recs) < *batch {
			break
		}
	}

	log.Printf("pruned %d exports older than %s", removed, cutoff.Format(time.RFC3339))
}

// overrideDatabase applies non-empty flag values over the loaded settings.
func overrideDatabase(base config.DatabaseConfig, host string, port int, name string) config.DatabaseConfig {
	if h := strings.TrimSpace(host); h != "" {
		base.Host = h
	}
	if port > 0 {
		base.Port = port
	}
	if n := strings.TrimSpace(name); n != "" {
		base.Name = n
	}
	return base
}
