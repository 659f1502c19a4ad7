// Bulk dataset loader for cecidarium.
// Reads a JSON file of gall records and upserts them through the embedded
// SDK, bypassing the HTTP layer. Supports parallel workers.
//
// Usage:
//
//	cecid-loader -file galls.json -workers 8
//
// Env vars:
//
//	REDIS_ADDR     — Redis address (default: localhost:6379)
//	REDIS_PASSWORD — Redis password
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	cecidarium "github.com/cecidology/cecidarium/pkg/sdk"
)

type config struct {
	file    string
	workers int
	prefix  string
	dryRun  bool
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.file, "file", "galls.json", "JSON file with gall records")
	flag.IntVar(&cfg.workers, "workers", 8, "number of parallel upsert workers")
	flag.StringVar(&cfg.prefix, "prefix", "cecid:", "storage key prefix")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "parse and validate the file without writing")
	flag.Parse()
	return cfg
}

// record mirrors the catalog JSON export shape.
type record struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Genus       string   `json:"genus"`
	Hosts       []string `json:"hosts"`
	Description string   `json:"description"`
	Alignment   *string  `json:"alignment"`
	Cells       *string  `json:"cells"`
	Color       *string  `json:"color"`
	Shape       *string  `json:"shape"`
	Walls       *string  `json:"walls"`
	Detachable  *int     `json:"detachable"`
	Locations   []string `json:"locations"`
	Textures    []string `json:"textures"`
}

func main() {
	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		cancel()
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config) error {
	start := time.Now()

	records, err := readRecords(cfg.file)
	if err != nil {
		return err
	}
	log.Printf("parsed %d records from %s", len(records), cfg.file)

	if cfg.dryRun {
		log.Println("dry run, nothing written")
		return nil
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := cecidarium.New(ctx,
		cecidarium.WithRedis(addr, os.Getenv("REDIS_PASSWORD")),
		cecidarium.WithKeyPrefix(cfg.prefix),
	)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Close()

	created, updated, failed := upsertAll(ctx, client, records, cfg.workers)

	log.Printf("done in %s: %d created, %d updated, %d failed",
		time.Since(start).Round(time.Millisecond), created, updated, failed)
	if failed > 0 {
		return fmt.Errorf("%d records failed", failed)
	}
	return nil
}

func readRecords(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func upsertAll(
	ctx context.Context, client *cecidarium.Client, records []record, workers int,
) (created, updated, failed int64) {
	var createdN, updatedN, failedN atomic.Int64

	jobs := make(chan record)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				isNew, err := client.Catalog().Upsert(ctx, toGall(rec))
				switch {
				case err != nil:
					failedN.Add(1)
					log.Printf("gall %d: %v", rec.ID, err)
				case isNew:
					createdN.Add(1)
				default:
					updatedN.Add(1)
				}
			}
		}()
	}

	for _, rec := range records {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return createdN.Load(), updatedN.Load(), failedN.Load()
		case jobs <- rec:
		}
	}
	close(jobs)
	wg.Wait()

	return createdN.Load(), updatedN.Load(), failedN.Load()
}

func toGall(rec record) cecidarium.Gall {
	return cecidarium.Gall{
		ID:          rec.ID,
		Name:        rec.Name,
		Genus:       rec.Genus,
		Hosts:       rec.Hosts,
		Description: rec.Description,
		Alignment:   rec.Alignment,
		Cells:       rec.Cells,
		Color:       rec.Color,
		Shape:       rec.Shape,
		Walls:       rec.Walls,
		Detachable:  rec.Detachable,
		Locations:   rec.Locations,
		Textures:    rec.Textures,
	}
}
