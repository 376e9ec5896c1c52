// Command refcore operates the reference-data store from the shell: seeding
// demo accounts, inspecting storage quota and exporting buckets to CSV.
//
// Backend selection is environment driven (see core.OpenPersistentStore and
// blob.Open). Subcommands:
//
//	refcore seed
//	refcore quota [-clear <bucket>] [-clear-all]
//	refcore export -categories languages,countries [-out <dir>]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"refcore/internal/adapters/export"
	"refcore/internal/blob"
	"refcore/internal/core"
	"refcore/internal/quota"
)

var exitFunc = os.Exit

func main() {
	exitFunc(run(os.Args[1:]))
}

func run(args []string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: refcore <seed|quota|export> [flags]")
		return 2
	}

	engine := core.NewDefaultRulesEngine()
	store, err := core.OpenPersistentStore(engine)
	if err != nil {
		logger.Error("open store", "error", err)
		return 1
	}

	ctx := context.Background()
	blobs, err := blob.Open(ctx)
	if err != nil {
		logger.Error("open blob store", "error", err)
		return 1
	}

	svc := core.NewService(store, core.WithLogger(core.NewSlogLogger(logger)), core.WithBlobStore(blobs))

	switch args[0] {
	case "seed":
		return runSeed(ctx, svc, logger)
	case "quota":
		return runQuota(ctx, store, logger, args[1:])
	case "export":
		return runExport(ctx, store, blobs, logger, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", args[0])
		return 2
	}
}

func runSeed(ctx context.Context, svc *core.Service, logger *slog.Logger) int {
	if _, err := svc.SeedDefaults(ctx); err != nil {
		logger.Error("seed defaults", "error", err)
		return 1
	}
	for _, account := range core.DefaultAccounts() {
		fmt.Printf("%s\t%s\t%s\n", account.Role, account.Email, account.Password)
	}
	return 0
}

func runQuota(ctx context.Context, store core.PersistentStore, logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("quota", flag.ContinueOnError)
	clearKey := fs.String("clear", "", "empty the named bucket before scanning")
	clearAll := fs.Bool("clear-all", false, "empty every bucket before scanning")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	monitor, err := quota.NewMonitor(store, nil)
	if err != nil {
		logger.Error("quota monitor", "error", err)
		return 1
	}
	if *clearAll {
		if err := monitor.ClearAll(ctx); err != nil {
			logger.Error("clear all buckets", "error", err)
			return 1
		}
	} else if *clearKey != "" {
		if err := monitor.ClearKey(ctx, *clearKey); err != nil {
			logger.Error("clear bucket", "bucket", *clearKey, "error", err)
			return 1
		}
	}

	report, err := monitor.Scan()
	if err != nil {
		logger.Error("quota scan", "error", err)
		return 1
	}
	for _, item := range report.Items {
		count := "N/A"
		if item.RecordCount != quota.RecordCountNA {
			count = fmt.Sprintf("%d", item.RecordCount)
		}
		fmt.Printf("%-14s %8d bytes  %s records\n", item.Key, item.SizeBytes, count)
	}
	fmt.Printf("total: %d bytes (%.2f%% of %d, %s)\n", report.UsedBytes, report.Percentage, quota.Capacity, report.Band)
	return 0
}

func runExport(ctx context.Context, store core.PersistentStore, blobs blob.Store, logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	rawCategories := fs.String("categories", "", "comma-separated export categories")
	outDir := fs.String("out", ".", "directory receiving the exported file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *rawCategories == "" {
		fmt.Fprintln(os.Stderr, "export: -categories is required")
		return 2
	}
	var categories []export.Category
	for _, c := range strings.Split(*rawCategories, ",") {
		categories = append(categories, export.Category(strings.TrimSpace(c)))
	}

	worker := export.NewWorker(store, export.NewBlobObjectStore(blobs), export.NewJSONAuditLogger(os.Stderr))
	worker.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = worker.Stop(stopCtx)
	}()

	record, err := worker.EnqueueExport(ctx, export.Input{Categories: categories, RequestedBy: "cli"})
	if err != nil {
		logger.Error("enqueue export", "error", err)
		return 1
	}

	deadline := time.Now().Add(30 * time.Second)
	for {
		current, ok := worker.GetExport(record.ID)
		if !ok {
			logger.Error("export record vanished", "id", record.ID)
			return 1
		}
		if current.Status == export.StatusFailed {
			logger.Error("export failed", "id", record.ID, "reason", current.Error)
			return 1
		}
		if current.Status == export.StatusSucceeded {
			record = current
			break
		}
		if time.Now().After(deadline) {
			logger.Error("export timed out", "id", record.ID)
			return 1
		}
		time.Sleep(50 * time.Millisecond)
	}

	key := record.Artifact.ID
	_, payload, err := export.NewBlobObjectStore(blobs).Get(ctx, key)
	if err != nil {
		logger.Error("fetch artifact", "key", key, "error", err)
		return 1
	}
	target := filepath.Join(*outDir, record.Artifact.Filename)
	if err := os.WriteFile(target, payload, 0o644); err != nil {
		logger.Error("write export file", "path", target, "error", err)
		return 1
	}
	fmt.Printf("exported %s (%d bytes)\n", target, len(payload))
	return 0
}
