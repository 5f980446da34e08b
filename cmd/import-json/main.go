// Command import-json loads legacy financial_data.json and
// prediction_rules.json files into a ledger backend. Existing backend
// contents are overwritten.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func main() {
	dataDir := flag.String("data", "data", "directory containing financial_data.json and prediction_rules.json")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	reg := core.DefaultRegistry(cfg.EuroINRRate)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory := backend.NewFactory(reg, logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", backendCfg.Type)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	ctx := context.Background()

	snapPath := filepath.Join(*dataDir, "financial_data.json")
	if raw, err := os.ReadFile(snapPath); err == nil {
		snapshots, err := ledger.ParseLegacySnapshots(reg, raw)
		if err != nil {
			logger.Error("Failed to parse snapshots", "error", err, "path", snapPath)
			os.Exit(1)
		}
		if changed := ledger.EnsureSnapshotGUIDs(snapshots); changed {
			logger.Info("Assigned GUIDs to legacy snapshots")
		}
		if err := result.Backend.ReplaceSnapshots(ctx, snapshots); err != nil {
			logger.Error("Failed to store snapshots", "error", err)
			os.Exit(1)
		}
		logger.Info("Imported snapshots", "count", len(snapshots), "path", snapPath)
	} else {
		logger.Warn("Snapshot file not found, skipping", "path", snapPath, "error", err)
	}

	rulePath := filepath.Join(*dataDir, "prediction_rules.json")
	if raw, err := os.ReadFile(rulePath); err == nil {
		rules, err := ledger.ParseLegacyRules(reg, raw)
		if err != nil {
			logger.Error("Failed to parse rules", "error", err, "path", rulePath)
			os.Exit(1)
		}
		if changed := ledger.EnsureRuleIDs(rules); changed {
			logger.Info("Assigned IDs to legacy rules")
		}
		if err := result.Backend.ReplaceRules(ctx, rules); err != nil {
			logger.Error("Failed to store rules", "error", err)
			os.Exit(1)
		}
		logger.Info("Imported rules", "count", len(rules), "path", rulePath)
	} else {
		logger.Warn("Rules file not found, skipping", "path", rulePath, "error", err)
	}

	logger.Info("Import complete")
}
