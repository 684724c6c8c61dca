// Command enrichment periodically promotes frequently-seen unknown
// ingredients into the dynamic ontology, fetching each from USDA
// FDC/Open Food Facts and keeping only the results the fetcher itself
// rates as high confidence.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/internal/config"
	"github.com/pageza/dietary-compliance-engine/internal/enrichment"
	"github.com/pageza/dietary-compliance-engine/internal/externalapi"
	"github.com/pageza/dietary-compliance-engine/internal/ontology"
)

func main() {
	var minFrequency int
	var dryRun bool

	root := &cobra.Command{
		Use:   "enrichment",
		Short: "Enrich unknown ingredients from external APIs into the dynamic ontology",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(minFrequency, dryRun)
		},
	}
	root.Flags().IntVar(&minFrequency, "min-frequency", 1, "minimum times an ingredient must have been seen to be considered for enrichment")
	root.Flags().BoolVar(&dryRun, "dry-run", false, "log what would be added without writing to the dynamic ontology")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(minFrequency int, dryRun bool) error {
	if err := config.LoadConfig(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.NewConfig()

	logger, err := config.SetupLogger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	unknownLog := enrichment.NewUnknownLog(cfg.Data.UnknownLogPath, logger)
	dynamicOntology, err := ontology.NewDynamicRegistry(cfg.Data.DynamicOntologyPath, logger)
	if err != nil {
		return fmt.Errorf("loading dynamic ontology: %w", err)
	}
	fetcher := externalapi.NewFetcher(cfg.ExternalAPI.USDAFDCAPIKey, cfg.ExternalAPI.OpenFoodFactsEnabled, cfg.ExternalAPI.Timeout, logger)

	keys := unknownLog.KeysForEnrichment(minFrequency)
	if len(keys) == 0 {
		logger.Info("no unknown ingredients to enrich")
		return nil
	}
	entries := unknownLog.Entries()

	logger.Info("enriching unknown ingredient keys", zap.Int("count", len(keys)), zap.Int("min_frequency", minFrequency))

	added := 0
	ctx := context.Background()
	for _, normalizedKey := range keys {
		rawInput := normalizedKey
		if entry, ok := entries[normalizedKey]; ok && len(entry.RawInputs) > 0 {
			rawInput = entry.RawInputs[0]
		}

		result := fetcher.FetchIngredient(ctx, rawInput, true)
		if result.Ingredient == nil || result.Confidence != externalapi.ConfidenceHigh {
			continue
		}

		if dryRun {
			logger.Info("dry-run would add", zap.String("id", result.Ingredient.ID), zap.String("source", result.Source))
			added++
			continue
		}

		if err := dynamicOntology.Append(*result.Ingredient, result.Source, string(result.Confidence), true); err != nil {
			logger.Warn("failed to append to dynamic ontology", zap.String("id", result.Ingredient.ID), zap.Error(err))
			continue
		}
		logger.Info("enrichment added", zap.String("id", result.Ingredient.ID), zap.String("source", result.Source))
		added++
	}

	logger.Info("enrichment run complete", zap.Int("added", added))
	return nil
}
