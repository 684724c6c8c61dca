package compliance

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/dietary-compliance-engine/internal/enrichment"
	"github.com/pageza/dietary-compliance-engine/internal/externalapi"
	"github.com/pageza/dietary-compliance-engine/internal/metrics"
	"github.com/pageza/dietary-compliance-engine/internal/ontology"
)

// ResolutionLevel is the confidence tier a resolved ingredient came
// from, used directly as a weight in confidence scoring.
type ResolutionLevel string

const (
	LevelHigh      ResolutionLevel = "high"
	LevelMedium    ResolutionLevel = "medium"
	LevelLow       ResolutionLevel = "low"
	LevelAPIFailed ResolutionLevel = "api_failed"
)

// Resolver implements the tiered lookup state machine: static ontology,
// then dynamic ontology, then (if enabled) external APIs, promoting
// high-confidence API hits into the dynamic ontology and logging
// every ontology miss for later enrichment before any API call.
// There is no input-validation step: every ontology miss goes on to
// the API tier when it is enabled.
//
//	INIT -> [static hit] -> STATIC (high)
//	INIT -> [dynamic hit] -> DYNAMIC (medium)
//	INIT -> [api hit high] -> API_PROMOTED (high, persisted)
//	INIT -> [api hit medium] -> API_USED (medium, not persisted)
//	INIT -> [api miss/error] -> API_FAILED (api_failed)
type Resolver struct {
	Static     *ontology.Registry
	Dynamic    *ontology.DynamicRegistry
	Fetcher    *externalapi.Fetcher
	UnknownLog *enrichment.UnknownLog
	Log        *zap.Logger
}

// Resolve looks up raw through the static ontology, then the dynamic
// ontology, then (if useAPIFallback) external connectors. source is one
// of "static", "dynamic", "api", or "" when nothing resolved and the API
// tier was skipped entirely. logUnknown controls whether a miss is
// recorded in the unknown-ingredients log (trace/minor ingredients pass
// false so they stay informational-only).
func (r *Resolver) Resolve(
	ctx context.Context,
	raw string,
	useAPIFallback bool,
	logUnknown bool,
	restrictionIDs []string,
	profileContext map[string]interface{},
) (ing *ontology.Ingredient, source string, level ResolutionLevel) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return nil, "", LevelLow
	}

	if found, ok := r.Static.Resolve(raw); ok {
		metrics.ObserveResolution(string(LevelHigh))
		return &found, "static", LevelHigh
	}
	if r.Dynamic != nil {
		if found, ok := r.Dynamic.Resolve(raw); ok {
			metrics.ObserveResolution(string(LevelMedium))
			return &found, "dynamic", LevelMedium
		}
	}

	if logUnknown {
		r.recordUnknown(raw, key, restrictionIDs, profileContext)
	}
	if !useAPIFallback || r.Fetcher == nil {
		metrics.ObserveResolution(string(LevelLow))
		return nil, "", LevelLow
	}

	result := r.Fetcher.FetchIngredient(ctx, key, true)
	if result.Ingredient == nil {
		if r.Log != nil {
			r.Log.Info("compliance_engine api_failed uncertain",
				zap.String("raw", raw), zap.String("key", key))
		}
		metrics.ObserveResolution(string(LevelAPIFailed))
		return nil, "api", LevelAPIFailed
	}

	switch result.Confidence {
	case externalapi.ConfidenceHigh:
		if r.Dynamic != nil {
			if err := r.Dynamic.Append(*result.Ingredient, result.Source, string(result.Confidence), true); err != nil && r.Log != nil {
				r.Log.Warn("dynamic ontology promotion failed; using in-memory result only", zap.Error(err))
			}
		}
		metrics.ObserveResolution(string(LevelHigh))
		return result.Ingredient, "api", LevelHigh
	default:
		if r.Dynamic != nil {
			_ = r.Dynamic.Append(*result.Ingredient, result.Source, string(result.Confidence), false)
		}
		metrics.ObserveResolution(string(LevelMedium))
		return result.Ingredient, "api", LevelMedium
	}
}

func (r *Resolver) recordUnknown(raw, key string, restrictionIDs []string, profileContext map[string]interface{}) {
	if r.Log != nil {
		r.Log.Info("unknown_ingredient",
			zap.String("raw", raw),
			zap.String("normalized_key", key),
			zap.Strings("restriction_ids", firstN(restrictionIDs, 10)),
		)
	}
	if r.UnknownLog != nil {
		_ = r.UnknownLog.Record(raw, key, restrictionIDs, profileContext, true)
	}
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
